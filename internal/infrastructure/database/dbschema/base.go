// Package dbschema defines the persisted table schemas and their converters
// to and from the domain models.
package dbschema

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel carries the shared columns for every table. Soft deletion is
// handled by gorm's DeletedAt index.
type BaseModel struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
