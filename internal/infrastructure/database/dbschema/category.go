package dbschema

import (
	"github.com/google/uuid"

	"github.com/miracle078/adogent/internal/domain/catalog"
	"github.com/miracle078/adogent/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Category{})
}

// Category represents the persisted category schema.
type Category struct {
	BaseModel
	PublicID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	Name        string  `gorm:"type:varchar(100);not null;index"`
	Slug        string  `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description *string `gorm:"type:text"`

	ParentID *uint     `gorm:"index"`
	Parent   *Category `gorm:"foreignKey:ParentID"`

	IsActive  bool `gorm:"not null;default:true;index"`
	SortOrder int  `gorm:"not null;default:0"`

	MetaTitle       *string `gorm:"type:varchar(100)"`
	MetaDescription *string `gorm:"type:varchar(255)"`
	MetaKeywords    *string `gorm:"type:varchar(255)"`
}

// NewSchemaCategory converts a domain category into a schema instance.
func NewSchemaCategory(c *catalog.Category) *Category {
	if c == nil {
		return nil
	}

	return &Category{
		BaseModel: BaseModel{
			ID:        c.ID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		PublicID:        c.PublicID,
		Name:            c.Name,
		Slug:            c.Slug,
		Description:     c.Description,
		ParentID:        c.ParentID,
		IsActive:        c.IsActive,
		SortOrder:       c.SortOrder,
		MetaTitle:       c.MetaTitle,
		MetaDescription: c.MetaDescription,
		MetaKeywords:    c.MetaKeywords,
	}
}

// EtoD converts a schema category back to the domain representation.
func (c *Category) EtoD() *catalog.Category {
	if c == nil {
		return nil
	}

	category := &catalog.Category{
		ID:              c.ID,
		PublicID:        c.PublicID,
		Name:            c.Name,
		Slug:            c.Slug,
		Description:     c.Description,
		ParentID:        c.ParentID,
		IsActive:        c.IsActive,
		SortOrder:       c.SortOrder,
		MetaTitle:       c.MetaTitle,
		MetaDescription: c.MetaDescription,
		MetaKeywords:    c.MetaKeywords,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}

	if c.Parent != nil {
		category.Parent = c.Parent.EtoD()
	}

	return category
}
