package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Category models a hierarchical product grouping.
type Category struct {
	ID       uint
	PublicID uuid.UUID

	Name        string
	Slug        string
	Description *string

	ParentID *uint
	Parent   *Category

	IsActive  bool
	SortOrder int

	MetaTitle       *string
	MetaDescription *string
	MetaKeywords    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryQuery captures category listing options.
type CategoryQuery struct {
	IncludeInactive bool
	ParentPublicID  *uuid.UUID
}

// CategoryRepository defines storage operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	Update(ctx context.Context, category *Category) (*Category, error)
	Delete(ctx context.Context, publicID uuid.UUID) error
	List(ctx context.Context, query CategoryQuery) ([]*Category, error)
	CountProducts(ctx context.Context, categoryID uint) (int64, error)
}
