// Package catalog provides the product and category domain models for the
// luxury storefront.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProductStatus is the lifecycle state of a catalog product.
type ProductStatus string

const (
	ProductStatusDraft      ProductStatus = "DRAFT"
	ProductStatusActive     ProductStatus = "ACTIVE"
	ProductStatusArchived   ProductStatus = "ARCHIVED"
	ProductStatusOutOfStock ProductStatus = "OUT_OF_STOCK"
)

// ProductCondition describes second-hand item condition.
type ProductCondition string

const (
	ConditionNew       ProductCondition = "NEW"
	ConditionLikeNew   ProductCondition = "LIKE_NEW"
	ConditionExcellent ProductCondition = "EXCELLENT"
	ConditionGood      ProductCondition = "GOOD"
	ConditionFair      ProductCondition = "FAIR"
)

// Product models a catalog item. PublicID is the externally visible
// identifier; ID is internal to the database layer.
type Product struct {
	ID       uint
	PublicID uuid.UUID

	Name             string
	Slug             string
	Description      *string
	ShortDescription *string

	CategoryID uint
	Category   *Category

	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	CostPrice      *decimal.Decimal
	Currency       string

	SKU               *string
	Barcode           *string
	Quantity          int
	LowStockThreshold int

	Status     ProductStatus
	IsFeatured bool
	IsVisible  bool

	Weight     *float64
	WeightUnit *string
	Dimensions datatypes.JSON

	IsSecondHand         bool
	Condition            *ProductCondition
	ConditionDescription *string

	MetaTitle       *string
	MetaDescription *string
	MetaKeywords    *string

	AISummary *string

	Images []ProductImage

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductImage is a stored media asset attached to a product.
type ProductImage struct {
	ID              uint
	PublicID        uuid.UUID
	ProductID       uint
	URL             string
	ThumbnailURL    *string
	StoragePath     *string
	StorageProvider string
	ContentType     *string
	FileSize        *int
	AltText         *string
	DisplayOrder    int
	IsPrimary       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// InStock reports whether the product has sellable quantity.
func (p *Product) InStock() bool {
	return p.Quantity > 0
}

// LowStock reports whether quantity dropped to or below the threshold.
func (p *Product) LowStock() bool {
	return p.Quantity <= p.LowStockThreshold
}

// ProductQuery captures list filtering and pagination.
type ProductQuery struct {
	Search           string
	CategoryPublicID *uuid.UUID
	MinPrice         *decimal.Decimal
	MaxPrice         *decimal.Decimal
	Featured         *bool
	Status           *ProductStatus
	IncludeHidden    bool
	SortBy           string
	SortDesc         bool
	Page             int
	PageSize         int
}

// CandidateQuery selects recommendation candidates: visible active products,
// newest first, optionally constrained by price range and exclusions.
type CandidateQuery struct {
	MinPrice         *decimal.Decimal
	MaxPrice         *decimal.Decimal
	ExcludePublicIDs []uuid.UUID
	Limit            int
}

// ProductRepository defines storage operations for products.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) (*Product, error)
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	Update(ctx context.Context, product *Product) (*Product, error)
	SoftDelete(ctx context.Context, publicID uuid.UUID) error
	List(ctx context.Context, query ProductQuery) ([]*Product, int64, error)
	Search(ctx context.Context, term string, limit int) ([]*Product, error)
	FindCandidates(ctx context.Context, query CandidateQuery) ([]*Product, error)
	FindMissingSummaries(ctx context.Context, limit int) ([]*Product, error)
	UpdateAISummary(ctx context.Context, publicID uuid.UUID, summary string) error
	AddImage(ctx context.Context, productID uint, image *ProductImage) (*ProductImage, error)
	FindImage(ctx context.Context, productID uint, imagePublicID uuid.UUID) (*ProductImage, error)
	RemoveImage(ctx context.Context, productID uint, imagePublicID uuid.UUID) error
}
