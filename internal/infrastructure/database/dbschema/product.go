package dbschema

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/miracle078/adogent/internal/domain/catalog"
	"github.com/miracle078/adogent/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Product{})
	database.RegisterSchemaForAutoMigrate(ProductImage{})
}

// Product represents the persisted product schema.
type Product struct {
	BaseModel
	PublicID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	Name             string  `gorm:"type:varchar(255);not null;index"`
	Slug             string  `gorm:"type:varchar(275);not null;uniqueIndex"`
	Description      *string `gorm:"type:text"`
	ShortDescription *string `gorm:"type:varchar(500)"`

	CategoryID uint     `gorm:"index;not null"`
	Category   Category `gorm:"foreignKey:CategoryID"`

	Price          decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	CompareAtPrice *decimal.Decimal `gorm:"type:numeric(12,2)"`
	CostPrice      *decimal.Decimal `gorm:"type:numeric(12,2)"`
	Currency       string           `gorm:"type:varchar(3);not null;default:'USD'"`

	SKU               *string `gorm:"type:varchar(50);uniqueIndex"`
	Barcode           *string `gorm:"type:varchar(50)"`
	Quantity          int     `gorm:"not null;default:0"`
	LowStockThreshold int     `gorm:"not null;default:5"`

	Status     catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_products_status_visible"`
	IsFeatured bool                  `gorm:"not null;default:false;index"`
	IsVisible  bool                  `gorm:"not null;default:true;index:idx_products_status_visible"`

	Weight     *float64
	WeightUnit *string        `gorm:"type:varchar(10)"`
	Dimensions datatypes.JSON `gorm:"type:jsonb"`

	IsSecondHand         bool    `gorm:"not null;default:false"`
	Condition            *string `gorm:"type:varchar(20)"`
	ConditionDescription *string `gorm:"type:text"`

	MetaTitle       *string `gorm:"type:varchar(100)"`
	MetaDescription *string `gorm:"type:varchar(255)"`
	MetaKeywords    *string `gorm:"type:varchar(255)"`

	AISummary *string `gorm:"type:text"`

	Images []ProductImage `gorm:"foreignKey:ProductID"`
}

// ProductImage represents the persisted product image schema.
type ProductImage struct {
	BaseModel
	PublicID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	ProductID uint      `gorm:"index;not null"`

	URL          string  `gorm:"type:varchar(512);not null"`
	ThumbnailURL *string `gorm:"type:varchar(512)"`

	StoragePath     *string `gorm:"type:varchar(255)"`
	StorageProvider string  `gorm:"type:varchar(20);not null;default:'cloudinary'"`
	ContentType     *string `gorm:"type:varchar(50)"`
	FileSize        *int

	AltText      *string `gorm:"type:varchar(255)"`
	DisplayOrder int     `gorm:"not null;default:0"`
	IsPrimary    bool    `gorm:"not null;default:false"`
}

// NewSchemaProduct converts a domain product into a schema instance.
func NewSchemaProduct(p *catalog.Product) *Product {
	if p == nil {
		return nil
	}

	entity := &Product{
		BaseModel: BaseModel{
			ID:        p.ID,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
		PublicID:             p.PublicID,
		Name:                 p.Name,
		Slug:                 p.Slug,
		Description:          p.Description,
		ShortDescription:     p.ShortDescription,
		CategoryID:           p.CategoryID,
		Price:                p.Price,
		CompareAtPrice:       p.CompareAtPrice,
		CostPrice:            p.CostPrice,
		Currency:             p.Currency,
		SKU:                  p.SKU,
		Barcode:              p.Barcode,
		Quantity:             p.Quantity,
		LowStockThreshold:    p.LowStockThreshold,
		Status:               p.Status,
		IsFeatured:           p.IsFeatured,
		IsVisible:            p.IsVisible,
		Weight:               p.Weight,
		WeightUnit:           p.WeightUnit,
		Dimensions:           p.Dimensions,
		IsSecondHand:         p.IsSecondHand,
		ConditionDescription: p.ConditionDescription,
		MetaTitle:            p.MetaTitle,
		MetaDescription:      p.MetaDescription,
		MetaKeywords:         p.MetaKeywords,
		AISummary:            p.AISummary,
	}

	if p.Condition != nil {
		condition := string(*p.Condition)
		entity.Condition = &condition
	}

	return entity
}

// EtoD converts a schema product back to the domain representation.
func (p *Product) EtoD() *catalog.Product {
	if p == nil {
		return nil
	}

	product := &catalog.Product{
		ID:                   p.ID,
		PublicID:             p.PublicID,
		Name:                 p.Name,
		Slug:                 p.Slug,
		Description:          p.Description,
		ShortDescription:     p.ShortDescription,
		CategoryID:           p.CategoryID,
		Price:                p.Price,
		CompareAtPrice:       p.CompareAtPrice,
		CostPrice:            p.CostPrice,
		Currency:             p.Currency,
		SKU:                  p.SKU,
		Barcode:              p.Barcode,
		Quantity:             p.Quantity,
		LowStockThreshold:    p.LowStockThreshold,
		Status:               p.Status,
		IsFeatured:           p.IsFeatured,
		IsVisible:            p.IsVisible,
		Weight:               p.Weight,
		WeightUnit:           p.WeightUnit,
		Dimensions:           p.Dimensions,
		IsSecondHand:         p.IsSecondHand,
		ConditionDescription: p.ConditionDescription,
		MetaTitle:            p.MetaTitle,
		MetaDescription:      p.MetaDescription,
		MetaKeywords:         p.MetaKeywords,
		AISummary:            p.AISummary,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}

	if p.Condition != nil {
		condition := catalog.ProductCondition(*p.Condition)
		product.Condition = &condition
	}

	if p.Category.ID != 0 {
		product.Category = p.Category.EtoD()
	}

	for _, image := range p.Images {
		product.Images = append(product.Images, *image.EtoD())
	}

	return product
}

// NewSchemaProductImage converts a domain product image into a schema instance.
func NewSchemaProductImage(i *catalog.ProductImage) *ProductImage {
	if i == nil {
		return nil
	}

	return &ProductImage{
		BaseModel: BaseModel{
			ID:        i.ID,
			CreatedAt: i.CreatedAt,
			UpdatedAt: i.UpdatedAt,
		},
		PublicID:        i.PublicID,
		ProductID:       i.ProductID,
		URL:             i.URL,
		ThumbnailURL:    i.ThumbnailURL,
		StoragePath:     i.StoragePath,
		StorageProvider: i.StorageProvider,
		ContentType:     i.ContentType,
		FileSize:        i.FileSize,
		AltText:         i.AltText,
		DisplayOrder:    i.DisplayOrder,
		IsPrimary:       i.IsPrimary,
	}
}

// EtoD converts a schema product image back to the domain representation.
func (i *ProductImage) EtoD() *catalog.ProductImage {
	if i == nil {
		return nil
	}

	return &catalog.ProductImage{
		ID:              i.ID,
		PublicID:        i.PublicID,
		ProductID:       i.ProductID,
		URL:             i.URL,
		ThumbnailURL:    i.ThumbnailURL,
		StoragePath:     i.StoragePath,
		StorageProvider: i.StorageProvider,
		ContentType:     i.ContentType,
		FileSize:        i.FileSize,
		AltText:         i.AltText,
		DisplayOrder:    i.DisplayOrder,
		IsPrimary:       i.IsPrimary,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}
