package productres

import (
	"github.com/miracle078/adogent/internal/domain/catalog"
)

// ProductResponse represents a single product response
type ProductResponse struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Slug             string                 `json:"slug"`
	Description      *string                `json:"description,omitempty"`
	ShortDescription *string                `json:"short_description,omitempty"`
	Category         *CategoryResponse      `json:"category,omitempty"`
	Price            string                 `json:"price"`
	CompareAtPrice   *string                `json:"compare_at_price,omitempty"`
	Currency         string                 `json:"currency"`
	SKU              *string                `json:"sku,omitempty"`
	Quantity         int                    `json:"quantity"`
	InStock          bool                   `json:"in_stock"`
	Status           string                 `json:"status"`
	IsFeatured       bool                   `json:"is_featured"`
	IsVisible        bool                   `json:"is_visible"`
	IsSecondHand     bool                   `json:"is_second_hand"`
	Condition        *string                `json:"condition,omitempty"`
	AISummary        *string                `json:"ai_summary,omitempty"`
	Images           []ProductImageResponse `json:"images"`
	CreatedAt        int64                  `json:"created_at"`
	UpdatedAt        int64                  `json:"updated_at"`
}

// ProductImageResponse represents a stored product image
type ProductImageResponse struct {
	ID           string  `json:"id"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
	AltText      *string `json:"alt_text,omitempty"`
	DisplayOrder int     `json:"display_order"`
	IsPrimary    bool    `json:"is_primary"`
}

// ProductListResponse represents a paginated list of products
type ProductListResponse struct {
	Data     []ProductResponse `json:"data"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	HasMore  bool              `json:"has_more"`
}

// CategoryResponse represents a single category response
type CategoryResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description *string           `json:"description,omitempty"`
	Parent      *CategoryResponse `json:"parent,omitempty"`
	IsActive    bool              `json:"is_active"`
	SortOrder   int               `json:"sort_order"`
	CreatedAt   int64             `json:"created_at"`
	UpdatedAt   int64             `json:"updated_at"`
}

// DeletedResponse represents a delete confirmation response
type DeletedResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// NewProductResponse creates a response from a domain product
func NewProductResponse(product *catalog.Product) *ProductResponse {
	resp := &ProductResponse{
		ID:               product.PublicID.String(),
		Name:             product.Name,
		Slug:             product.Slug,
		Description:      product.Description,
		ShortDescription: product.ShortDescription,
		Price:            product.Price.String(),
		Currency:         product.Currency,
		SKU:              product.SKU,
		Quantity:         product.Quantity,
		InStock:          product.Quantity > 0,
		Status:           string(product.Status),
		IsFeatured:       product.IsFeatured,
		IsVisible:        product.IsVisible,
		IsSecondHand:     product.IsSecondHand,
		AISummary:        product.AISummary,
		Images:           make([]ProductImageResponse, 0, len(product.Images)),
		CreatedAt:        product.CreatedAt.Unix(),
		UpdatedAt:        product.UpdatedAt.Unix(),
	}

	if product.CompareAtPrice != nil {
		compare := product.CompareAtPrice.String()
		resp.CompareAtPrice = &compare
	}
	if product.Condition != nil {
		condition := string(*product.Condition)
		resp.Condition = &condition
	}
	if product.Category != nil {
		resp.Category = NewCategoryResponse(product.Category)
	}
	for _, img := range product.Images {
		resp.Images = append(resp.Images, NewProductImageResponse(&img))
	}

	return resp
}

// NewProductImageResponse creates a response from a domain product image
func NewProductImageResponse(image *catalog.ProductImage) ProductImageResponse {
	return ProductImageResponse{
		ID:           image.PublicID.String(),
		URL:          image.URL,
		ThumbnailURL: image.ThumbnailURL,
		AltText:      image.AltText,
		DisplayOrder: image.DisplayOrder,
		IsPrimary:    image.IsPrimary,
	}
}

// NewProductListResponse creates a paginated list response
func NewProductListResponse(products []*catalog.Product, total int64, page, pageSize int) *ProductListResponse {
	data := make([]ProductResponse, len(products))
	for i, product := range products {
		data[i] = *NewProductResponse(product)
	}

	return &ProductListResponse{
		Data:     data,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasMore:  int64(page*pageSize) < total,
	}
}

// NewCategoryResponse creates a response from a domain category
func NewCategoryResponse(category *catalog.Category) *CategoryResponse {
	resp := &CategoryResponse{
		ID:          category.PublicID.String(),
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		IsActive:    category.IsActive,
		SortOrder:   category.SortOrder,
		CreatedAt:   category.CreatedAt.Unix(),
		UpdatedAt:   category.UpdatedAt.Unix(),
	}

	if category.Parent != nil {
		resp.Parent = NewCategoryResponse(category.Parent)
	}

	return resp
}

// NewCategoryListResponse creates a list response from domain categories
func NewCategoryListResponse(categories []*catalog.Category) []CategoryResponse {
	data := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		data[i] = *NewCategoryResponse(category)
	}
	return data
}

// NewDeletedResponse creates a delete confirmation
func NewDeletedResponse(publicID string) *DeletedResponse {
	return &DeletedResponse{ID: publicID, Deleted: true}
}
