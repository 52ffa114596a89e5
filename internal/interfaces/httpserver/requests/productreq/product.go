// Package productreq defines the request payloads for catalog endpoints.
package productreq

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/miracle078/adogent/internal/domain/catalog"
	"github.com/miracle078/adogent/internal/utils/platformerrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("product_status", func(fl validator.FieldLevel) bool {
		switch catalog.ProductStatus(fl.Field().String()) {
		case catalog.ProductStatusDraft, catalog.ProductStatusActive, catalog.ProductStatusArchived, catalog.ProductStatusOutOfStock:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("product_condition", func(fl validator.FieldLevel) bool {
		switch catalog.ProductCondition(fl.Field().String()) {
		case catalog.ConditionNew, catalog.ConditionLikeNew, catalog.ConditionExcellent, catalog.ConditionGood, catalog.ConditionFair:
			return true
		}
		return false
	})
	return v
}

// CreateProductRequest is the payload for POST /products.
type CreateProductRequest struct {
	Name             string   `json:"name" binding:"required,max=255"`
	Slug             string   `json:"slug"`
	Description      *string  `json:"description"`
	ShortDescription *string  `json:"short_description"`
	CategoryID       string   `json:"category_id" binding:"required,uuid"`
	Price            float64  `json:"price" binding:"required,gt=0"`
	CompareAtPrice   *float64 `json:"compare_at_price"`
	Currency         string   `json:"currency"`
	SKU              *string  `json:"sku"`
	Quantity         int      `json:"quantity"`
	Status           string   `json:"status" validate:"omitempty,product_status"`
	IsFeatured       bool     `json:"is_featured"`
	IsVisible        *bool    `json:"is_visible"`
	Condition        string   `json:"condition" validate:"omitempty,product_condition"`
	MetaTitle        *string  `json:"meta_title"`
	MetaDescription  *string  `json:"meta_description"`
}

// Validate applies the catalog enum rules gin's binding tags cannot express.
func (r *CreateProductRequest) Validate() error {
	return validate.Struct(r)
}

// ToProduct maps the payload onto a fresh domain product.
func (r *CreateProductRequest) ToProduct() *catalog.Product {
	product := &catalog.Product{
		Name:             r.Name,
		Slug:             r.Slug,
		Description:      r.Description,
		ShortDescription: r.ShortDescription,
		Price:            decimal.NewFromFloat(r.Price),
		Currency:         r.Currency,
		SKU:              r.SKU,
		Quantity:         r.Quantity,
		Status:           catalog.ProductStatus(r.Status),
		IsFeatured:       r.IsFeatured,
		IsVisible:        true,
		MetaTitle:        r.MetaTitle,
		MetaDescription:  r.MetaDescription,
	}
	if r.Condition != "" {
		condition := catalog.ProductCondition(r.Condition)
		product.Condition = &condition
		product.IsSecondHand = condition != catalog.ConditionNew
	}
	if r.CompareAtPrice != nil {
		compare := decimal.NewFromFloat(*r.CompareAtPrice)
		product.CompareAtPrice = &compare
	}
	if r.IsVisible != nil {
		product.IsVisible = *r.IsVisible
	}
	return product
}

// UpdateProductRequest is the payload for PATCH /products/:id. Only supplied
// fields are applied.
type UpdateProductRequest struct {
	Name             *string  `json:"name"`
	Description      *string  `json:"description"`
	ShortDescription *string  `json:"short_description"`
	Price            *float64 `json:"price"`
	CompareAtPrice   *float64 `json:"compare_at_price"`
	Quantity         *int     `json:"quantity"`
	Status           *string  `json:"status" validate:"omitempty,product_status"`
	IsFeatured       *bool    `json:"is_featured"`
	IsVisible        *bool    `json:"is_visible"`
	Condition        *string  `json:"condition" validate:"omitempty,product_condition"`
	MetaTitle        *string  `json:"meta_title"`
	MetaDescription  *string  `json:"meta_description"`
}

// Validate applies the catalog enum rules gin's binding tags cannot express.
func (r *UpdateProductRequest) Validate() error {
	return validate.Struct(r)
}

// Apply copies the supplied fields onto the product.
func (r *UpdateProductRequest) Apply(product *catalog.Product) error {
	if r.Name != nil {
		product.Name = *r.Name
	}
	if r.Description != nil {
		product.Description = r.Description
	}
	if r.ShortDescription != nil {
		product.ShortDescription = r.ShortDescription
	}
	if r.Price != nil {
		product.Price = decimal.NewFromFloat(*r.Price)
	}
	if r.CompareAtPrice != nil {
		compare := decimal.NewFromFloat(*r.CompareAtPrice)
		product.CompareAtPrice = &compare
	}
	if r.Quantity != nil {
		product.Quantity = *r.Quantity
	}
	if r.Status != nil {
		product.Status = catalog.ProductStatus(*r.Status)
	}
	if r.IsFeatured != nil {
		product.IsFeatured = *r.IsFeatured
	}
	if r.IsVisible != nil {
		product.IsVisible = *r.IsVisible
	}
	if r.Condition != nil {
		condition := catalog.ProductCondition(*r.Condition)
		product.Condition = &condition
	}
	if r.MetaTitle != nil {
		product.MetaTitle = r.MetaTitle
	}
	if r.MetaDescription != nil {
		product.MetaDescription = r.MetaDescription
	}
	return nil
}

// CreateCategoryRequest is the payload for POST /categories.
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id"`
	SortOrder   int     `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateCategoryRequest is the payload for PATCH /categories/:id.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

// ProductQueryFromContext parses the list query string into a domain query.
func ProductQueryFromContext(c *gin.Context) (catalog.ProductQuery, error) {
	query := catalog.ProductQuery{
		Search:   c.Query("search"),
		SortBy:   c.DefaultQuery("sort_by", "created_at"),
		SortDesc: c.DefaultQuery("sort_order", "desc") == "desc",
	}

	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return query, platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "invalid category_id", err, "b5c8e1f4-90a3-4d27-8c61-e7f2d05a93b8")
		}
		query.CategoryPublicID = &id
	}
	if raw := c.Query("min_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return query, platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "invalid min_price", err, "3f91a7d0-64be-4528-b3c7-08da56e2c417")
		}
		query.MinPrice = &price
	}
	if raw := c.Query("max_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return query, platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "invalid max_price", err, "c62d80b1-7e45-49f3-a0d8-5b13c9e674af")
		}
		query.MaxPrice = &price
	}
	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return query, platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "invalid featured flag", err, "8a04f6c3-2d9b-41e7-95c2-fd70b8a135e6")
		}
		query.Featured = &featured
	}
	if raw := c.Query("status"); raw != "" {
		status := catalog.ProductStatus(raw)
		query.Status = &status
	}

	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return query, nil
}
