package catalog

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/miracle078/adogent/internal/utils/idgen"
	"github.com/miracle078/adogent/internal/utils/platformerrors"
)

const (
	// agentSearchLimit caps how many products the AI agents may pull per query.
	agentSearchLimit = 10

	defaultPageSize = 20
	maxPageSize     = 100
)

// Service coordinates product and category operations.
type Service struct {
	products   ProductRepository
	categories CategoryRepository
}

// NewService constructs a Service with required dependencies.
func NewService(products ProductRepository, categories CategoryRepository) *Service {
	return &Service{
		products:   products,
		categories: categories,
	}
}

// ====================================================================================
// Products
// ====================================================================================

// CreateProduct validates and persists a new product under the given category.
func (s *Service) CreateProduct(ctx context.Context, product *Product, categoryPublicID uuid.UUID) (*Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"product name is required", nil, "7f8e6a10-52d3-4b1e-9c47-0aef2d81b365")
	}
	if product.Price.IsNegative() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"product price must not be negative", nil, "1e4a9c72-8b06-4d39-a5f1-c2d7e8043b96")
	}

	category, err := s.categories.FindByPublicID(ctx, categoryPublicID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"category not found", nil, "b3c518dd-94f7-4e02-8a6b-1f5d20c7ae48")
	}
	product.CategoryID = category.ID

	if product.Slug == "" {
		slug, err := s.uniqueProductSlug(ctx, product.Name)
		if err != nil {
			return nil, err
		}
		product.Slug = slug
	} else if existing, err := s.products.FindBySlug(ctx, product.Slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			fmt.Sprintf("product slug %q already exists", product.Slug), nil, "55f2c7b9-3d14-4a80-b6e9-8c01d4f7a2e3")
	}

	if product.PublicID == uuid.Nil {
		product.PublicID = uuid.New()
	}
	if product.Currency == "" {
		product.Currency = "USD"
	}
	if product.Status == "" {
		product.Status = ProductStatusDraft
	}
	if product.LowStockThreshold == 0 {
		product.LowStockThreshold = 5
	}

	return s.products.Create(ctx, product)
}

// GetProduct loads a product by its public identifier.
func (s *Service) GetProduct(ctx context.Context, publicID uuid.UUID) (*Product, error) {
	product, err := s.products.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"product not found", nil, "e97d0b44-6c2a-4f18-95e3-7a1b8f26c0d5")
	}
	return product, nil
}

// UpdateProduct applies the updated fields and persists the product.
func (s *Service) UpdateProduct(ctx context.Context, publicID uuid.UUID, apply func(*Product) error) (*Product, error) {
	product, err := s.GetProduct(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if err := apply(product); err != nil {
		return nil, err
	}
	if product.Price.IsNegative() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"product price must not be negative", nil, "4c6f1d28-e053-47b9-8a47-d92e5b3c80f1")
	}
	return s.products.Update(ctx, product)
}

// DeleteProduct soft deletes a product.
func (s *Service) DeleteProduct(ctx context.Context, publicID uuid.UUID) error {
	if _, err := s.GetProduct(ctx, publicID); err != nil {
		return err
	}
	return s.products.SoftDelete(ctx, publicID)
}

// ListProducts returns a filtered, paginated product page plus total count.
func (s *Service) ListProducts(ctx context.Context, query ProductQuery) ([]*Product, int64, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 {
		query.PageSize = defaultPageSize
	}
	if query.PageSize > maxPageSize {
		query.PageSize = maxPageSize
	}
	return s.products.List(ctx, query)
}

// ====================================================================================
// Agent-facing catalog access
// ====================================================================================

// SearchProducts performs a relevance search for the AI agents. The limit is
// clamped to keep prompt payloads small.
func (s *Service) SearchProducts(ctx context.Context, term string, limit int) ([]*Product, error) {
	if limit < 1 || limit > agentSearchLimit {
		limit = agentSearchLimit
	}
	return s.products.Search(ctx, term, limit)
}

// FindRecommendationCandidates fetches the candidate pool for the
// recommendation scorer.
func (s *Service) FindRecommendationCandidates(ctx context.Context, query CandidateQuery) ([]*Product, error) {
	return s.products.FindCandidates(ctx, query)
}

// ProductsMissingSummaries lists active products without an AI summary.
func (s *Service) ProductsMissingSummaries(ctx context.Context, limit int) ([]*Product, error) {
	return s.products.FindMissingSummaries(ctx, limit)
}

// SaveAISummary stores a generated summary on the product.
func (s *Service) SaveAISummary(ctx context.Context, publicID uuid.UUID, summary string) error {
	return s.products.UpdateAISummary(ctx, publicID, summary)
}

// ====================================================================================
// Product images
// ====================================================================================

// AttachImage records an uploaded media asset against the product.
func (s *Service) AttachImage(ctx context.Context, productPublicID uuid.UUID, image *ProductImage) (*ProductImage, error) {
	product, err := s.GetProduct(ctx, productPublicID)
	if err != nil {
		return nil, err
	}
	if image.PublicID == uuid.Nil {
		image.PublicID = uuid.New()
	}
	if image.StorageProvider == "" {
		image.StorageProvider = "cloudinary"
	}
	return s.products.AddImage(ctx, product.ID, image)
}

// GetImage loads an image attached to the product.
func (s *Service) GetImage(ctx context.Context, productPublicID, imagePublicID uuid.UUID) (*ProductImage, error) {
	product, err := s.GetProduct(ctx, productPublicID)
	if err != nil {
		return nil, err
	}
	image, err := s.products.FindImage(ctx, product.ID, imagePublicID)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"product image not found", nil, "8a2e5c90-1f47-4d63-b8e2-06c9d3f5a7b4")
	}
	return image, nil
}

// DetachImage removes an image record from the product.
func (s *Service) DetachImage(ctx context.Context, productPublicID, imagePublicID uuid.UUID) error {
	image, err := s.GetImage(ctx, productPublicID, imagePublicID)
	if err != nil {
		return err
	}
	return s.products.RemoveImage(ctx, image.ProductID, imagePublicID)
}

// ====================================================================================
// Categories
// ====================================================================================

// CreateCategory validates and persists a new category.
func (s *Service) CreateCategory(ctx context.Context, category *Category, parentPublicID *uuid.UUID) (*Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"category name is required", nil, "d1b7f3a6-29c8-4e05-91d4-5e8a0c62f7b3")
	}

	if parentPublicID != nil {
		parent, err := s.categories.FindByPublicID(ctx, *parentPublicID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
				"parent category not found", nil, "f4a8d2c1-6e39-4b07-a5c8-92e1f0d6b734")
		}
		category.ParentID = &parent.ID
	}

	if category.Slug == "" {
		category.Slug = slugify(category.Name)
	}
	if existing, err := s.categories.FindBySlug(ctx, category.Slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			fmt.Sprintf("category slug %q already exists", category.Slug), nil, "0c5e9b37-84d2-4f16-b09a-3d7c1e8f52a6")
	}

	if category.PublicID == uuid.Nil {
		category.PublicID = uuid.New()
	}

	return s.categories.Create(ctx, category)
}

// GetCategory loads a category by its public identifier.
func (s *Service) GetCategory(ctx context.Context, publicID uuid.UUID) (*Category, error) {
	category, err := s.categories.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"category not found", nil, "a6f03d58-2b91-4c7e-8d04-e5b2c9f17a83")
	}
	return category, nil
}

// UpdateCategory applies the updated fields and persists the category.
func (s *Service) UpdateCategory(ctx context.Context, publicID uuid.UUID, apply func(*Category) error) (*Category, error) {
	category, err := s.GetCategory(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if err := apply(category); err != nil {
		return nil, err
	}
	return s.categories.Update(ctx, category)
}

// DeleteCategory removes a category. Deletion is refused while products still
// reference it.
func (s *Service) DeleteCategory(ctx context.Context, publicID uuid.UUID) error {
	category, err := s.GetCategory(ctx, publicID)
	if err != nil {
		return err
	}

	count, err := s.categories.CountProducts(ctx, category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			fmt.Sprintf("category still has %d products", count), nil, "29d4b7e0-fc53-481a-9e26-b80a1d5c3f97")
	}

	return s.categories.Delete(ctx, publicID)
}

// ListCategories returns the categories matching the query.
func (s *Service) ListCategories(ctx context.Context, query CategoryQuery) ([]*Category, error) {
	return s.categories.List(ctx, query)
}

// ====================================================================================
// Helpers
// ====================================================================================

func (s *Service) uniqueProductSlug(ctx context.Context, name string) (string, error) {
	slug := slugify(name)
	existing, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return slug, nil
	}

	suffix, err := idgen.GenerateSecureID("s", 6)
	if err != nil {
		return "", err
	}
	// suffix looks like "s_abc123"; keep only the random part.
	return slug + "-" + suffix[2:], nil
}

// slugify lowercases the name and collapses non-alphanumeric runs to hyphens.
func slugify(name string) string {
	var sb strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				sb.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(sb.String(), "-")
}
