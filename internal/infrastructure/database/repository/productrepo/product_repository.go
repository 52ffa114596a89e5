package productrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/miracle078/adogent/internal/domain/catalog"
	"github.com/miracle078/adogent/internal/infrastructure/database/dbschema"
	"github.com/miracle078/adogent/internal/utils/platformerrors"
)

// sortColumns whitelists the sortable columns to keep ORDER BY injection-safe.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"name":       "name",
	"price":      "price",
	"quantity":   "quantity",
}

type ProductGormRepository struct {
	db *gorm.DB
}

var _ catalog.ProductRepository = (*ProductGormRepository)(nil)

func NewProductGormRepository(db *gorm.DB) catalog.ProductRepository {
	return &ProductGormRepository{db: db}
}

func (repo *ProductGormRepository) Create(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	entity := dbschema.NewSchemaProduct(product)
	if err := repo.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create product",
			err,
			"4b2d8f61-a530-47c9-9e82-d16f3a7c0b54",
		)
	}
	return repo.FindByPublicID(ctx, entity.PublicID)
}

func (repo *ProductGormRepository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*catalog.Product, error) {
	var entity dbschema.Product
	err := repo.db.WithContext(ctx).
		Preload("Category").
		Preload("Images").
		Where("public_id = ?", publicID).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find product by public ID",
			err,
			"9e7a1c35-df82-4b60-a4f9-27c5e8b1d043",
		)
	}
	return entity.EtoD(), nil
}

func (repo *ProductGormRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var entity dbschema.Product
	err := repo.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find product by slug",
			err,
			"0f6b3d92-e417-4c58-8a20-b95d7e1f4c63",
		)
	}
	return entity.EtoD(), nil
}

func (repo *ProductGormRepository) Update(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	entity := dbschema.NewSchemaProduct(product)
	if err := repo.db.WithContext(ctx).
		Model(&dbschema.Product{}).
		Where("id = ?", entity.ID).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(entity).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update product",
			err,
			"7c4e9a08-b261-4f35-9d87-e0a3f6c2b519",
		)
	}
	return repo.FindByPublicID(ctx, product.PublicID)
}

func (repo *ProductGormRepository) SoftDelete(ctx context.Context, publicID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		Delete(&dbschema.Product{})
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete product",
			result.Error,
			"d85f2b67-03c9-4ae1-b4d6-91e7c0a5f382",
		)
	}
	return nil
}

func (repo *ProductGormRepository) List(ctx context.Context, query catalog.ProductQuery) ([]*catalog.Product, int64, error) {
	tx := repo.db.WithContext(ctx).Model(&dbschema.Product{})

	if term := strings.TrimSpace(query.Search); term != "" {
		pattern := "%" + term + "%"
		tx = tx.Where(
			"name ILIKE ? OR description ILIKE ? OR short_description ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if query.CategoryPublicID != nil {
		tx = tx.Where(
			"category_id IN (?)",
			repo.db.Model(&dbschema.Category{}).Select("id").Where("public_id = ?", *query.CategoryPublicID),
		)
	}
	if query.MinPrice != nil {
		tx = tx.Where("price >= ?", *query.MinPrice)
	}
	if query.MaxPrice != nil {
		tx = tx.Where("price <= ?", *query.MaxPrice)
	}
	if query.Featured != nil {
		tx = tx.Where("is_featured = ?", *query.Featured)
	}
	if query.Status != nil {
		tx = tx.Where("status = ?", *query.Status)
	}
	if !query.IncludeHidden {
		tx = tx.Where("is_visible = ?", true)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count products",
			err,
			"2a9d6e14-f7b0-4c83-a5e2-68d1b9f4c027",
		)
	}

	column, ok := sortColumns[query.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if query.SortDesc || !ok {
		direction = "DESC"
	}

	var entities []dbschema.Product
	err := tx.
		Preload("Category").
		Preload("Images").
		Order(fmt.Sprintf("%s %s", column, direction)).
		Offset((query.Page - 1) * query.PageSize).
		Limit(query.PageSize).
		Find(&entities).
		Error
	if err != nil {
		return nil, 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list products",
			err,
			"b07c3f58-21d6-4e94-8f03-a6e9d2c5b174",
		)
	}

	products := make([]*catalog.Product, 0, len(entities))
	for i := range entities {
		products = append(products, entities[i].EtoD())
	}
	return products, total, nil
}

func (repo *ProductGormRepository) Search(ctx context.Context, term string, limit int) ([]*catalog.Product, error) {
	pattern := "%" + strings.TrimSpace(term) + "%"

	var entities []dbschema.Product
	err := repo.db.WithContext(ctx).
		Preload("Category").
		Where("status = ? AND is_visible = ?", catalog.ProductStatusActive, true).
		Where(
			"name ILIKE ? OR description ILIKE ? OR short_description ILIKE ?",
			pattern, pattern, pattern,
		).
		Order("is_featured DESC, created_at DESC").
		Limit(limit).
		Find(&entities).
		Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to search products",
			err,
			"6e1f8a29-c475-4b03-9d68-f2b0e7a4c591",
		)
	}

	products := make([]*catalog.Product, 0, len(entities))
	for i := range entities {
		products = append(products, entities[i].EtoD())
	}
	return products, nil
}

func (repo *ProductGormRepository) FindCandidates(ctx context.Context, query catalog.CandidateQuery) ([]*catalog.Product, error) {
	tx := repo.db.WithContext(ctx).
		Preload("Category").
		Where("status = ? AND is_visible = ?", catalog.ProductStatusActive, true)

	if query.MinPrice != nil {
		tx = tx.Where("price >= ?", *query.MinPrice)
	}
	if query.MaxPrice != nil {
		tx = tx.Where("price <= ?", *query.MaxPrice)
	}
	if len(query.ExcludePublicIDs) > 0 {
		tx = tx.Where("public_id NOT IN ?", query.ExcludePublicIDs)
	}

	var entities []dbschema.Product
	err := tx.
		Order("created_at DESC").
		Limit(query.Limit).
		Find(&entities).
		Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find recommendation candidates",
			err,
			"f93b5c07-8ad2-4e61-b2f8-05c7d1e9a436",
		)
	}

	products := make([]*catalog.Product, 0, len(entities))
	for i := range entities {
		products = append(products, entities[i].EtoD())
	}
	return products, nil
}

func (repo *ProductGormRepository) FindMissingSummaries(ctx context.Context, limit int) ([]*catalog.Product, error) {
	var entities []dbschema.Product
	err := repo.db.WithContext(ctx).
		Preload("Category").
		Where("status = ?", catalog.ProductStatusActive).
		Where("ai_summary IS NULL OR ai_summary = ''").
		Order("created_at ASC").
		Limit(limit).
		Find(&entities).
		Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find products missing summaries",
			err,
			"a42e7d90-6b58-4f13-8c26-e1d0f5a9b783",
		)
	}

	products := make([]*catalog.Product, 0, len(entities))
	for i := range entities {
		products = append(products, entities[i].EtoD())
	}
	return products, nil
}

func (repo *ProductGormRepository) UpdateAISummary(ctx context.Context, publicID uuid.UUID, summary string) error {
	if err := repo.db.WithContext(ctx).
		Model(&dbschema.Product{}).
		Where("public_id = ?", publicID).
		Update("ai_summary", summary).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update AI summary",
			err,
			"58c1f6e3-2d09-4a78-b5e4-90f2c7d8a316",
		)
	}
	return nil
}

func (repo *ProductGormRepository) AddImage(ctx context.Context, productID uint, image *catalog.ProductImage) (*catalog.ProductImage, error) {
	image.ProductID = productID
	entity := dbschema.NewSchemaProductImage(image)
	if err := repo.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to add product image",
			err,
			"15d8b0a7-9c36-4e52-a1f0-6b3e7d9c2845",
		)
	}
	return entity.EtoD(), nil
}

func (repo *ProductGormRepository) FindImage(ctx context.Context, productID uint, imagePublicID uuid.UUID) (*catalog.ProductImage, error) {
	var entity dbschema.ProductImage
	err := repo.db.WithContext(ctx).
		Where("product_id = ? AND public_id = ?", productID, imagePublicID).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find product image",
			err,
			"c6a9e2d4-f081-4b57-93c5-28d7f0e1b694",
		)
	}
	return entity.EtoD(), nil
}

func (repo *ProductGormRepository) RemoveImage(ctx context.Context, productID uint, imagePublicID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("product_id = ? AND public_id = ?", productID, imagePublicID).
		Delete(&dbschema.ProductImage{})
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to remove product image",
			result.Error,
			"e3f72a50-1b94-4d86-a0c7-59e8d2f6b013",
		)
	}
	return nil
}
