package categoryrepo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/miracle078/adogent/internal/domain/catalog"
	"github.com/miracle078/adogent/internal/infrastructure/database/dbschema"
	"github.com/miracle078/adogent/internal/utils/platformerrors"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

var _ catalog.CategoryRepository = (*CategoryGormRepository)(nil)

func NewCategoryGormRepository(db *gorm.DB) catalog.CategoryRepository {
	return &CategoryGormRepository{db: db}
}

func (repo *CategoryGormRepository) Create(ctx context.Context, category *catalog.Category) (*catalog.Category, error) {
	entity := dbschema.NewSchemaCategory(category)
	if err := repo.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create category",
			err,
			"8d3f6b20-a159-4c47-b8e3-07d2f5c9a681",
		)
	}
	return repo.FindByPublicID(ctx, entity.PublicID)
}

func (repo *CategoryGormRepository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*catalog.Category, error) {
	var entity dbschema.Category
	err := repo.db.WithContext(ctx).
		Preload("Parent").
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
			"failed to find category by public ID",
			err,
			"41e8c5d7-92f0-4a63-8b15-d6c3e0f7a298",
		)
	}
	return entity.EtoD(), nil
}

func (repo *CategoryGormRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	var entity dbschema.Category
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
			"failed to find category by slug",
			err,
			"7f0a2e95-c348-4d16-9e72-b58c1d6f0a43",
		)
	}
	return entity.EtoD(), nil
}

func (repo *CategoryGormRepository) Update(ctx context.Context, category *catalog.Category) (*catalog.Category, error) {
	entity := dbschema.NewSchemaCategory(category)
	if err := repo.db.WithContext(ctx).
		Model(&dbschema.Category{}).
		Where("id = ?", entity.ID).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(entity).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update category",
			err,
			"d92b4f07-65a3-4c81-b0d9-1e8f6c2a5734",
		)
	}
	return repo.FindByPublicID(ctx, category.PublicID)
}

func (repo *CategoryGormRepository) Delete(ctx context.Context, publicID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		Delete(&dbschema.Category{})
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete category",
			result.Error,
			"30c7d1e8-f526-4b94-a3e0-82d5f9c6b147",
		)
	}
	return nil
}

func (repo *CategoryGormRepository) List(ctx context.Context, query catalog.CategoryQuery) ([]*catalog.Category, error) {
	tx := repo.db.WithContext(ctx).Model(&dbschema.Category{})

	if !query.IncludeInactive {
		tx = tx.Where("is_active = ?", true)
	}
	if query.ParentPublicID != nil {
		tx = tx.Where(
			"parent_id IN (?)",
			repo.db.Model(&dbschema.Category{}).Select("id").Where("public_id = ?", *query.ParentPublicID),
		)
	}

	var entities []dbschema.Category
	err := tx.
		Order("sort_order ASC, name ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list categories",
			err,
			"b65e0a13-274c-4f98-8d36-f0c9e1d2a875",
		)
	}

	categories := make([]*catalog.Category, 0, len(entities))
	for i := range entities {
		categories = append(categories, entities[i].EtoD())
	}
	return categories, nil
}

func (repo *CategoryGormRepository) CountProducts(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&dbschema.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).
		Error
	if err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count category products",
			err,
			"5a81f3c6-d047-4e29-92b8-c6e0d5f1a327",
		)
	}
	return count, nil
}
