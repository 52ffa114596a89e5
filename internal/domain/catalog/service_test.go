package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/miracle078/adogent/internal/utils/platformerrors"
)

type fakeProductRepo struct {
	bySlug     map[string]*Product
	byPublicID map[uuid.UUID]*Product
	created    *Product
	updated    *Product
	deleted    []uuid.UUID
	searchTerm string
	lastLimit  int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		bySlug:     map[string]*Product{},
		byPublicID: map[uuid.UUID]*Product{},
	}
}

func (r *fakeProductRepo) Create(_ context.Context, product *Product) (*Product, error) {
	r.created = product
	return product, nil
}

func (r *fakeProductRepo) FindByPublicID(_ context.Context, publicID uuid.UUID) (*Product, error) {
	return r.byPublicID[publicID], nil
}

func (r *fakeProductRepo) FindBySlug(_ context.Context, slug string) (*Product, error) {
	return r.bySlug[slug], nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *Product) (*Product, error) {
	r.updated = product
	return product, nil
}

func (r *fakeProductRepo) SoftDelete(_ context.Context, publicID uuid.UUID) error {
	r.deleted = append(r.deleted, publicID)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, query ProductQuery) ([]*Product, int64, error) {
	r.lastLimit = query.PageSize
	return nil, 0, nil
}

func (r *fakeProductRepo) Search(_ context.Context, term string, limit int) ([]*Product, error) {
	r.searchTerm = term
	r.lastLimit = limit
	return nil, nil
}

func (r *fakeProductRepo) FindCandidates(_ context.Context, _ CandidateQuery) ([]*Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) FindMissingSummaries(_ context.Context, _ int) ([]*Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) UpdateAISummary(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}

func (r *fakeProductRepo) AddImage(_ context.Context, _ uint, image *ProductImage) (*ProductImage, error) {
	return image, nil
}

func (r *fakeProductRepo) FindImage(_ context.Context, _ uint, _ uuid.UUID) (*ProductImage, error) {
	return nil, nil
}

func (r *fakeProductRepo) RemoveImage(_ context.Context, _ uint, _ uuid.UUID) error {
	return nil
}

type fakeCategoryRepo struct {
	bySlug       map[string]*Category
	byPublicID   map[uuid.UUID]*Category
	created      *Category
	deleted      []uuid.UUID
	productCount int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		bySlug:     map[string]*Category{},
		byPublicID: map[uuid.UUID]*Category{},
	}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *Category) (*Category, error) {
	r.created = category
	return category, nil
}

func (r *fakeCategoryRepo) FindByPublicID(_ context.Context, publicID uuid.UUID) (*Category, error) {
	return r.byPublicID[publicID], nil
}

func (r *fakeCategoryRepo) FindBySlug(_ context.Context, slug string) (*Category, error) {
	return r.bySlug[slug], nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *Category) (*Category, error) {
	return category, nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, publicID uuid.UUID) error {
	r.deleted = append(r.deleted, publicID)
	return nil
}

func (r *fakeCategoryRepo) List(_ context.Context, _ CategoryQuery) ([]*Category, error) {
	return nil, nil
}

func (r *fakeCategoryRepo) CountProducts(_ context.Context, _ uint) (int64, error) {
	return r.productCount, nil
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Silk Evening Scarf", "silk-evening-scarf"},
		{"  Hermès Birkin 25  ", "hermès-birkin-25"},
		{"Ready--to--Wear!!", "ready-to-wear"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := slugify(tc.in); got != tc.want {
			t.Errorf("slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCreateProductAssignsDefaults(t *testing.T) {
	products := newFakeProductRepo()
	categories := newFakeCategoryRepo()

	categoryID := uuid.New()
	categories.byPublicID[categoryID] = &Category{ID: 7, PublicID: categoryID, Name: "Watches"}

	svc := NewService(products, categories)
	created, err := svc.CreateProduct(context.Background(), &Product{
		Name:  "Gold Chronograph",
		Price: decimal.NewFromInt(12500),
	}, categoryID)
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	if created.Slug != "gold-chronograph" {
		t.Errorf("slug = %q, want gold-chronograph", created.Slug)
	}
	if created.CategoryID != 7 {
		t.Errorf("category id = %d, want 7", created.CategoryID)
	}
	if created.Currency != "USD" {
		t.Errorf("currency = %q, want USD", created.Currency)
	}
	if created.Status != ProductStatusDraft {
		t.Errorf("status = %q, want draft", created.Status)
	}
	if created.PublicID == uuid.Nil {
		t.Error("expected a public id to be assigned")
	}
}

func TestCreateProductSlugCollisionGetsSuffix(t *testing.T) {
	products := newFakeProductRepo()
	categories := newFakeCategoryRepo()

	categoryID := uuid.New()
	categories.byPublicID[categoryID] = &Category{ID: 1, PublicID: categoryID}
	products.bySlug["gold-chronograph"] = &Product{Name: "Gold Chronograph"}

	svc := NewService(products, categories)
	created, err := svc.CreateProduct(context.Background(), &Product{
		Name:  "Gold Chronograph",
		Price: decimal.NewFromInt(100),
	}, categoryID)
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	if !strings.HasPrefix(created.Slug, "gold-chronograph-") {
		t.Errorf("slug = %q, want gold-chronograph- prefix", created.Slug)
	}
	if created.Slug == "gold-chronograph" {
		t.Error("expected a uniquifying suffix")
	}
}

func TestCreateProductRejectsMissingCategory(t *testing.T) {
	svc := NewService(newFakeProductRepo(), newFakeCategoryRepo())

	_, err := svc.CreateProduct(context.Background(), &Product{
		Name:  "Orphan",
		Price: decimal.NewFromInt(10),
	}, uuid.New())
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("error type = %v, want not found", err)
	}
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	svc := NewService(newFakeProductRepo(), newFakeCategoryRepo())

	_, err := svc.CreateProduct(context.Background(), &Product{
		Name:  "Bad",
		Price: decimal.NewFromInt(-1),
	}, uuid.New())
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("error type = %v, want validation", err)
	}
}

func TestSearchProductsClampsLimit(t *testing.T) {
	products := newFakeProductRepo()
	svc := NewService(products, newFakeCategoryRepo())

	if _, err := svc.SearchProducts(context.Background(), "scarf", 500); err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if products.lastLimit != agentSearchLimit {
		t.Errorf("limit = %d, want %d", products.lastLimit, agentSearchLimit)
	}

	if _, err := svc.SearchProducts(context.Background(), "scarf", 0); err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if products.lastLimit != agentSearchLimit {
		t.Errorf("limit = %d, want %d", products.lastLimit, agentSearchLimit)
	}
}

func TestListProductsPageSizeBounds(t *testing.T) {
	products := newFakeProductRepo()
	svc := NewService(products, newFakeCategoryRepo())

	if _, _, err := svc.ListProducts(context.Background(), ProductQuery{PageSize: 1000}); err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if products.lastLimit != maxPageSize {
		t.Errorf("page size = %d, want %d", products.lastLimit, maxPageSize)
	}

	if _, _, err := svc.ListProducts(context.Background(), ProductQuery{}); err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if products.lastLimit != defaultPageSize {
		t.Errorf("page size = %d, want %d", products.lastLimit, defaultPageSize)
	}
}

func TestDeleteCategoryBlockedWhileProductsRemain(t *testing.T) {
	categories := newFakeCategoryRepo()
	categoryID := uuid.New()
	categories.byPublicID[categoryID] = &Category{ID: 3, PublicID: categoryID}
	categories.productCount = 4

	svc := NewService(newFakeProductRepo(), categories)
	err := svc.DeleteCategory(context.Background(), categoryID)
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict) {
		t.Errorf("error type = %v, want conflict", err)
	}
	if len(categories.deleted) != 0 {
		t.Error("category must not be deleted while products remain")
	}
}

func TestDeleteCategorySucceedsWhenEmpty(t *testing.T) {
	categories := newFakeCategoryRepo()
	categoryID := uuid.New()
	categories.byPublicID[categoryID] = &Category{ID: 3, PublicID: categoryID}

	svc := NewService(newFakeProductRepo(), categories)
	if err := svc.DeleteCategory(context.Background(), categoryID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if len(categories.deleted) != 1 {
		t.Fatalf("deleted %d categories, want 1", len(categories.deleted))
	}
}

func TestCreateCategorySlugConflict(t *testing.T) {
	categories := newFakeCategoryRepo()
	categories.bySlug["watches"] = &Category{Name: "Watches"}

	svc := NewService(newFakeProductRepo(), categories)
	_, err := svc.CreateCategory(context.Background(), &Category{Name: "Watches"}, nil)
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict) {
		t.Errorf("error type = %v, want conflict", err)
	}
}
