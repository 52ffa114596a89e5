package productreq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miracle078/adogent/internal/domain/catalog"
)

func TestCreateProductRequestValidate(t *testing.T) {
	req := CreateProductRequest{
		Name:       "Cashmere Coat",
		CategoryID: "5b7e1c30-94da-4f68-8a17-c2e05d3b6f91",
		Price:      1890,
		Status:     "ACTIVE",
		Condition:  "LIKE_NEW",
	}
	require.NoError(t, req.Validate())

	req.Status = "SOLD_OUT"
	assert.Error(t, req.Validate(), "unknown status must be rejected")

	req.Status = ""
	req.Condition = "WORN"
	assert.Error(t, req.Validate(), "unknown condition must be rejected")
}

func TestCreateProductRequestToProduct(t *testing.T) {
	visible := false
	compare := 2400.0
	req := CreateProductRequest{
		Name:           "Cashmere Coat",
		Price:          1890,
		CompareAtPrice: &compare,
		Currency:       "EUR",
		Status:         "ACTIVE",
		Condition:      "LIKE_NEW",
		IsVisible:      &visible,
	}

	product := req.ToProduct()

	assert.Equal(t, "Cashmere Coat", product.Name)
	assert.Equal(t, "1890", product.Price.String())
	require.NotNil(t, product.CompareAtPrice)
	assert.Equal(t, "2400", product.CompareAtPrice.String())
	require.NotNil(t, product.Condition)
	assert.Equal(t, catalog.ConditionLikeNew, *product.Condition)
	assert.True(t, product.IsSecondHand, "non-new condition marks the product second hand")
	assert.False(t, product.IsVisible)
}

func TestToProductNewConditionIsFirstHand(t *testing.T) {
	req := CreateProductRequest{Name: "Fresh Drop", Price: 100, Condition: "NEW"}

	product := req.ToProduct()

	require.NotNil(t, product.Condition)
	assert.False(t, product.IsSecondHand)
	assert.True(t, product.IsVisible, "visibility defaults to true")
}

func TestUpdateProductRequestApplyOnlyTouchesSetFields(t *testing.T) {
	base := CreateProductRequest{Name: "Original", Price: 500, Status: "DRAFT"}
	existing := base.ToProduct()

	name := "Renamed"
	price := 750.0
	req := UpdateProductRequest{Name: &name, Price: &price}
	require.NoError(t, req.Apply(existing))

	assert.Equal(t, "Renamed", existing.Name)
	assert.Equal(t, "750", existing.Price.String())
	assert.Equal(t, catalog.ProductStatusDraft, existing.Status, "status must be untouched")
}
