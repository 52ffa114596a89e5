// Package producthandler exposes the product catalog endpoints.
package producthandler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/miracle078/adogent/internal/domain/catalog"
	"github.com/miracle078/adogent/internal/infrastructure/metrics"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/requests/productreq"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/responses/productres"
	"github.com/miracle078/adogent/internal/utils/platformerrors"
)

const maxSearchLimit = 50

type ProductHandler struct {
	catalog *catalog.Service
	logger  zerolog.Logger
}

func NewProductHandler(catalogService *catalog.Service, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalogService,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// Create adds a product under the supplied category.
func (h *ProductHandler) Create(c *gin.Context) {
	var req productreq.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		platformerrors.WriteValidationError(c, "invalid status or condition value")
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		platformerrors.WriteValidationError(c, "invalid category_id")
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), req.ToProduct(), categoryID)
	if err != nil {
		metrics.CatalogWritesTotal.WithLabelValues("product", "create", "error").Inc()
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	metrics.CatalogWritesTotal.WithLabelValues("product", "create", "success").Inc()
	c.JSON(http.StatusCreated, productres.NewProductResponse(product))
}

// Get returns one product by public ID.
func (h *ProductHandler) Get(c *gin.Context) {
	publicID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		platformerrors.WriteValidationError(c, "invalid product id")
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), publicID)
	if err != nil {
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, productres.NewProductResponse(product))
}

// List returns a filtered, paginated product page.
func (h *ProductHandler) List(c *gin.Context) {
	query, err := productreq.ProductQueryFromContext(c)
	if err != nil {
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	products, total, err := h.catalog.ListProducts(c.Request.Context(), query)
	if err != nil {
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, productres.NewProductListResponse(products, total, query.Page, query.PageSize))
}

// Search performs a term search over visible active products.
func (h *ProductHandler) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		platformerrors.WriteValidationError(c, "query parameter q is required")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > maxSearchLimit {
		limit = 10
	}

	products, err := h.catalog.SearchProducts(c.Request.Context(), term, limit)
	if err != nil {
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, productres.NewProductListResponse(products, int64(len(products)), 1, limit))
}

// Update applies the supplied fields to a product.
func (h *ProductHandler) Update(c *gin.Context) {
	publicID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		platformerrors.WriteValidationError(c, "invalid product id")
		return
	}

	var req productreq.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		platformerrors.WriteValidationError(c, "invalid status or condition value")
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), publicID, req.Apply)
	if err != nil {
		metrics.CatalogWritesTotal.WithLabelValues("product", "update", "error").Inc()
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	metrics.CatalogWritesTotal.WithLabelValues("product", "update", "success").Inc()
	c.JSON(http.StatusOK, productres.NewProductResponse(product))
}

// Delete removes a product.
func (h *ProductHandler) Delete(c *gin.Context) {
	publicID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		platformerrors.WriteValidationError(c, "invalid product id")
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), publicID); err != nil {
		metrics.CatalogWritesTotal.WithLabelValues("product", "delete", "error").Inc()
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	metrics.CatalogWritesTotal.WithLabelValues("product", "delete", "success").Inc()
	c.JSON(http.StatusOK, productres.NewDeletedResponse(publicID.String()))
}
