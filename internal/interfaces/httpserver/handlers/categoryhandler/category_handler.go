// Package categoryhandler exposes the category endpoints.
package categoryhandler

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

type CategoryHandler struct {
	catalog *catalog.Service
	logger  zerolog.Logger
}

func NewCategoryHandler(catalogService *catalog.Service, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		catalog: catalogService,
		logger:  logger.With().Str("handler", "category").Logger(),
	}
}

// Create adds a category, optionally nested under a parent.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req productreq.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "invalid request body")
		return
	}

	var parentID *uuid.UUID
	if req.ParentID != nil && *req.ParentID != "" {
		id, err := uuid.Parse(*req.ParentID)
		if err != nil {
			platformerrors.WriteValidationError(c, "invalid parent_id")
			return
		}
		parentID = &id
	}

	category := &catalog.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), category, parentID)
	if err != nil {
		metrics.CatalogWritesTotal.WithLabelValues("category", "create", "error").Inc()
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	metrics.CatalogWritesTotal.WithLabelValues("category", "create", "success").Inc()
	c.JSON(http.StatusCreated, productres.NewCategoryResponse(category))
}

// Get returns one category by public ID.
func (h *CategoryHandler) Get(c *gin.Context) {
	publicID, err := uuid.Parse(c.Param("category_id"))
	if err != nil {
		platformerrors.WriteValidationError(c, "invalid category id")
		return
	}

	category, err := h.catalog.GetCategory(c.Request.Context(), publicID)
	if err != nil {
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, productres.NewCategoryResponse(category))
}

// List returns categories, optionally including inactive ones.
func (h *CategoryHandler) List(c *gin.Context) {
	query := catalog.CategoryQuery{}
	query.IncludeInactive, _ = strconv.ParseBool(c.Query("include_inactive"))

	if raw := c.Query("parent_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			platformerrors.WriteValidationError(c, "invalid parent_id")
			return
		}
		query.ParentPublicID = &id
	}

	categories, err := h.catalog.ListCategories(c.Request.Context(), query)
	if err != nil {
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": productres.NewCategoryListResponse(categories)})
}

// Update applies the supplied fields to a category.
func (h *CategoryHandler) Update(c *gin.Context) {
	publicID, err := uuid.Parse(c.Param("category_id"))
	if err != nil {
		platformerrors.WriteValidationError(c, "invalid category id")
		return
	}

	var req productreq.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "invalid request body")
		return
	}

	category, err := h.catalog.UpdateCategory(c.Request.Context(), publicID, func(category *catalog.Category) error {
		if req.Name != nil {
			category.Name = *req.Name
		}
		if req.Description != nil {
			category.Description = req.Description
		}
		if req.SortOrder != nil {
			category.SortOrder = *req.SortOrder
		}
		if req.IsActive != nil {
			category.IsActive = *req.IsActive
		}
		return nil
	})
	if err != nil {
		metrics.CatalogWritesTotal.WithLabelValues("category", "update", "error").Inc()
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	metrics.CatalogWritesTotal.WithLabelValues("category", "update", "success").Inc()
	c.JSON(http.StatusOK, productres.NewCategoryResponse(category))
}

// Delete removes a category with no attached products.
func (h *CategoryHandler) Delete(c *gin.Context) {
	publicID, err := uuid.Parse(c.Param("category_id"))
	if err != nil {
		platformerrors.WriteValidationError(c, "invalid category id")
		return
	}

	if err := h.catalog.DeleteCategory(c.Request.Context(), publicID); err != nil {
		metrics.CatalogWritesTotal.WithLabelValues("category", "delete", "error").Inc()
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	metrics.CatalogWritesTotal.WithLabelValues("category", "delete", "success").Inc()
	c.JSON(http.StatusOK, productres.NewDeletedResponse(publicID.String()))
}
