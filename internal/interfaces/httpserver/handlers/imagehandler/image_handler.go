// Package imagehandler manages product image uploads.
package imagehandler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/miracle078/adogent/internal/domain/catalog"
	"github.com/miracle078/adogent/internal/infrastructure/media"
	"github.com/miracle078/adogent/internal/infrastructure/metrics"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/responses/productres"
	"github.com/miracle078/adogent/internal/utils/platformerrors"
)

const maxUploadBytes = 10 << 20

type ImageHandler struct {
	catalog *catalog.Service
	storage *media.CloudinaryClient
	logger  zerolog.Logger
}

func NewImageHandler(catalogService *catalog.Service, storage *media.CloudinaryClient, logger zerolog.Logger) *ImageHandler {
	return &ImageHandler{
		catalog: catalogService,
		storage: storage,
		logger:  logger.With().Str("handler", "image").Logger(),
	}
}

// Upload stores a multipart image and attaches it to the product.
func (h *ImageHandler) Upload(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		platformerrors.WriteValidationError(c, "invalid product id")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		metrics.MediaUploadsTotal.WithLabelValues("error").Inc()
		platformerrors.WriteValidationError(c, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		metrics.MediaUploadsTotal.WithLabelValues("error").Inc()
		platformerrors.WriteError(c, platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler,
			platformerrors.ErrorTypeInternal, "failed to read upload", err, "e49c3a17-82d6-4f50-b1e9-67a0d52c84fb"), h.logger)
		return
	}

	upload, err := h.storage.UploadImage(c.Request.Context(), data, header.Filename)
	if err != nil {
		metrics.MediaUploadsTotal.WithLabelValues("error").Inc()
		h.logger.Error().Err(err).Str("filename", header.Filename).Msg("image upload failed")
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	size := int(upload.Size)
	contentType := header.Header.Get("Content-Type")
	isPrimary, _ := strconv.ParseBool(c.PostForm("is_primary"))
	image := &catalog.ProductImage{
		URL:             upload.URL,
		ThumbnailURL:    &upload.ThumbnailURL,
		StoragePath:     &upload.PublicID,
		StorageProvider: "cloudinary",
		FileSize:        &size,
		IsPrimary:       isPrimary,
	}
	if contentType != "" {
		image.ContentType = &contentType
	}
	if alt := c.PostForm("alt_text"); alt != "" {
		image.AltText = &alt
	}

	image, err = h.catalog.AttachImage(c.Request.Context(), productID, image)
	if err != nil {
		metrics.MediaUploadsTotal.WithLabelValues("error").Inc()
		// best effort: do not leave an orphaned asset behind
		if deleteErr := h.storage.DeleteImage(c.Request.Context(), upload.PublicID); deleteErr != nil {
			h.logger.Warn().Err(deleteErr).Str("public_id", upload.PublicID).Msg("failed to clean up orphaned upload")
		}
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	metrics.MediaUploadsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusCreated, productres.NewProductImageResponse(image))
}

// Delete detaches an image from its product and removes the stored asset.
func (h *ImageHandler) Delete(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		platformerrors.WriteValidationError(c, "invalid product id")
		return
	}
	imageID, err := uuid.Parse(c.Param("image_id"))
	if err != nil {
		platformerrors.WriteValidationError(c, "invalid image id")
		return
	}

	image, err := h.catalog.GetImage(c.Request.Context(), productID, imageID)
	if err != nil {
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	if err := h.catalog.DetachImage(c.Request.Context(), productID, imageID); err != nil {
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	if image.StorageProvider == "cloudinary" && image.StoragePath != nil {
		if err := h.storage.DeleteImage(c.Request.Context(), *image.StoragePath); err != nil {
			h.logger.Warn().Err(err).Str("public_id", *image.StoragePath).Msg("failed to delete stored asset")
		}
	}

	c.JSON(http.StatusOK, productres.NewDeletedResponse(imageID.String()))
}
