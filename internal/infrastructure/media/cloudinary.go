// Package media stores product images on Cloudinary through its signed
// upload API.
package media

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	"github.com/miracle078/adogent/internal/config"
	"github.com/miracle078/adogent/internal/utils/httpclients"
	"github.com/miracle078/adogent/internal/utils/platformerrors"
)

const (
	maxFileSize = 10 * 1024 * 1024 // 10MB
	apiBaseURL  = "https://api.cloudinary.com/v1_1"
	cdnBaseURL  = "https://res.cloudinary.com"
)

var allowedFormats = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Upload is the stored image descriptor returned after an upload.
type Upload struct {
	PublicID     string `json:"public_id"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Format       string `json:"format"`
	Size         int64  `json:"size"`
}

type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	Bytes     int64  `json:"bytes"`
}

type destroyResponse struct {
	Result string `json:"result"`
}

// CloudinaryClient uploads and deletes images against one Cloudinary cloud.
type CloudinaryClient struct {
	client    *resty.Client
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
	log       zerolog.Logger
	now       func() time.Time
}

// NewCloudinaryClient returns nil when credentials are absent, which
// disables image uploads without failing startup.
func NewCloudinaryClient(cfg *config.Config, log zerolog.Logger) *CloudinaryClient {
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		log.Warn().Msg("Cloudinary credentials not configured, image uploads disabled")
		return nil
	}
	return &CloudinaryClient{
		client:    httpclients.NewClient("cloudinary"),
		cloudName: cfg.CloudinaryCloudName,
		apiKey:    cfg.CloudinaryAPIKey,
		apiSecret: cfg.CloudinaryAPISecret,
		folder:    cfg.CloudinaryFolder,
		log:       log.With().Str("component", "cloudinary").Logger(),
		now:       time.Now,
	}
}

// UploadImage pushes image bytes to Cloudinary under a fresh public id and
// returns the stored descriptor.
func (c *CloudinaryClient) UploadImage(ctx context.Context, data []byte, filename string) (*Upload, error) {
	if c == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal,
			"media storage is not configured", nil, "9f3b7c1e-0d52-4e8a-b6a4-2c85f1d90e37")
	}
	mime, err := validateFile(ctx, data, filename)
	if err != nil {
		return nil, err
	}

	publicID := fmt.Sprintf("%s/%s", c.folder, uuid.NewString())
	timestamp := fmt.Sprintf("%d", c.now().UTC().Unix())
	params := map[string]string{
		"public_id":  publicID,
		"timestamp":  timestamp,
		"overwrite":  "true",
		"invalidate": "true",
	}

	var result uploadResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"file":       fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)),
			"api_key":    c.apiKey,
			"public_id":  publicID,
			"timestamp":  timestamp,
			"overwrite":  "true",
			"invalidate": "true",
			"signature":  c.sign(params),
		}).
		SetResult(&result).
		Post(fmt.Sprintf("%s/%s/image/upload", apiBaseURL, c.cloudName))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "image upload request failed")
	}
	if resp.IsError() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("image upload rejected with status %d", resp.StatusCode()), nil, "4e2a9d61-7c0f-45b3-8e92-d15a6fb03c78")
	}

	return &Upload{
		PublicID:     result.PublicID,
		URL:          result.SecureURL,
		ThumbnailURL: c.ThumbnailURL(result.PublicID),
		Width:        result.Width,
		Height:       result.Height,
		Format:       result.Format,
		Size:         result.Bytes,
	}, nil
}

// DeleteImage destroys a stored image. A missing image is not an error.
func (c *CloudinaryClient) DeleteImage(ctx context.Context, publicID string) error {
	if c == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal,
			"media storage is not configured", nil, "1d67e8f2-3b94-4c05-a7d1-8e20c56b9a43")
	}

	timestamp := fmt.Sprintf("%d", c.now().UTC().Unix())
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}

	var result destroyResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"public_id": publicID,
			"timestamp": timestamp,
			"api_key":   c.apiKey,
			"signature": c.sign(params),
		}).
		SetResult(&result).
		Post(fmt.Sprintf("%s/%s/image/destroy", apiBaseURL, c.cloudName))
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "image delete request failed")
	}
	if resp.IsError() {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("image delete rejected with status %d", resp.StatusCode()), nil, "7b90f4a3-62de-48c1-9fe5-30a812d7c6b9")
	}
	if result.Result != "ok" && result.Result != "not found" {
		c.log.Warn().Str("public_id", publicID).Str("result", result.Result).Msg("unexpected destroy result")
	}
	return nil
}

// ThumbnailURL builds a 300x300 auto-quality delivery URL.
func (c *CloudinaryClient) ThumbnailURL(publicID string) string {
	return fmt.Sprintf("%s/%s/image/upload/w_300,h_300,c_fill,q_auto,f_auto/%s", cdnBaseURL, c.cloudName, publicID)
}

// OptimizedURL builds a delivery URL with optional explicit dimensions.
func (c *CloudinaryClient) OptimizedURL(publicID string, width, height int) string {
	transforms := []string{"q_auto", "f_auto", "c_fill"}
	if width > 0 {
		transforms = append(transforms, fmt.Sprintf("w_%d", width))
	}
	if height > 0 {
		transforms = append(transforms, fmt.Sprintf("h_%d", height))
	}
	return fmt.Sprintf("%s/%s/image/upload/%s/%s", cdnBaseURL, c.cloudName, strings.Join(transforms, ","), publicID)
}

// sign computes the Cloudinary API signature: the sorted key=value pairs
// joined with '&', concatenated with the secret, hashed with SHA-1.
func (c *CloudinaryClient) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, params[k]))
	}
	payload := strings.Join(pairs, "&") + c.apiSecret

	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func validateFile(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation,
			"image file is empty", nil, "e58c3f90-1a27-4db6-b043-96fe7d2c51a8")
	}
	if len(data) > maxFileSize {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("image exceeds maximum size of %d bytes", maxFileSize), nil, "0c74b2e5-98d1-4f36-a6c0-e3f18d59b724")
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	mime, ok := allowedFormats[ext]
	if !ok {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unsupported image format %q", ext), nil, "6a1f0d83-45b9-4c72-9ed6-b08c37e2f1d5")
	}
	return mime, nil
}

// StatusForError maps a media error to an HTTP status.
func StatusForError(err error) int {
	if platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
