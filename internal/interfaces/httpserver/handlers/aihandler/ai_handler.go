// Package aihandler exposes the conversational AI endpoints.
package aihandler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/miracle078/adogent/internal/domain/agent"
	"github.com/miracle078/adogent/internal/infrastructure/media"
	"github.com/miracle078/adogent/internal/infrastructure/metrics"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/middlewares"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/requests/aireq"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/responses/aires"
	"github.com/miracle078/adogent/internal/utils/platformerrors"
)

const maxUploadBytes = 10 << 20

type AIHandler struct {
	aiService *agent.Service
	storage   *media.CloudinaryClient
	logger    zerolog.Logger
}

func NewAIHandler(aiService *agent.Service, storage *media.CloudinaryClient, logger zerolog.Logger) *AIHandler {
	return &AIHandler{
		aiService: aiService,
		storage:   storage,
		logger:    logger.With().Str("handler", "ai").Logger(),
	}
}

// Chat routes a text message to the matching agent.
func (h *AIHandler) Chat(c *gin.Context) {
	var req aireq.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, h.bindErrorResponse(&req))
		return
	}

	resp := h.aiService.Chat(c.Request.Context(), req.ToAIRequest(h.principalID(c)))
	c.JSON(http.StatusOK, resp)
}

// Recommend generates scored product recommendations.
func (h *AIHandler) Recommend(c *gin.Context) {
	var req aireq.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "invalid request body")
		return
	}

	resp := h.aiService.Recommend(c.Request.Context(), req.ToRecommendationRequest(h.principalID(c)))
	c.JSON(http.StatusOK, resp)
}

// AnalyzeImage runs multimodal analysis over a supplied image.
func (h *AIHandler) AnalyzeImage(c *gin.Context) {
	var req aireq.VisualAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "invalid request body")
		return
	}
	if req.ImageData == "" && req.ImageURL == "" {
		platformerrors.WriteValidationError(c, "either image_data or image_url is required")
		return
	}

	resp := h.aiService.AnalyzeImage(c.Request.Context(), req.ToVisualRequest(h.principalID(c)))
	c.JSON(http.StatusOK, resp)
}

// VoiceChat handles a voice-originated message with voice-friendly output.
func (h *AIHandler) VoiceChat(c *gin.Context) {
	var req aireq.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, h.bindErrorResponse(&req))
		return
	}

	resp := h.aiService.VoiceChat(c.Request.Context(), req.ToAIRequest(h.principalID(c)))
	c.JSON(http.StatusOK, resp)
}

// UploadImage stores a multipart image for later visual analysis.
func (h *AIHandler) UploadImage(c *gin.Context) {
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
			platformerrors.ErrorTypeInternal, "failed to read upload", err, "7c2f91d4-5a08-4be3-9d67-30e1f8ca52b9"), h.logger)
		return
	}

	upload, err := h.storage.UploadImage(c.Request.Context(), data, header.Filename)
	if err != nil {
		metrics.MediaUploadsTotal.WithLabelValues("error").Inc()
		h.logger.Error().Err(err).Str("filename", header.Filename).Msg("image upload failed")
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	metrics.MediaUploadsTotal.WithLabelValues("success").Inc()
	thumbnail := upload.ThumbnailURL
	c.JSON(http.StatusCreated, &aires.UploadedImageResponse{
		ID:           upload.PublicID,
		URL:          upload.URL,
		ThumbnailURL: &thumbnail,
		Format:       upload.Format,
		Width:        upload.Width,
		Height:       upload.Height,
		Size:         int(upload.Size),
	})
}

// ConversationHistory returns the stored turns of one conversation.
func (h *AIHandler) ConversationHistory(c *gin.Context) {
	conversationID := c.Param("conversation_id")
	messages := h.aiService.ConversationHistory(conversationID)
	if messages == nil {
		platformerrors.WriteNotFound(c, "conversation not found")
		return
	}

	c.JSON(http.StatusOK, aires.NewConversationHistoryResponse(conversationID, messages))
}

// ClearConversation wipes one conversation across all agents.
func (h *AIHandler) ClearConversation(c *gin.Context) {
	conversationID := c.Param("conversation_id")
	if !h.aiService.ClearConversation(conversationID) {
		platformerrors.WriteNotFound(c, "conversation not found")
		return
	}

	c.JSON(http.StatusOK, aires.NewConversationClearedResponse(conversationID))
}

// Health probes every agent backend.
func (h *AIHandler) Health(c *gin.Context) {
	summary := h.aiService.Health(c.Request.Context())

	status := http.StatusOK
	if summary.OverallStatus == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, summary)
}

// Statistics returns per-agent usage counters.
func (h *AIHandler) Statistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.aiService.Statistics(c.Request.Context()))
}

// Models lists the configured model backends.
func (h *AIHandler) Models(c *gin.Context) {
	c.JSON(http.StatusOK, &aires.ModelsResponse{Models: h.aiService.Models()})
}

// principalID resolves the optional authenticated user.
func (h *AIHandler) principalID(c *gin.Context) *uuid.UUID {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		return nil
	}
	return &principal.UserID
}

// bindErrorResponse keeps the chat contract stable even for malformed
// payloads: clients always receive the agent response envelope.
func (h *AIHandler) bindErrorResponse(req *aireq.ChatRequest) *agent.AIResponse {
	return &agent.AIResponse{
		Message:         "I apologize, but I encountered an error: message is required",
		InteractionType: agent.InteractionType(req.InteractionType).Normalize(),
		ConversationID:  h.aiService.ErrorConversationID(),
		Confidence:      0.0,
		Metadata: map[string]any{
			"error":         true,
			"error_message": "message is required",
		},
	}
}
