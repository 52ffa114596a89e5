// Package aireq defines the request payloads for the AI endpoints.
package aireq

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/miracle078/adogent/internal/domain/agent"
)

// ChatRequest is the payload for POST /ai/chat and POST /ai/voice-chat.
type ChatRequest struct {
	Message         string         `json:"message" binding:"required"`
	InteractionType string         `json:"interaction_type"`
	ConversationID  string         `json:"conversation_id"`
	Context         map[string]any `json:"context"`
}

// ToAIRequest converts the payload into the domain request shape.
func (r *ChatRequest) ToAIRequest(userID *uuid.UUID) *agent.AIRequest {
	return &agent.AIRequest{
		Message:         r.Message,
		InteractionType: agent.InteractionType(r.InteractionType).Normalize(),
		UserID:          userID,
		ConversationID:  r.ConversationID,
		Context:         r.Context,
	}
}

// PriceRange bounds recommendation candidates.
type PriceRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// RecommendationRequest is the payload for POST /ai/recommendations.
type RecommendationRequest struct {
	ChatRequest
	CategoryPreferences []string    `json:"category_preferences"`
	PriceRange          *PriceRange `json:"price_range"`
	BrandPreferences    []string    `json:"brand_preferences"`
	ExcludeProducts     []uuid.UUID `json:"exclude_products"`
}

// ToRecommendationRequest converts the payload into the domain shape.
func (r *RecommendationRequest) ToRecommendationRequest(userID *uuid.UUID) *agent.RecommendationRequest {
	req := &agent.RecommendationRequest{
		AIRequest:           *r.ChatRequest.ToAIRequest(userID),
		CategoryPreferences: r.CategoryPreferences,
		BrandPreferences:    r.BrandPreferences,
		ExcludeProducts:     r.ExcludeProducts,
	}
	req.InteractionType = agent.InteractionProductRecommendation
	if r.PriceRange != nil {
		pr := &agent.PriceRange{}
		if r.PriceRange.Min != nil {
			min := decimal.NewFromFloat(*r.PriceRange.Min)
			pr.Min = &min
		}
		if r.PriceRange.Max != nil {
			max := decimal.NewFromFloat(*r.PriceRange.Max)
			pr.Max = &max
		}
		req.PriceRange = pr
	}
	return req
}

// VisualAnalysisRequest is the payload for POST /ai/analyze-image.
// ImageData carries the raw base64 image without a data-URL prefix.
type VisualAnalysisRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id"`
	ImageURL       string `json:"image_url"`
	ImageData      string `json:"image_data"`
	AnalysisType   string `json:"analysis_type"`
}

// ToVisualRequest converts the payload into the domain shape.
func (r *VisualAnalysisRequest) ToVisualRequest(userID *uuid.UUID) *agent.VisualRequest {
	analysisType := r.AnalysisType
	if analysisType == "" {
		analysisType = "product_matching"
	}
	return &agent.VisualRequest{
		AIRequest: agent.AIRequest{
			Message:         r.Message,
			InteractionType: agent.InteractionVisualAnalysis,
			UserID:          userID,
			ConversationID:  r.ConversationID,
		},
		ImageURL:     r.ImageURL,
		ImageData:    r.ImageData,
		AnalysisType: analysisType,
	}
}
