// Package agent implements the conversational AI layer: model-backed chat
// agents, catalog-aware routing, heuristic product recommendations, and the
// coordinator that fans requests out to the right agent.
package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/miracle078/adogent/internal/utils/idgen"
)

// InteractionType classifies an AI request and selects both the responding
// agent and the persona prompt it answers with.
type InteractionType string

const (
	InteractionGeneralChat           InteractionType = "general_chat"
	InteractionProductSearch         InteractionType = "product_search"
	InteractionProductDetails        InteractionType = "product_details"
	InteractionProductInquiry        InteractionType = "product_inquiry"
	InteractionProductRecommendation InteractionType = "product_recommendation"
	InteractionCustomerSupport       InteractionType = "customer_support"
	InteractionVoiceChat             InteractionType = "voice_chat"
	InteractionMultimodal            InteractionType = "multimodal"
	InteractionVisualAnalysis        InteractionType = "visual_analysis"
)

var knownInteractionTypes = map[InteractionType]struct{}{
	InteractionGeneralChat:           {},
	InteractionProductSearch:         {},
	InteractionProductDetails:        {},
	InteractionProductInquiry:        {},
	InteractionProductRecommendation: {},
	InteractionCustomerSupport:       {},
	InteractionVoiceChat:             {},
	InteractionMultimodal:            {},
	InteractionVisualAnalysis:        {},
}

// Normalize maps unknown or empty interaction types to general_chat so a
// malformed client value never breaks routing.
func (t InteractionType) Normalize() InteractionType {
	if _, ok := knownInteractionTypes[t]; ok {
		return t
	}
	return InteractionGeneralChat
}

// Message is a single conversation turn kept in history.
type Message struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// AIRequest is the normalized inbound request every agent consumes.
type AIRequest struct {
	Message         string
	InteractionType InteractionType
	UserID          *uuid.UUID
	ConversationID  string
	Context         map[string]any
}

// AIResponse is the common response envelope shared by all agents.
type AIResponse struct {
	Message         string          `json:"message"`
	InteractionType InteractionType `json:"interaction_type"`
	ConversationID  string          `json:"conversation_id"`
	Confidence      float64         `json:"confidence"`
	ProcessingTime  float64         `json:"processing_time"`
	ModelUsed       string          `json:"model_used,omitempty"`
	TokensUsed      int             `json:"tokens_used,omitempty"`
	Metadata        map[string]any  `json:"metadata,omitempty"`
}

// PriceRange bounds candidate prices for recommendations.
type PriceRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// RecommendationRequest extends AIRequest with user preference filters.
type RecommendationRequest struct {
	AIRequest
	CategoryPreferences []string
	PriceRange          *PriceRange
	BrandPreferences    []string
	ExcludeProducts     []uuid.UUID
}

// ProductRecommendation is one scored candidate in a recommendation response.
type ProductRecommendation struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	Confidence  float64   `json:"confidence"`
	Reason      string    `json:"reason"`
	Category    string    `json:"category,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
}

// RecommendationResponse carries the scored recommendations alongside the
// usual response envelope.
type RecommendationResponse struct {
	AIResponse
	Recommendations         []ProductRecommendation `json:"recommendations"`
	TotalProductsConsidered int                     `json:"total_products_considered"`
	RecommendationStrategy  string                  `json:"recommendation_strategy"`
}

// VisualRequest carries an image for multimodal analysis. ImageData is the
// raw base64 payload without a data-URL prefix.
type VisualRequest struct {
	AIRequest
	ImageURL     string
	ImageData    string
	AnalysisType string
}

// VisualResponse adds the structured analysis results to the envelope.
type VisualResponse struct {
	AIResponse
	AnalysisResults map[string]any `json:"analysis_results"`
}

// HealthStatus reports one agent's upstream health probe.
type HealthStatus struct {
	Status          string         `json:"status"`
	Model           string         `json:"model,omitempty"`
	ResponseTime    float64        `json:"response_time,omitempty"`
	ResponsePreview string         `json:"response_preview,omitempty"`
	Error           string         `json:"error,omitempty"`
	Features        map[string]any `json:"features,omitempty"`
	LastCheck       time.Time      `json:"last_check"`
}

// Agent is the contract every conversational agent satisfies.
type Agent interface {
	Name() string
	Process(ctx context.Context, req *AIRequest) *AIResponse
	Health(ctx context.Context) *HealthStatus
	Stats() Stats
	ClearConversation(conversationID string) bool
}

// Stats is a point-in-time snapshot of an agent's request counters.
type Stats struct {
	AgentName           string  `json:"agent_name"`
	RequestCount        int64   `json:"request_count"`
	ErrorCount          int64   `json:"error_count"`
	ErrorRate           float64 `json:"error_rate"`
	TotalTokensUsed     int64   `json:"total_tokens_used"`
	TotalProcessingTime float64 `json:"total_processing_time"`
	AverageResponseTime float64 `json:"average_response_time"`
	ActiveConversations int     `json:"active_conversations"`
}

// statsTracker accumulates request outcomes for an agent.
type statsTracker struct {
	mu             sync.Mutex
	requestCount   int64
	errorCount     int64
	tokensUsed     int64
	processingTime float64
}

func (s *statsTracker) record(failed bool, tokens int, elapsed float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestCount++
	if failed {
		s.errorCount++
	}
	s.tokensUsed += int64(tokens)
	s.processingTime += elapsed
}

func (s *statsTracker) snapshot(name string, activeConversations int) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{
		AgentName:           name,
		RequestCount:        s.requestCount,
		ErrorCount:          s.errorCount,
		TotalTokensUsed:     s.tokensUsed,
		TotalProcessingTime: s.processingTime,
		ActiveConversations: activeConversations,
	}
	if s.requestCount > 0 {
		st.ErrorRate = float64(s.errorCount) / float64(s.requestCount)
		st.AverageResponseTime = s.processingTime / float64(s.requestCount)
	}
	return st
}

const conversationIDSuffixLength = 8

// conversationID returns the request's conversation id, deriving a fresh
// "{agent}_{user}_{rand8}" id when the client supplied none. Anonymous
// requests use "anonymous" as the user segment.
func conversationID(agentName string, req *AIRequest) string {
	if req.ConversationID != "" {
		return req.ConversationID
	}
	userSegment := "anonymous"
	if req.UserID != nil {
		userSegment = req.UserID.String()
	}
	suffix, err := idgen.GenerateSecureID("c", conversationIDSuffixLength)
	if err != nil {
		suffix = "c_" + uuid.NewString()[:conversationIDSuffixLength]
	}
	return fmt.Sprintf("%s_%s_%s", agentName, userSegment, strings.TrimPrefix(suffix, "c_"))
}

// errorResponse builds the uniform apology envelope returned whenever an
// agent fails. Confidence is zero and the cause is kept in metadata.
func errorResponse(conversationID, errMessage string, interactionType InteractionType) *AIResponse {
	return &AIResponse{
		Message:         fmt.Sprintf("I apologize, but I encountered an error: %s", errMessage),
		InteractionType: interactionType,
		ConversationID:  conversationID,
		Confidence:      0.0,
		Metadata: map[string]any{
			"error":         true,
			"error_message": errMessage,
		},
	}
}

var uuidPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// extractProductID pulls the first UUID-shaped token out of a message, if any.
func extractProductID(message string) (uuid.UUID, bool) {
	match := uuidPattern.FindString(strings.ToLower(message))
	if match == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(match)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// previewResponse shortens a model reply for health reporting.
func previewResponse(s string) string {
	const max = 50
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
