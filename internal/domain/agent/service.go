package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Service coordinates the agent fleet: it routes requests by interaction
// type, aggregates health and statistics, and fans conversation management
// out to every agent.
type Service struct {
	generalAgent        *ChatAgent
	productAgent        *ProductAgent
	recommendationAgent *RecommendationAgent
	voiceAgent          *VoiceAgent
	logger              zerolog.Logger
}

func NewService(general *ChatAgent, product *ProductAgent, recommendation *RecommendationAgent, voice *VoiceAgent, logger zerolog.Logger) *Service {
	return &Service{
		generalAgent:        general,
		productAgent:        product,
		recommendationAgent: recommendation,
		voiceAgent:          voice,
		logger:              logger.With().Str("component", "ai_service").Logger(),
	}
}

// =============================================================================
// Routing
// =============================================================================

// Chat routes a request to the agent owning its interaction type. General
// chat and anything unrecognized go to the fast-text agent.
func (s *Service) Chat(ctx context.Context, req *AIRequest) *AIResponse {
	interactionType := req.InteractionType.Normalize()
	s.logger.Info().Str("interaction_type", string(interactionType)).Msg("processing chat request")

	switch interactionType {
	case InteractionProductSearch, InteractionProductDetails:
		return s.productAgent.Process(ctx, req)
	case InteractionProductRecommendation:
		return s.recommendationAgent.Process(ctx, req)
	case InteractionVoiceChat, InteractionMultimodal:
		return s.voiceAgent.Process(ctx, req)
	default:
		return s.generalAgent.Process(ctx, req)
	}
}

// Recommend serves structured recommendation requests with full preference
// filters, bypassing type-based routing.
func (s *Service) Recommend(ctx context.Context, req *RecommendationRequest) *RecommendationResponse {
	return s.recommendationAgent.Recommend(ctx, req)
}

// AnalyzeImage serves visual analysis through the multimodal agent.
func (s *Service) AnalyzeImage(ctx context.Context, req *VisualRequest) *VisualResponse {
	return s.voiceAgent.AnalyzeImage(ctx, req)
}

// VoiceChat forces the voice channel regardless of the declared type.
func (s *Service) VoiceChat(ctx context.Context, req *AIRequest) *AIResponse {
	req.InteractionType = InteractionVoiceChat
	return s.voiceAgent.Process(ctx, req)
}

// TranscribeAudio exposes the speech-to-text stub.
func (s *Service) TranscribeAudio(audioData []byte, format string) string {
	return s.voiceAgent.TranscribeAudio(audioData, format)
}

// SynthesizeVoice exposes the text-to-speech stub.
func (s *Service) SynthesizeVoice(text string) *VoiceSynthesis {
	return s.voiceAgent.SynthesizeVoice(text)
}

// ErrorConversationID labels responses that failed before a conversation
// could be established.
func (s *Service) ErrorConversationID() string {
	return fmt.Sprintf("error_%d", time.Now().UTC().Unix())
}

// =============================================================================
// Conversation management
// =============================================================================

func (s *Service) agents() []Agent {
	return []Agent{s.generalAgent, s.productAgent, s.recommendationAgent, s.voiceAgent}
}

// ClearConversation drops a conversation from every agent that holds it and
// reports whether any did.
func (s *Service) ClearConversation(conversationID string) bool {
	cleared := false
	for _, a := range s.agents() {
		if a.ClearConversation(conversationID) {
			cleared = true
		}
	}
	return cleared
}

// ConversationHistory returns the retained messages for a conversation from
// whichever agent store holds them.
func (s *Service) ConversationHistory(conversationID string) []Message {
	stores := []*Store{
		s.generalAgent.store,
		s.productAgent.chat.store,
		s.recommendationAgent.chat.store,
		s.voiceAgent.chat.store,
	}
	for _, store := range stores {
		if msgs := store.History(conversationID, 0); len(msgs) > 0 {
			return msgs
		}
	}
	return nil
}

// =============================================================================
// Observability
// =============================================================================

// StatisticsSummary totals request counters across the fleet.
type StatisticsSummary struct {
	TotalRequests       int64   `json:"total_requests"`
	TotalErrors         int64   `json:"total_errors"`
	TotalTokensUsed     int64   `json:"total_tokens_used"`
	TotalProcessingTime float64 `json:"total_processing_time"`
	AverageResponseTime float64 `json:"average_response_time"`
	TotalAgents         int     `json:"total_agents"`
}

// Statistics is the full observability snapshot exposed over HTTP.
type Statistics struct {
	ServiceStatus string            `json:"service_status"`
	Timestamp     time.Time         `json:"timestamp"`
	Agents        map[string]Stats  `json:"agents"`
	Summary       StatisticsSummary `json:"summary"`
	Health        *HealthSummary    `json:"health"`
}

// HealthSummary aggregates per-agent health probes.
type HealthSummary struct {
	OverallStatus string                   `json:"overall_status"`
	TotalAgents   int                      `json:"total_agents"`
	HealthyAgents int                      `json:"healthy_agents"`
	Agents        map[string]*HealthStatus `json:"agents"`
	CheckedAt     time.Time                `json:"checked_at"`
}

// Statistics gathers counters from every agent plus a health summary.
func (s *Service) Statistics(ctx context.Context) *Statistics {
	stats := &Statistics{
		ServiceStatus: "operational",
		Timestamp:     time.Now().UTC(),
		Agents:        make(map[string]Stats),
	}
	for _, a := range s.agents() {
		st := a.Stats()
		stats.Agents[a.Name()] = st
		stats.Summary.TotalRequests += st.RequestCount
		stats.Summary.TotalErrors += st.ErrorCount
		stats.Summary.TotalTokensUsed += st.TotalTokensUsed
		stats.Summary.TotalProcessingTime += st.TotalProcessingTime
		stats.Summary.TotalAgents++
	}
	if stats.Summary.TotalRequests > 0 {
		stats.Summary.AverageResponseTime = stats.Summary.TotalProcessingTime / float64(stats.Summary.TotalRequests)
	}
	stats.Health = s.Health(ctx)
	return stats
}

// Health probes every agent. All healthy reports "healthy", at least one
// healthy reports "partial", none reports "unhealthy".
func (s *Service) Health(ctx context.Context) *HealthSummary {
	summary := &HealthSummary{
		Agents:    make(map[string]*HealthStatus),
		CheckedAt: time.Now().UTC(),
	}
	for _, a := range s.agents() {
		health := a.Health(ctx)
		summary.Agents[a.Name()] = health
		summary.TotalAgents++
		if health.Status == "healthy" {
			summary.HealthyAgents++
		}
	}

	switch {
	case summary.HealthyAgents == summary.TotalAgents:
		summary.OverallStatus = "healthy"
	case summary.HealthyAgents > 0:
		summary.OverallStatus = "partial"
	default:
		summary.OverallStatus = "unhealthy"
	}
	return summary
}

// ModelInfo describes one configured model backend.
type ModelInfo struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Purpose  string `json:"purpose"`
}

// Models lists the configured model backends.
func (s *Service) Models() []ModelInfo {
	return []ModelInfo{
		{Name: s.generalAgent.backend.Model(), Provider: "groq", Purpose: "fast text generation"},
		{Name: s.voiceAgent.chat.backend.Model(), Provider: "ollama", Purpose: "multimodal analysis"},
	}
}

// GenerateProductSummary exposes copy generation for the catalog backfill.
func (s *Service) GenerateProductSummary(ctx context.Context, input ProductSummaryInput) string {
	return s.generalAgent.GenerateProductSummary(ctx, input)
}
