package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/miracle078/adogent/internal/config"
	"github.com/miracle078/adogent/internal/infrastructure/metrics"
	"github.com/miracle078/adogent/internal/utils/httpclients/chat"
)

const historyWindow = 5

// ChatAgent is a persona-driven conversational agent over a single model
// backend. Both the fast-text and the multimodal text paths run through it.
type ChatAgent struct {
	name             string
	backend          ChatBackend
	store            *Store
	personas         *config.PersonaConfig
	maxMessageLength int
	confidence       float64
	logger           zerolog.Logger
	stats            statsTracker
}

var _ Agent = (*ChatAgent)(nil)

func NewChatAgent(name string, backend ChatBackend, store *Store, personas *config.PersonaConfig, maxMessageLength int, confidence float64, logger zerolog.Logger) *ChatAgent {
	return &ChatAgent{
		name:             name,
		backend:          backend,
		store:            store,
		personas:         personas,
		maxMessageLength: maxMessageLength,
		confidence:       confidence,
		logger:           logger.With().Str("agent", name).Logger(),
	}
}

func (a *ChatAgent) Name() string {
	return a.name
}

// Process answers a text request with persona prompt and recent history as
// context. Validation failures and upstream errors both come back as the
// apology envelope, never as a Go error.
func (a *ChatAgent) Process(ctx context.Context, req *AIRequest) *AIResponse {
	conversationID := conversationID(a.name, req)
	if err := a.validate(req); err != nil {
		a.stats.record(true, 0, 0)
		metrics.AgentRequestsTotal.WithLabelValues(a.name, string(req.InteractionType.Normalize()), "error").Inc()
		return errorResponse(conversationID, err.Error(), req.InteractionType.Normalize())
	}

	interactionType := req.InteractionType.Normalize()
	messages := a.buildMessages(conversationID, req, interactionType)

	startedAt := time.Now()
	content, err := a.backend.Generate(ctx, messages)
	if err != nil {
		a.logger.Error().Err(err).Str("conversation_id", conversationID).Msg("chat completion failed")
		a.stats.record(true, 0, time.Since(startedAt).Seconds())
		metrics.AgentRequestsTotal.WithLabelValues(a.name, string(interactionType), "error").Inc()
		return errorResponse(conversationID, err.Error(), interactionType)
	}
	processingTime := time.Since(startedAt).Seconds()
	tokensUsed := chat.EstimateTokens(append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: content,
	}))

	a.store.Append(conversationID, openai.ChatMessageRoleUser, req.Message)
	a.store.Append(conversationID, openai.ChatMessageRoleAssistant, content)
	a.stats.record(false, tokensUsed, processingTime)
	metrics.AgentRequestsTotal.WithLabelValues(a.name, string(interactionType), "success").Inc()
	metrics.InferenceDuration.WithLabelValues(a.backend.Model(), a.backend.Provider()).Observe(processingTime)
	metrics.TokensPerRequest.WithLabelValues(a.backend.Model()).Observe(float64(tokensUsed))

	return &AIResponse{
		Message:         content,
		InteractionType: interactionType,
		ConversationID:  conversationID,
		Confidence:      a.confidence,
		ProcessingTime:  processingTime,
		ModelUsed:       a.backend.Model(),
		TokensUsed:      tokensUsed,
		Metadata: map[string]any{
			"model": a.backend.Model(),
		},
	}
}

func (a *ChatAgent) validate(req *AIRequest) error {
	trimmed := strings.TrimSpace(req.Message)
	if trimmed == "" {
		return fmt.Errorf("message must not be empty")
	}
	if a.maxMessageLength > 0 && len(req.Message) > a.maxMessageLength {
		return fmt.Errorf("message exceeds maximum length of %d characters", a.maxMessageLength)
	}
	return nil
}

func (a *ChatAgent) buildMessages(conversationID string, req *AIRequest, interactionType InteractionType) []openai.ChatCompletionMessage {
	systemPrompt := a.personas.TextPrompt(string(interactionType))
	if instructions, ok := req.Context["instructions"].(string); ok && instructions != "" {
		systemPrompt = fmt.Sprintf("%s\n\nAdditional Instructions: %s", systemPrompt, instructions)
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
	for _, msg := range a.store.History(conversationID, historyWindow) {
		switch msg.Role {
		case openai.ChatMessageRoleUser, openai.ChatMessageRoleAssistant:
			messages = append(messages, openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content})
		}
	}
	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Message,
	})
}

// Health probes the backend with a trivial completion and reports the round
// trip time plus a short preview of the reply.
func (a *ChatAgent) Health(ctx context.Context) *HealthStatus {
	probe := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "You are a helpful assistant."},
		{Role: openai.ChatMessageRoleUser, Content: "Hello"},
	}

	startedAt := time.Now()
	content, err := a.backend.Generate(ctx, probe)
	if err != nil {
		metrics.BackendHealth.WithLabelValues(a.backend.Provider()).Set(0)
		return &HealthStatus{
			Status:    "unhealthy",
			Model:     a.backend.Model(),
			Error:     err.Error(),
			LastCheck: time.Now().UTC(),
		}
	}
	metrics.BackendHealth.WithLabelValues(a.backend.Provider()).Set(1)
	return &HealthStatus{
		Status:          "healthy",
		Model:           a.backend.Model(),
		ResponseTime:    time.Since(startedAt).Seconds(),
		ResponsePreview: previewResponse(content),
		LastCheck:       time.Now().UTC(),
	}
}

func (a *ChatAgent) Stats() Stats {
	return a.stats.snapshot(a.name, a.store.ActiveConversations())
}

func (a *ChatAgent) ClearConversation(conversationID string) bool {
	return a.store.Clear(conversationID)
}

// ProductSummaryInput describes one product for copy generation.
type ProductSummaryInput struct {
	Name      string
	Brand     string
	Category  string
	Price     string
	Condition string
}

// GenerateProductSummary asks the model for short marketing copy. On any
// failure it falls back to a templated line so callers always get text.
func (a *ChatAgent) GenerateProductSummary(ctx context.Context, input ProductSummaryInput) string {
	prompt := fmt.Sprintf(`Create a compelling product summary for this luxury item:

Product: %s
Brand: %s
Category: %s
Price: %s
Condition: %s

Create a 2-3 sentence summary that highlights the key features, luxury appeal, and value proposition.`,
		orUnknown(input.Name), orUnknown(input.Brand), orUnknown(input.Category), orUnknown(input.Price), orUnknown(input.Condition))

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "You are a luxury product copywriter."},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}
	content, err := a.backend.Generate(ctx, messages)
	if err != nil {
		a.logger.Error().Err(err).Str("product", input.Name).Msg("product summary generation failed")
		name := input.Name
		if name == "" {
			name = "item"
		}
		return strings.TrimSpace(fmt.Sprintf("Premium %s %s - a luxury addition to your collection.", input.Brand, name))
	}
	return content
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
