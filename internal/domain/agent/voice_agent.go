package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/miracle078/adogent/internal/utils/httpclients/chat"
)

// Conversation markers distinguishing interaction channels in history.
const (
	markerVoice      = "[VOICE] "
	markerImage      = "[IMAGE] "
	markerMultimodal = "[MULTIMODAL] "
)

// VoiceAgent handles voice, multimodal and image analysis requests over the
// local multimodal model. Speech-to-text and text-to-speech are stubbed until
// an audio pipeline exists.
type VoiceAgent struct {
	chat   *ChatAgent
	logger zerolog.Logger
	stats  statsTracker
}

var _ Agent = (*VoiceAgent)(nil)

func NewVoiceAgent(chat *ChatAgent, logger zerolog.Logger) *VoiceAgent {
	return &VoiceAgent{
		chat:   chat,
		logger: logger.With().Str("agent", "voice_agent").Logger(),
	}
}

func (a *VoiceAgent) Name() string {
	return "voice_agent"
}

func (a *VoiceAgent) Process(ctx context.Context, req *AIRequest) *AIResponse {
	conversationID := conversationID(a.Name(), req)
	if err := a.chat.validate(req); err != nil {
		a.stats.record(true, 0, 0)
		return errorResponse(conversationID, err.Error(), req.InteractionType.Normalize())
	}

	var resp *AIResponse
	switch req.InteractionType.Normalize() {
	case InteractionVoiceChat:
		resp = a.processVoiceChat(ctx, req, conversationID)
	case InteractionMultimodal:
		resp = a.processMultimodal(ctx, req, conversationID)
	default:
		resp = a.processGeneralVoice(ctx, req, conversationID)
	}
	a.stats.record(resp.Confidence == 0, resp.TokensUsed, resp.ProcessingTime)
	return resp
}

func (a *VoiceAgent) processVoiceChat(ctx context.Context, req *AIRequest, conversationID string) *AIResponse {
	prompt := fmt.Sprintf(`You are ADOGENT's voice assistant. Respond to this voice message: "%s"

As a luxury e-commerce voice assistant:
- Use natural, conversational language
- Be warm and personable
- Provide helpful shopping guidance
- Ask clarifying questions when needed
- Suggest next steps clearly

Keep responses concise but informative for voice interaction.`, req.Message)

	return a.relay(ctx, req, conversationID, prompt, markerVoice, map[string]any{
		"interaction_mode":             "voice",
		"response_optimized_for_voice": true,
	})
}

func (a *VoiceAgent) processMultimodal(ctx context.Context, req *AIRequest, conversationID string) *AIResponse {
	prompt := fmt.Sprintf(`Process this multimodal request: "%s"

As ADOGENT's multimodal assistant:
- Analyze any visual content if present
- Understand text context
- Provide comprehensive responses
- Consider both visual and textual information
- Offer relevant luxury shopping insights

Provide a helpful, integrated response.`, req.Message)

	return a.relay(ctx, req, conversationID, prompt, markerMultimodal, map[string]any{
		"interaction_mode":         "multimodal",
		"includes_visual_analysis": true,
	})
}

func (a *VoiceAgent) processGeneralVoice(ctx context.Context, req *AIRequest, conversationID string) *AIResponse {
	prompt := fmt.Sprintf(`Process this voice request: "%s"

As ADOGENT's voice assistant:
- Understand the user's intent
- Provide helpful guidance
- Use natural, conversational tone
- Keep responses appropriate for voice interaction
- Offer clear next steps

Respond naturally and helpfully.`, req.Message)

	return a.relay(ctx, req, conversationID, prompt, markerVoice, map[string]any{
		"interaction_mode": "voice",
		"processing_type":  "general_voice",
	})
}

// relay sends the channel-specific prompt through the multimodal backend.
// Only the original message, prefixed with its channel marker, and the reply
// are retained, so each voice turn stores exactly one message pair.
func (a *VoiceAgent) relay(ctx context.Context, req *AIRequest, conversationID, prompt, marker string, metadata map[string]any) *AIResponse {
	startedAt := time.Now()

	messages := a.chat.buildMessages(conversationID, &AIRequest{
		Message: prompt,
		Context: req.Context,
	}, InteractionGeneralChat)
	content, err := a.chat.backend.Generate(ctx, messages)
	if err != nil {
		a.logger.Error().Err(err).Str("conversation_id", conversationID).Msg("voice completion failed")
		return errorResponse(conversationID, err.Error(), req.InteractionType.Normalize())
	}

	a.chat.store.Append(conversationID, openai.ChatMessageRoleUser, marker+req.Message)
	a.chat.store.Append(conversationID, openai.ChatMessageRoleAssistant, content)

	return &AIResponse{
		Message:         content,
		InteractionType: req.InteractionType,
		ConversationID:  conversationID,
		Confidence:      a.chat.confidence,
		ProcessingTime:  time.Since(startedAt).Seconds(),
		ModelUsed:       a.chat.backend.Model(),
		TokensUsed: chat.EstimateTokens(append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleAssistant,
			Content: content,
		})),
		Metadata: metadata,
	}
}

// AnalyzeImage runs a multimodal completion over an inline base64 image.
func (a *VoiceAgent) AnalyzeImage(ctx context.Context, req *VisualRequest) *VisualResponse {
	conversationID := conversationID(a.Name(), &req.AIRequest)
	if err := a.chat.validate(&req.AIRequest); err != nil {
		a.stats.record(true, 0, 0)
		return a.visualError(conversationID, err.Error())
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: a.chat.personas.VisionPrompt(string(InteractionVisualAnalysis))},
		VisionMessage(req.Message, req.ImageData),
	}

	startedAt := time.Now()
	content, err := a.chat.backend.Generate(ctx, messages)
	if err != nil {
		a.logger.Error().Err(err).Str("conversation_id", conversationID).Msg("visual analysis failed")
		a.stats.record(true, 0, time.Since(startedAt).Seconds())
		return a.visualError(conversationID, err.Error())
	}
	processingTime := time.Since(startedAt).Seconds()

	a.chat.store.Append(conversationID, openai.ChatMessageRoleUser, markerImage+req.Message)
	a.chat.store.Append(conversationID, openai.ChatMessageRoleAssistant, content)
	a.stats.record(false, 0, processingTime)

	return &VisualResponse{
		AIResponse: AIResponse{
			Message:         content,
			InteractionType: InteractionVisualAnalysis,
			ConversationID:  conversationID,
			Confidence:      a.chat.confidence,
			ProcessingTime:  processingTime,
			ModelUsed:       a.chat.backend.Model(),
			Metadata: map[string]any{
				"multimodal_processing": true,
				"image_analysis":        true,
			},
		},
		AnalysisResults: map[string]any{
			"image_processed": true,
			"model_used":      a.chat.backend.Model(),
			"processing_time": processingTime,
		},
	}
}

func (a *VoiceAgent) visualError(conversationID, errMessage string) *VisualResponse {
	return &VisualResponse{
		AIResponse: AIResponse{
			Message:         fmt.Sprintf("I apologize, but I couldn't analyze the image: %s", errMessage),
			InteractionType: InteractionVisualAnalysis,
			ConversationID:  conversationID,
			Confidence:      0.0,
			Metadata: map[string]any{
				"error":         true,
				"error_message": errMessage,
			},
		},
		AnalysisResults: map[string]any{"error": errMessage},
	}
}

// TranscribeAudio converts recorded audio to text. Speech-to-text is not
// wired up yet, so callers get a fixed notice directing users to text input.
func (a *VoiceAgent) TranscribeAudio(audioData []byte, format string) string {
	a.logger.Info().Int("bytes", len(audioData)).Str("format", format).Msg("audio input received")
	return "Audio processing not yet implemented. Please use text input."
}

// VoiceSynthesis is the text-to-speech result shape. Until a TTS pipeline
// exists, responses carry text only.
type VoiceSynthesis struct {
	Text     string  `json:"text"`
	AudioURL *string `json:"audio_url"`
	Duration float64 `json:"duration"`
	Format   string  `json:"format"`
	Status   string  `json:"status"`
}

func (a *VoiceAgent) SynthesizeVoice(text string) *VoiceSynthesis {
	a.logger.Info().Str("preview", previewResponse(text)).Msg("voice synthesis requested")
	return &VoiceSynthesis{
		Text:     text,
		AudioURL: nil,
		Duration: 0,
		Format:   "mp3",
		Status:   "text_only",
	}
}

func (a *VoiceAgent) Health(ctx context.Context) *HealthStatus {
	modelHealth := a.chat.Health(ctx)

	status := "unhealthy"
	if modelHealth.Status == "healthy" {
		status = "healthy"
	}
	return &HealthStatus{
		Status:          status,
		Model:           modelHealth.Model,
		ResponseTime:    modelHealth.ResponseTime,
		ResponsePreview: modelHealth.ResponsePreview,
		Error:           modelHealth.Error,
		LastCheck:       time.Now().UTC(),
		Features: map[string]any{
			"multimodal_capabilities": true,
			"voice_processing":        true,
			"visual_analysis":         true,
			"speech_to_text":          false,
			"text_to_speech":          false,
		},
	}
}

func (a *VoiceAgent) Stats() Stats {
	return a.stats.snapshot(a.Name(), a.chat.store.ActiveConversations())
}

func (a *VoiceAgent) ClearConversation(conversationID string) bool {
	return a.chat.ClearConversation(conversationID)
}
