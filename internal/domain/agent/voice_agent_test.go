package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestVoiceAgent(backend *fakeBackend) *VoiceAgent {
	return NewVoiceAgent(newTestChatAgent("voice_agent", backend, 0.80), zerolog.Nop())
}

func TestVoiceChatRecordsChannelMarker(t *testing.T) {
	backend := newFakeBackend("Happy to help.")
	agent := newTestVoiceAgent(backend)

	resp := agent.Process(context.Background(), &AIRequest{
		Message:         "find me a scarf",
		InteractionType: InteractionVoiceChat,
	})

	if mode, _ := resp.Metadata["interaction_mode"].(string); mode != "voice" {
		t.Errorf("expected voice interaction mode, got %v", resp.Metadata["interaction_mode"])
	}

	history := agent.chat.store.History(resp.ConversationID, 0)
	var found bool
	for _, msg := range history {
		if msg.Content == "[VOICE] find me a scarf" {
			found = true
		}
	}
	if !found {
		t.Errorf("voice marker missing from history: %+v", history)
	}
}

func TestVoiceTurnStoresSingleMessagePair(t *testing.T) {
	backend := newFakeBackend("Happy to help.")
	agent := newTestVoiceAgent(backend)

	resp := agent.Process(context.Background(), &AIRequest{
		Message:         "find me a scarf",
		InteractionType: InteractionVoiceChat,
	})

	history := agent.chat.store.History(resp.ConversationID, 0)
	if len(history) != 2 {
		t.Fatalf("expected exactly one stored message pair, got %d messages: %+v", len(history), history)
	}
	if history[0].Content != "[VOICE] find me a scarf" {
		t.Errorf("expected marked user message first, got %q", history[0].Content)
	}
	if history[1].Content != "Happy to help." {
		t.Errorf("expected assistant reply second, got %q", history[1].Content)
	}
}

func TestMultimodalRecordsChannelMarker(t *testing.T) {
	backend := newFakeBackend("Analyzed.")
	agent := newTestVoiceAgent(backend)

	resp := agent.Process(context.Background(), &AIRequest{
		Message:         "look at this",
		InteractionType: InteractionMultimodal,
	})

	history := agent.chat.store.History(resp.ConversationID, 0)
	var found bool
	for _, msg := range history {
		if strings.HasPrefix(msg.Content, "[MULTIMODAL] ") {
			found = true
		}
	}
	if !found {
		t.Errorf("multimodal marker missing from history: %+v", history)
	}
}

func TestAnalyzeImageRecordsImageMarker(t *testing.T) {
	backend := newFakeBackend("A quilted leather bag.")
	agent := newTestVoiceAgent(backend)

	resp := agent.AnalyzeImage(context.Background(), &VisualRequest{
		AIRequest: AIRequest{Message: "identify this bag"},
		ImageData: "aW1hZ2U=",
	})

	if resp.Confidence != 0.80 {
		t.Errorf("expected confidence 0.80, got %v", resp.Confidence)
	}

	history := agent.chat.store.History(resp.ConversationID, 0)
	if len(history) != 2 || history[0].Content != "[IMAGE] identify this bag" {
		t.Errorf("image marker missing from history: %+v", history)
	}
}

func TestAnalyzeImageError(t *testing.T) {
	backend := newFakeBackend("")
	backend.err = errUpstream
	agent := newTestVoiceAgent(backend)

	resp := agent.AnalyzeImage(context.Background(), &VisualRequest{
		AIRequest: AIRequest{Message: "identify this bag"},
		ImageData: "aW1hZ2U=",
	})

	if !strings.HasPrefix(resp.Message, "I apologize, but I couldn't analyze the image:") {
		t.Errorf("unexpected error message %q", resp.Message)
	}
	if resp.Confidence != 0 {
		t.Errorf("expected zero confidence, got %v", resp.Confidence)
	}
	if _, ok := resp.AnalysisResults["error"]; !ok {
		t.Error("analysis results should carry the error")
	}
}

func TestVoiceAgentHealthFeatures(t *testing.T) {
	agent := newTestVoiceAgent(newFakeBackend("hello"))

	health := agent.Health(context.Background())
	if health.Status != "healthy" {
		t.Fatalf("expected healthy, got %q", health.Status)
	}
	if capable, _ := health.Features["multimodal_capabilities"].(bool); !capable {
		t.Errorf("expected multimodal capability flag, got %+v", health.Features)
	}
	if stt, _ := health.Features["speech_to_text"].(bool); stt {
		t.Error("speech_to_text should be reported unavailable")
	}
}
