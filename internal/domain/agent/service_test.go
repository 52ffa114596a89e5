package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type serviceFixture struct {
	service      *Service
	groqBackend  *fakeBackend
	visionFake   *fakeBackend
	catalogStore *fakeCatalog
}

func newServiceFixture() *serviceFixture {
	groqBackend := newFakeBackend("groq says hi")
	visionBackend := newFakeBackend("vision says hi")
	visionBackend.model = "vision-model"
	cat := &fakeCatalog{}

	general := newTestChatAgent("groq_agent", groqBackend, 0.85)
	productChat := newTestChatAgent("product_agent", groqBackend, 0.85)
	recChat := newTestChatAgent("recommendation_agent", groqBackend, 0.85)
	voiceChat := newTestChatAgent("voice_agent", visionBackend, 0.80)

	svc := NewService(
		general,
		NewProductAgent(productChat, cat, zerolog.Nop()),
		NewRecommendationAgent(recChat, cat, 5, zerolog.Nop()),
		NewVoiceAgent(voiceChat, zerolog.Nop()),
		zerolog.Nop(),
	)
	return &serviceFixture{
		service:      svc,
		groqBackend:  groqBackend,
		visionFake:   visionBackend,
		catalogStore: cat,
	}
}

func TestServiceRouting(t *testing.T) {
	tests := []struct {
		interactionType InteractionType
		wantModel       string
		wantIDPrefix    string
	}{
		{InteractionGeneralChat, "test-model", "groq_agent_"},
		{InteractionProductSearch, "groq+database", "product_agent_"},
		{InteractionProductRecommendation, "groq+database", "recommendation_agent_"},
		{InteractionVoiceChat, "vision-model", "voice_agent_"},
		{InteractionMultimodal, "vision-model", "voice_agent_"},
		{InteractionCustomerSupport, "test-model", "groq_agent_"},
	}

	for _, tc := range tests {
		t.Run(string(tc.interactionType), func(t *testing.T) {
			f := newServiceFixture()
			resp := f.service.Chat(context.Background(), &AIRequest{
				Message:         "hello",
				InteractionType: tc.interactionType,
			})
			if resp.ModelUsed != tc.wantModel {
				t.Errorf("model = %q, want %q", resp.ModelUsed, tc.wantModel)
			}
			if !strings.HasPrefix(resp.ConversationID, tc.wantIDPrefix) {
				t.Errorf("conversation id %q should start with %q", resp.ConversationID, tc.wantIDPrefix)
			}
		})
	}
}

func TestServiceHealthAggregation(t *testing.T) {
	f := newServiceFixture()

	summary := f.service.Health(context.Background())
	if summary.OverallStatus != "healthy" {
		t.Fatalf("expected healthy, got %q", summary.OverallStatus)
	}
	if summary.TotalAgents != 4 || summary.HealthyAgents != 4 {
		t.Errorf("unexpected counts: %+v", summary)
	}

	// Vision backend down: voice agent unhealthy, the rest stay up.
	f.visionFake.err = errUpstream
	summary = f.service.Health(context.Background())
	if summary.OverallStatus != "partial" {
		t.Errorf("expected partial, got %q", summary.OverallStatus)
	}

	// Everything down.
	f.groqBackend.err = errUpstream
	summary = f.service.Health(context.Background())
	if summary.OverallStatus != "unhealthy" {
		t.Errorf("expected unhealthy, got %q", summary.OverallStatus)
	}
}

func TestServiceClearConversationFanOut(t *testing.T) {
	f := newServiceFixture()

	resp := f.service.Chat(context.Background(), &AIRequest{
		Message:         "hello",
		InteractionType: InteractionGeneralChat,
	})

	if !f.service.ClearConversation(resp.ConversationID) {
		t.Error("expected the general agent's conversation to be cleared")
	}
	if f.service.ClearConversation(resp.ConversationID) {
		t.Error("second clear should report nothing removed")
	}
	if f.service.ClearConversation("never_existed") {
		t.Error("unknown conversation should report false")
	}
}

func TestServiceStatistics(t *testing.T) {
	f := newServiceFixture()

	f.service.Chat(context.Background(), &AIRequest{Message: "one"})
	f.service.Chat(context.Background(), &AIRequest{Message: ""})

	stats := f.service.Statistics(context.Background())
	if stats.ServiceStatus != "operational" {
		t.Errorf("unexpected service status %q", stats.ServiceStatus)
	}
	if stats.Summary.TotalAgents != 4 {
		t.Errorf("expected 4 agents, got %d", stats.Summary.TotalAgents)
	}
	if stats.Summary.TotalRequests != 2 || stats.Summary.TotalErrors != 1 {
		t.Errorf("unexpected summary: %+v", stats.Summary)
	}
	if stats.Agents["groq_agent"].RequestCount != 2 {
		t.Errorf("general agent should have processed both requests: %+v", stats.Agents["groq_agent"])
	}
	if stats.Summary.TotalTokensUsed != stats.Agents["groq_agent"].TotalTokensUsed {
		t.Errorf("summary tokens should sum per-agent totals: %+v", stats.Summary)
	}
	if stats.Summary.TotalTokensUsed == 0 {
		t.Error("successful chat should contribute tokens to the summary")
	}
	if want := stats.Summary.TotalProcessingTime / 2; stats.Summary.AverageResponseTime != want {
		t.Errorf("expected average response time %v, got %v", want, stats.Summary.AverageResponseTime)
	}
}

func TestServiceModels(t *testing.T) {
	f := newServiceFixture()

	models := f.service.Models()
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
	if models[0].Provider != "groq" || models[1].Provider != "ollama" {
		t.Errorf("unexpected providers: %+v", models)
	}
}

func TestServiceVoiceStubs(t *testing.T) {
	f := newServiceFixture()

	if got := f.service.TranscribeAudio([]byte{1, 2, 3}, "wav"); got != "Audio processing not yet implemented. Please use text input." {
		t.Errorf("unexpected transcription stub: %q", got)
	}

	synth := f.service.SynthesizeVoice("Welcome back")
	if synth.Status != "text_only" || synth.Format != "mp3" || synth.AudioURL != nil {
		t.Errorf("unexpected synthesis stub: %+v", synth)
	}
	if synth.Text != "Welcome back" {
		t.Errorf("text must round-trip, got %q", synth.Text)
	}
}

func TestServiceAnalyzeImage(t *testing.T) {
	f := newServiceFixture()

	resp := f.service.AnalyzeImage(context.Background(), &VisualRequest{
		AIRequest: AIRequest{Message: "What bag is this?"},
		ImageData: "aGVsbG8=",
	})

	if resp.Message != "vision says hi" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if processed, _ := resp.AnalysisResults["image_processed"].(bool); !processed {
		t.Errorf("expected image_processed flag, got %+v", resp.AnalysisResults)
	}

	// The backend must have received the inline image part.
	messages := f.visionFake.lastCall()
	last := messages[len(messages)-1]
	if len(last.MultiContent) != 2 {
		t.Fatalf("expected text and image parts, got %d", len(last.MultiContent))
	}
	if !strings.HasPrefix(last.MultiContent[1].ImageURL.URL, "data:image/jpeg;base64,") {
		t.Errorf("image part missing data URL prefix: %q", last.MultiContent[1].ImageURL.URL)
	}
}

func TestErrorConversationID(t *testing.T) {
	f := newServiceFixture()
	if !strings.HasPrefix(f.service.ErrorConversationID(), "error_") {
		t.Error("error conversation ids must carry the error_ prefix")
	}
}
