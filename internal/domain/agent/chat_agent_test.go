package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sashabaranov/go-openai"

	"github.com/miracle078/adogent/internal/infrastructure/metrics"
)

func TestChatAgentProcess(t *testing.T) {
	backend := newFakeBackend("Welcome to ADOGENT.")
	agent := newTestChatAgent("groq_agent", backend, 0.85)

	userID := uuid.New()
	resp := agent.Process(context.Background(), &AIRequest{
		Message:         "Hello there",
		InteractionType: InteractionGeneralChat,
		UserID:          &userID,
	})

	if resp.Message != "Welcome to ADOGENT." {
		t.Errorf("unexpected message: %q", resp.Message)
	}
	if resp.Confidence != 0.85 {
		t.Errorf("expected confidence 0.85, got %v", resp.Confidence)
	}
	if resp.ModelUsed != "test-model" {
		t.Errorf("expected model test-model, got %q", resp.ModelUsed)
	}
	if !strings.HasPrefix(resp.ConversationID, "groq_agent_"+userID.String()+"_") {
		t.Errorf("conversation id %q missing agent/user prefix", resp.ConversationID)
	}
	if resp.TokensUsed == 0 {
		t.Error("expected a non-zero token estimate")
	}

	// Both turns must be recorded.
	if got := agent.store.Len(resp.ConversationID); got != 2 {
		t.Errorf("expected 2 history messages, got %d", got)
	}
}

func TestChatAgentRejectsEmptyMessage(t *testing.T) {
	backend := newFakeBackend("never used")
	agent := newTestChatAgent("groq_agent", backend, 0.85)

	resp := agent.Process(context.Background(), &AIRequest{Message: "   "})

	if backend.callCount() != 0 {
		t.Fatal("validation failure must not reach the backend")
	}
	if resp.Confidence != 0 {
		t.Errorf("expected zero confidence, got %v", resp.Confidence)
	}
	if !strings.HasPrefix(resp.Message, "I apologize, but I encountered an error:") {
		t.Errorf("unexpected error message: %q", resp.Message)
	}
	if errFlag, _ := resp.Metadata["error"].(bool); !errFlag {
		t.Error("error metadata flag not set")
	}
}

func TestChatAgentRejectsOversizedMessage(t *testing.T) {
	backend := newFakeBackend("never used")
	agent := newTestChatAgent("groq_agent", backend, 0.85)

	resp := agent.Process(context.Background(), &AIRequest{
		Message: strings.Repeat("a", 4001),
	})

	if backend.callCount() != 0 {
		t.Fatal("validation failure must not reach the backend")
	}
	if !strings.Contains(resp.Message, "maximum length") {
		t.Errorf("expected length error, got %q", resp.Message)
	}
}

func TestChatAgentBackendFailure(t *testing.T) {
	backend := newFakeBackend("")
	backend.err = errUpstream
	agent := newTestChatAgent("groq_agent", backend, 0.85)

	resp := agent.Process(context.Background(), &AIRequest{Message: "Hello"})

	if resp.Confidence != 0 {
		t.Errorf("expected zero confidence on failure, got %v", resp.Confidence)
	}
	if agent.store.Len(resp.ConversationID) != 0 {
		t.Error("failed exchanges must not be recorded in history")
	}

	stats := agent.Stats()
	if stats.ErrorCount != 1 || stats.RequestCount != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestChatAgentRequestCounters(t *testing.T) {
	backend := newFakeBackend("ok")
	agent := newTestChatAgent("groq_agent", backend, 0.85)

	success := metrics.AgentRequestsTotal.WithLabelValues("groq_agent", string(InteractionGeneralChat), "success")
	failure := metrics.AgentRequestsTotal.WithLabelValues("groq_agent", string(InteractionGeneralChat), "error")
	successBefore := testutil.ToFloat64(success)
	failureBefore := testutil.ToFloat64(failure)

	agent.Process(context.Background(), &AIRequest{Message: "Hello"})
	agent.Process(context.Background(), &AIRequest{Message: ""})

	if got := testutil.ToFloat64(success); got != successBefore+1 {
		t.Errorf("expected success counter to increment once, got %v -> %v", successBefore, got)
	}
	if got := testutil.ToFloat64(failure); got != failureBefore+1 {
		t.Errorf("expected error counter to increment once, got %v -> %v", failureBefore, got)
	}
}

func TestChatAgentStatsAccumulateTokensAndTime(t *testing.T) {
	backend := newFakeBackend("a longer answer with several words in it")
	agent := newTestChatAgent("groq_agent", backend, 0.85)

	first := agent.Process(context.Background(), &AIRequest{Message: "Hello"})
	second := agent.Process(context.Background(), &AIRequest{Message: "Hello again"})

	stats := agent.Stats()
	if want := int64(first.TokensUsed + second.TokensUsed); stats.TotalTokensUsed != want {
		t.Errorf("expected %d cumulative tokens, got %d", want, stats.TotalTokensUsed)
	}
	if stats.TotalTokensUsed == 0 {
		t.Error("successful exchanges must contribute to the token total")
	}
	if stats.TotalProcessingTime < first.ProcessingTime {
		t.Errorf("processing time must accumulate across requests: %+v", stats)
	}
	if want := stats.TotalProcessingTime / 2; stats.AverageResponseTime != want {
		t.Errorf("expected average response time %v, got %v", want, stats.AverageResponseTime)
	}
}

func TestChatAgentSystemPromptAndInstructions(t *testing.T) {
	backend := newFakeBackend("ok")
	agent := newTestChatAgent("groq_agent", backend, 0.85)

	agent.Process(context.Background(), &AIRequest{
		Message:         "Recommend a watch",
		InteractionType: InteractionProductRecommendation,
		Context:         map[string]any{"instructions": "Prefer Swiss brands"},
	})

	messages := backend.lastCall()
	if messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatal("first message must be the system prompt")
	}
	if !strings.Contains(messages[0].Content, "Additional Instructions: Prefer Swiss brands") {
		t.Errorf("context instructions missing from system prompt: %q", messages[0].Content)
	}
}

func TestChatAgentHistoryWindow(t *testing.T) {
	backend := newFakeBackend("ok")
	agent := newTestChatAgent("groq_agent", backend, 0.85)

	// Four exchanges leave 8 history messages; only the last 5 are replayed.
	convID := ""
	for i := 0; i < 4; i++ {
		resp := agent.Process(context.Background(), &AIRequest{
			Message:        "turn",
			ConversationID: convID,
		})
		convID = resp.ConversationID
	}

	// system + 5 history + current user message
	messages := backend.lastCall()
	if len(messages) != 7 {
		t.Errorf("expected 7 messages in final call, got %d", len(messages))
	}
}

func TestChatAgentNormalizesUnknownType(t *testing.T) {
	backend := newFakeBackend("ok")
	agent := newTestChatAgent("groq_agent", backend, 0.85)

	resp := agent.Process(context.Background(), &AIRequest{
		Message:         "Hello",
		InteractionType: InteractionType("definitely_not_a_type"),
	})

	if resp.InteractionType != InteractionGeneralChat {
		t.Errorf("expected general_chat, got %q", resp.InteractionType)
	}
}

func TestChatAgentHealth(t *testing.T) {
	backend := newFakeBackend(strings.Repeat("x", 60))
	agent := newTestChatAgent("groq_agent", backend, 0.85)

	health := agent.Health(context.Background())
	if health.Status != "healthy" {
		t.Fatalf("expected healthy, got %q", health.Status)
	}
	if len(health.ResponsePreview) != 53 || !strings.HasSuffix(health.ResponsePreview, "...") {
		t.Errorf("preview not truncated to 50 chars plus ellipsis: %q", health.ResponsePreview)
	}

	backend.err = errUpstream
	health = agent.Health(context.Background())
	if health.Status != "unhealthy" || health.Error == "" {
		t.Errorf("expected unhealthy with error, got %+v", health)
	}
}

func TestGenerateProductSummaryFallback(t *testing.T) {
	backend := newFakeBackend("")
	backend.err = errUpstream
	agent := newTestChatAgent("groq_agent", backend, 0.85)

	summary := agent.GenerateProductSummary(context.Background(), ProductSummaryInput{
		Name:  "Birkin 25",
		Brand: "Hermès",
	})

	want := "Premium Hermès Birkin 25 - a luxury addition to your collection."
	if summary != want {
		t.Errorf("expected fallback %q, got %q", want, summary)
	}
}
