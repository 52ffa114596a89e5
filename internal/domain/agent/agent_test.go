package agent

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestInteractionTypeNormalize(t *testing.T) {
	tests := []struct {
		in   InteractionType
		want InteractionType
	}{
		{InteractionProductSearch, InteractionProductSearch},
		{InteractionVoiceChat, InteractionVoiceChat},
		{InteractionType(""), InteractionGeneralChat},
		{InteractionType("nonsense"), InteractionGeneralChat},
		{InteractionType("PRODUCT_SEARCH"), InteractionGeneralChat},
	}
	for _, tc := range tests {
		if got := tc.in.Normalize(); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestConversationIDDerivation(t *testing.T) {
	userID := uuid.New()
	req := &AIRequest{UserID: &userID}

	id := conversationID("groq_agent", req)
	if !strings.HasPrefix(id, "groq_agent_"+userID.String()+"_") {
		t.Errorf("unexpected conversation id %q", id)
	}

	suffix := id[strings.LastIndex(id, "_")+1:]
	if len(suffix) != conversationIDSuffixLength {
		t.Errorf("expected %d-char suffix, got %q", conversationIDSuffixLength, suffix)
	}

	// Two derivations must not collide.
	if other := conversationID("groq_agent", req); other == id {
		t.Error("derived conversation ids should be unique")
	}
}

func TestConversationIDAnonymous(t *testing.T) {
	id := conversationID("voice_agent", &AIRequest{})
	if !strings.HasPrefix(id, "voice_agent_anonymous_") {
		t.Errorf("unexpected anonymous conversation id %q", id)
	}
}

func TestConversationIDPassthrough(t *testing.T) {
	req := &AIRequest{ConversationID: "existing_conv"}
	if got := conversationID("groq_agent", req); got != "existing_conv" {
		t.Errorf("existing id must pass through, got %q", got)
	}
}

func TestExtractProductID(t *testing.T) {
	id := uuid.New()

	got, ok := extractProductID("show me product " + strings.ToUpper(id.String()) + " please")
	if !ok || got != id {
		t.Errorf("expected %s extracted case-insensitively, got %s (ok=%v)", id, got, ok)
	}

	if _, ok := extractProductID("no identifiers here"); ok {
		t.Error("expected no match")
	}
}

func TestPreviewResponse(t *testing.T) {
	if got := previewResponse("short"); got != "short" {
		t.Errorf("short strings must pass through, got %q", got)
	}
	long := strings.Repeat("y", 80)
	got := previewResponse(long)
	if got != long[:50]+"..." {
		t.Errorf("unexpected preview %q", got)
	}
}
