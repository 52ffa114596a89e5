package agent

import (
	"fmt"
	"testing"
)

func TestStoreAppendTruncates(t *testing.T) {
	store := NewStore(10, true)

	for i := 0; i < 12; i++ {
		store.Append("conv", "user", fmt.Sprintf("message %d", i))
	}

	if got := store.Len("conv"); got != 10 {
		t.Fatalf("expected 10 retained messages, got %d", got)
	}

	msgs := store.History("conv", 0)
	if msgs[0].Content != "message 2" {
		t.Errorf("expected oldest surviving message to be 'message 2', got %q", msgs[0].Content)
	}
	if msgs[len(msgs)-1].Content != "message 11" {
		t.Errorf("expected newest message to be 'message 11', got %q", msgs[len(msgs)-1].Content)
	}
}

func TestStoreHistoryWindow(t *testing.T) {
	store := NewStore(10, true)
	for i := 0; i < 8; i++ {
		store.Append("conv", "user", fmt.Sprintf("message %d", i))
	}

	msgs := store.History("conv", 5)
	if len(msgs) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(msgs))
	}
	if msgs[0].Content != "message 3" {
		t.Errorf("window should start at 'message 3', got %q", msgs[0].Content)
	}
}

func TestStoreHistoryShorterThanWindow(t *testing.T) {
	store := NewStore(10, true)
	store.Append("conv", "user", "only message")

	msgs := store.History("conv", 5)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
}

func TestStoreContextDisabled(t *testing.T) {
	store := NewStore(10, false)
	for i := 0; i < 25; i++ {
		store.Append("conv", "user", fmt.Sprintf("message %d", i))
	}

	if msgs := store.History("conv", 0); msgs != nil {
		t.Errorf("disabled context should return no history, got %d messages", len(msgs))
	}
	if got := store.Len("conv"); got != 0 {
		t.Errorf("disabled context should retain nothing, got %d messages", got)
	}
	if got := store.ActiveConversations(); got != 0 {
		t.Errorf("disabled context should track no conversations, got %d", got)
	}
}

func TestStoreClear(t *testing.T) {
	store := NewStore(10, true)
	store.Append("a", "user", "hello")
	store.Append("b", "user", "hi")

	if !store.Clear("a") {
		t.Error("clearing an existing conversation should report true")
	}
	if store.Clear("a") {
		t.Error("clearing a missing conversation should report false")
	}
	if got := store.ActiveConversations(); got != 1 {
		t.Errorf("expected 1 active conversation, got %d", got)
	}
}

func TestStoreConversationsIsolated(t *testing.T) {
	store := NewStore(10, true)
	store.Append("a", "user", "for a")
	store.Append("b", "user", "for b")

	msgs := store.History("a", 0)
	if len(msgs) != 1 || msgs[0].Content != "for a" {
		t.Errorf("conversation a leaked messages: %+v", msgs)
	}
}
