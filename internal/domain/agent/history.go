package agent

import (
	"sync"
	"time"
)

// Store keeps per-conversation message history in memory. Each agent owns
// its own Store, so conversation ids never collide across agents. When
// contextEnabled is false nothing is retained at all: Append drops the
// message, so Len and ActiveConversations stay at zero.
type Store struct {
	mu             sync.RWMutex
	conversations  map[string][]Message
	maxHistory     int
	contextEnabled bool
}

// NewStore returns a history store keeping at most maxHistory messages per
// conversation. A non-positive maxHistory disables truncation.
func NewStore(maxHistory int, contextEnabled bool) *Store {
	return &Store{
		conversations:  make(map[string][]Message),
		maxHistory:     maxHistory,
		contextEnabled: contextEnabled,
	}
}

// Append records a conversation turn, evicting the oldest messages once the
// conversation exceeds the configured cap. With context disabled the turn is
// dropped so disabled stores never grow.
func (s *Store) Append(conversationID, role, content string) {
	if !s.contextEnabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := append(s.conversations[conversationID], Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	if s.maxHistory > 0 && len(msgs) > s.maxHistory {
		msgs = msgs[len(msgs)-s.maxHistory:]
	}
	s.conversations[conversationID] = msgs
}

// History returns up to limit most recent messages for a conversation, in
// chronological order. A non-positive limit returns the full retained
// history. Returns nil when conversation context is disabled.
func (s *Store) History(conversationID string, limit int) []Message {
	if !s.contextEnabled {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.conversations[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// Clear drops a conversation and reports whether it existed.
func (s *Store) Clear(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.conversations[conversationID]
	delete(s.conversations, conversationID)
	return ok
}

// Len returns the number of retained messages for a conversation.
func (s *Store) Len(conversationID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations[conversationID])
}

// ActiveConversations returns the number of conversations with history.
func (s *Store) ActiveConversations() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}
