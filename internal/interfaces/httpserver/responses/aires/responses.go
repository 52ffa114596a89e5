package aires

import (
	"github.com/miracle078/adogent/internal/domain/agent"
)

// ConversationMessage is one turn of a stored conversation
type ConversationMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// ConversationHistoryResponse is the stored history of one conversation
type ConversationHistoryResponse struct {
	ConversationID string                `json:"conversation_id"`
	Messages       []ConversationMessage `json:"messages"`
	MessageCount   int                   `json:"message_count"`
}

// ConversationClearedResponse confirms a conversation wipe
type ConversationClearedResponse struct {
	ConversationID string `json:"conversation_id"`
	Cleared        bool   `json:"cleared"`
}

// UploadedImageResponse is returned after a media upload
type UploadedImageResponse struct {
	ID           string  `json:"id"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
	Format       string  `json:"format,omitempty"`
	Width        int     `json:"width,omitempty"`
	Height       int     `json:"height,omitempty"`
	Size         int     `json:"size,omitempty"`
}

// ModelsResponse lists the configured model backends
type ModelsResponse struct {
	Models []agent.ModelInfo `json:"models"`
}

// NewConversationHistoryResponse creates a response from stored messages
func NewConversationHistoryResponse(conversationID string, messages []agent.Message) *ConversationHistoryResponse {
	data := make([]ConversationMessage, len(messages))
	for i, msg := range messages {
		data[i] = ConversationMessage{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp.Unix(),
		}
	}

	return &ConversationHistoryResponse{
		ConversationID: conversationID,
		Messages:       data,
		MessageCount:   len(data),
	}
}

// NewConversationClearedResponse confirms the wipe of a conversation
func NewConversationClearedResponse(conversationID string) *ConversationClearedResponse {
	return &ConversationClearedResponse{ConversationID: conversationID, Cleared: true}
}
