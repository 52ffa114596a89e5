package chat

import (
	"testing"

	"github.com/sashabaranov/go-openai"
)

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		path    string
		want    string
	}{
		{
			name:    "joins base and path",
			baseURL: "https://api.groq.com/openai/v1",
			path:    "/chat/completions",
			want:    "https://api.groq.com/openai/v1/chat/completions",
		},
		{
			name:    "trailing slash trimmed",
			baseURL: "http://localhost:11434/v1/",
			path:    "/chat/completions",
			want:    "http://localhost:11434/v1/chat/completions",
		},
		{
			name:    "absolute path wins",
			baseURL: "http://localhost:11434/v1",
			path:    "https://other.example.com/chat/completions",
			want:    "https://other.example.com/chat/completions",
		},
		{
			name:    "missing leading slash",
			baseURL: "http://localhost:11434/v1",
			path:    "models",
			want:    "http://localhost:11434/v1/models",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCompletionClient(nil, "test", tt.baseURL)
			if got := c.endpoint(tt.path); got != tt.want {
				t.Errorf("endpoint() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name     string
		messages []openai.ChatCompletionMessage
		want     int
	}{
		{
			name: "counts whitespace words",
			messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: "show me luxury handbags"},
			},
			want: 4,
		},
		{
			name: "sums across messages",
			messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: "You are a concierge"},
				{Role: openai.ChatMessageRoleUser, Content: "hello there"},
			},
			want: 6,
		},
		{
			name: "collapses repeated whitespace",
			messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: "  spaced   out\n\twords "},
			},
			want: 3,
		},
		{
			name: "includes text parts of multimodal messages",
			messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{Type: openai.ChatMessagePartTypeText, Text: "describe this image"},
						{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: "data:image/png;base64,AAAA"}},
					},
				},
			},
			want: 3,
		},
		{
			name:     "empty input",
			messages: nil,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.messages); got != tt.want {
				t.Errorf("EstimateTokens() = %v, want %v", got, tt.want)
			}
		})
	}
}
