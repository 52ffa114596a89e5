package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/miracle078/adogent/internal/utils/httpclients/chat"
	"github.com/miracle078/adogent/internal/utils/platformerrors"
)

// ChatBackend is the model capability an agent depends on. Agents never talk
// to providers directly; they compose messages and hand them to a backend.
type ChatBackend interface {
	// Generate runs one chat completion and returns the first-choice text.
	Generate(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
	// Model is the configured model identifier, reported in responses.
	Model() string
	// Provider names the upstream, used as a metric label.
	Provider() string
	// Ping verifies the upstream is reachable.
	Ping(ctx context.Context) error
}

// CompletionBackend adapts a chat.CompletionClient into a ChatBackend.
type CompletionBackend struct {
	client      *chat.CompletionClient
	apiKey      string
	model       string
	maxTokens   int
	temperature float32
}

var _ ChatBackend = (*CompletionBackend)(nil)

func NewCompletionBackend(client *chat.CompletionClient, apiKey, model string, maxTokens int, temperature float32) *CompletionBackend {
	return &CompletionBackend{
		client:      client,
		apiKey:      apiKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

func (b *CompletionBackend) Generate(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, b.apiKey, openai.ChatCompletionRequest{
		Model:       b.model,
		Messages:    messages,
		MaxTokens:   b.maxTokens,
		Temperature: b.temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("model %s returned no choices", b.model), nil, "8d5a6c02-f4e7-4f19-b3c8-0a92d1e47b65")
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("model %s returned an empty message", b.model), nil, "b31e9f07-2a6d-48c3-9e54-7c1f80d2a3e9")
	}
	return content, nil
}

func (b *CompletionBackend) Model() string {
	return b.model
}

func (b *CompletionBackend) Provider() string {
	return b.client.Name()
}

func (b *CompletionBackend) Ping(ctx context.Context) error {
	_, err := b.client.ListModels(ctx, b.apiKey)
	return err
}

// VisionMessage builds a multimodal user message pairing a text prompt with a
// base64-encoded JPEG image, in the OpenAI content-parts wire shape.
func VisionMessage(text, imageData string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: text},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: fmt.Sprintf("data:image/jpeg;base64,%s", imageData),
				},
			},
		},
	}
}
