// Package chat wraps an OpenAI-compatible chat completion endpoint.
// Both the hosted fast-text provider and a local multimodal runtime expose
// this wire shape, so one client serves every model backend.
package chat

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/miracle078/adogent/internal/utils/platformerrors"

	"github.com/sashabaranov/go-openai"
	"resty.dev/v3"
)

const requestTimeout = 120 * time.Second

type CompletionClient struct {
	client  *resty.Client
	baseURL string
	name    string
}

func NewCompletionClient(client *resty.Client, name, baseURL string) *CompletionClient {
	return &CompletionClient{
		client:  client,
		baseURL: normalizeBaseURL(baseURL),
		name:    name,
	}
}

// CreateChatCompletion posts the request to /chat/completions and decodes the
// first-choice response. The apiKey is optional; local runtimes take none.
func (c *CompletionClient) CreateChatCompletion(ctx context.Context, apiKey string, request openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var respBody openai.ChatCompletionResponse
	resp, err := c.prepareRequest(reqCtx, apiKey).
		SetBody(request).
		SetResult(&respBody).
		Post(c.endpoint("/chat/completions"))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, c.errorFromResponse(reqCtx, resp, "chat completion request failed")
	}
	return &respBody, nil
}

// ListModels fetches the /models listing, used by readiness probes against
// local runtimes.
func (c *CompletionClient) ListModels(ctx context.Context, apiKey string) (*openai.ModelsList, error) {
	var respBody openai.ModelsList
	resp, err := c.prepareRequest(ctx, apiKey).
		SetResult(&respBody).
		Get(c.endpoint("/models"))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, c.errorFromResponse(ctx, resp, "model listing request failed")
	}
	return &respBody, nil
}

func (c *CompletionClient) prepareRequest(ctx context.Context, apiKey string) *resty.Request {
	req := c.client.R().SetContext(ctx)
	req.SetHeader("Content-Type", "application/json")
	if strings.TrimSpace(apiKey) != "" {
		req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	}
	return req
}

func (c *CompletionClient) endpoint(path string) string {
	if path == "" {
		return c.baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if c.baseURL == "" {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return c.baseURL + path
	}
	return c.baseURL + "/" + path
}

func (c *CompletionClient) errorFromResponse(ctx context.Context, resp *resty.Response, message string) error {
	if resp == nil || resp.RawResponse == nil || resp.RawResponse.Body == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, nil, "c51a2f64-ff04-41f8-9be1-6d3760a9f616")
	}
	defer resp.RawResponse.Body.Close()
	body, err := io.ReadAll(resp.RawResponse.Body)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, nil, "f0b4aa38-13ad-4e8a-907f-3a2e9d7c2b51")
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, fmt.Sprintf("%s: status %d", message, resp.StatusCode()), nil, "6fb1c2b0-9d8f-4f4b-8d11-58e0d5c2a934")
	}
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, fmt.Sprintf("%s: %s", message, trimmed), nil, "2e79f0d2-5c44-4dd6-9a7e-fb9c3a1e0487")
}

func (c *CompletionClient) BaseURL() string {
	return c.baseURL
}

func (c *CompletionClient) Name() string {
	return c.name
}

// EstimateTokens approximates token usage as the whitespace word count of the
// message contents. Crude but model-agnostic, and good enough for the usage
// counters exposed in responses.
func EstimateTokens(messages []openai.ChatCompletionMessage) int {
	var allText strings.Builder

	for _, msg := range messages {
		allText.WriteString(msg.Content)
		allText.WriteString(" ")

		for _, part := range msg.MultiContent {
			if part.Type == openai.ChatMessagePartTypeText {
				allText.WriteString(part.Text)
				allText.WriteString(" ")
			}
		}
	}

	return len(strings.Fields(allText.String()))
}

func normalizeBaseURL(base string) string {
	trimmed := strings.TrimSpace(base)
	return strings.TrimRight(trimmed, "/")
}
