package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/innovation-platform/internal/domain/ai"
	"github.com/bryanwahyu/innovation-platform/internal/infra/ai/prompt"
)

const (
	maxTokens   = 1000
	temperature = 0.7

	DefaultModel          = "gpt-4"
	DefaultAnthropicModel = "claude-sonnet-4-20250514"

	// Anthropic exposes an OpenAI-compatible chat completions endpoint.
	anthropicBaseURL = "https://api.anthropic.com/v1/"
)

// Provider decides which per-request model overrides a client accepts.
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderAnthropic  Provider = "anthropic"
	// ProviderCompatible accepts any override.
	ProviderCompatible Provider = ""
)

type Client struct {
	*openai.Client
	Model    string
	Provider Provider
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{Client: openai.NewClient(apiKey), Model: model, Provider: ProviderOpenAI}
}

// NewAnthropicClient talks to Claude through the same chat completion API.
func NewAnthropicClient(apiKey, model string) *Client {
	return newAnthropicClient(apiKey, anthropicBaseURL, model)
}

func newAnthropicClient(apiKey, baseURL, model string) *Client {
	if model == "" {
		model = DefaultAnthropicModel
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model, Provider: ProviderAnthropic}
}

// NewClientWithBaseURL points the client at any OpenAI-compatible server.
func NewClientWithBaseURL(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model}
}

func (c *Client) Complete(ctx context.Context, r ai.Request) (string, error) {
	model := c.modelFor(r.Model)
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(r.Prompt, r.Content)},
		},
	}
	// Reasoning models (o1/o3/o4/gpt-5*) take MaxCompletionTokens and reject a custom temperature
	if isReasoningModel(model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
		req.Temperature = temperature
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %s", ai.ErrQuotaExceeded, apiErr.Message)
		}
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// modelFor keeps the configured model when the override is empty or names
// another provider's model.
func (c *Client) modelFor(override string) string {
	if override == "" {
		return c.Model
	}
	claude := strings.HasPrefix(strings.ToLower(override), "claude")
	switch c.Provider {
	case ProviderAnthropic:
		if !claude {
			return c.Model
		}
	case ProviderOpenAI:
		if claude {
			return c.Model
		}
	}
	return override
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}
