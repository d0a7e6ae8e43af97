package huggingface

import (
	"context"
	"fmt"

	"buildhub-state/pkg/llm"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://router.huggingface.co/v1"

// HuggingFaceProvider talks to the OpenAI-compatible router.
type HuggingFaceProvider struct {
	model  string
	client *resty.Client
}

var _ llm.LLMProvider = (*HuggingFaceProvider)(nil)

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []llm.Message `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message llm.Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewHuggingFaceProvider(apiKey, baseURL, model string) *HuggingFaceProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}
	return &HuggingFaceProvider{model: model, client: c}
}

func (p *HuggingFaceProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := llm.Apply(llm.Options{Model: p.model, MaxTokens: 500}, options...)

	var out chatResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(chatRequest{Model: opts.Model, Messages: history, MaxTokens: opts.MaxTokens}).
		SetResult(&out).
		SetError(&out).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("huggingface request failed: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("huggingface api error (status %d): %s", resp.StatusCode(), out.Error.Message)
	}
	if resp.IsError() {
		return "", fmt.Errorf("huggingface api error (status %d)", resp.StatusCode())
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("empty choices from huggingface api")
	}
	return out.Choices[0].Message.Content, nil
}

func (p *HuggingFaceProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}
