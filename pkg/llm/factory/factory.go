package factory

import (
	"fmt"

	"buildhub-state/pkg/llm"
	"buildhub-state/pkg/llm/huggingface"
	"buildhub-state/pkg/llm/ollama"
)

// Config selects and configures a chat backend.
type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

// NewLLMProvider returns nil, nil for provider "none": the assistant then
// answers from canned replies only.
func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewOllamaProvider(cfg.BaseURL, cfg.Model), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
