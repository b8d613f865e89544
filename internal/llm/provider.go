package llm

import (
	"context"
	"fmt"
)

type ProviderConfig struct {
	Provider  string // anthropic, openai, ollama, gemini, none
	APIKey    string
	AuthToken string // OAuth token (Bearer auth), Anthropic only
	Model     string
	BaseURL   string
}

func NewClient(ctx context.Context, cfg ProviderConfig) (Client, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicClient(cfg.APIKey, cfg.AuthToken, cfg.Model), nil
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, ""), nil
	case "ollama":
		if cfg.Model == "" {
			cfg.Model = "llama3.1"
		}
		return NewOpenAIClient("ollama", cfg.Model, cfg.BaseURL), nil
	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	case "none", "":
		return disabledClient{}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
