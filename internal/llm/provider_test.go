package llm

import (
	"context"
	"errors"
	"testing"
)

func TestNewClient_Disabled(t *testing.T) {
	for _, p := range []string{"", "none"} {
		c, err := NewClient(context.Background(), ProviderConfig{Provider: p})
		if err != nil {
			t.Fatalf("NewClient(%q): %v", p, err)
		}
		_, err = c.Chat(context.Background(), SystemPrompt, []Message{{Role: "user", Content: "hi"}})
		if !errors.Is(err, ErrNoProvider) {
			t.Errorf("provider %q: expected ErrNoProvider, got %v", p, err)
		}
	}
}

func TestNewClient_Unknown(t *testing.T) {
	if _, err := NewClient(context.Background(), ProviderConfig{Provider: "palm"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewClient_OllamaDefaultModel(t *testing.T) {
	c, err := NewClient(context.Background(), ProviderConfig{Provider: "ollama", BaseURL: "http://localhost:11434/v1"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	oc, ok := c.(*OpenAIClient)
	if !ok {
		t.Fatalf("expected *OpenAIClient, got %T", c)
	}
	if oc.model != "llama3.1" {
		t.Errorf("model = %q, want llama3.1", oc.model)
	}
}

func TestNewClient_AnthropicDefaultModel(t *testing.T) {
	c, err := NewClient(context.Background(), ProviderConfig{Provider: "anthropic", APIKey: "k"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if ac := c.(*AnthropicClient); ac.model == "" {
		t.Error("expected a default model")
	}
}

func TestNewClient_GeminiNeedsKey(t *testing.T) {
	if _, err := NewClient(context.Background(), ProviderConfig{Provider: "gemini"}); err == nil {
		t.Error("expected error without an API key")
	}
}
