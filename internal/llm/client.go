package llm

import (
	"context"
	"errors"
)

// ErrNoProvider is returned by the client used when no model is configured.
var ErrNoProvider = errors.New("no LLM provider configured")

type Message struct {
	Role    string `json:"role"` // user, assistant
	Content string `json:"content,omitempty"`
}

type Response struct {
	Content string
}

type Client interface {
	Chat(ctx context.Context, systemPrompt string, messages []Message) (*Response, error)
}

// disabledClient answers every call with ErrNoProvider.
type disabledClient struct{}

func (disabledClient) Chat(context.Context, string, []Message) (*Response, error) {
	return nil, ErrNoProvider
}
