package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	anthoption "github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 1024

type AnthropicClient struct {
	client anthropic.Client
	model  string
}

func NewAnthropicClient(apiKey, authToken, model string) *AnthropicClient {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	opts := []anthoption.RequestOption{
		anthoption.WithHeader("User-Agent", "sambo/1.0"),
	}
	if authToken != "" {
		opts = append(opts,
			anthoption.WithAuthToken(authToken),
			anthoption.WithHeader("anthropic-beta", "oauth-2025-04-20"),
		)
	} else if apiKey != "" {
		opts = append(opts, anthoption.WithAPIKey(apiKey))
	}
	return &AnthropicClient{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (c *AnthropicClient) Chat(ctx context.Context, systemPrompt string, messages []Message) (*Response, error) {
	var msgs []anthropic.MessageParam
	for _, m := range messages {
		switch m.Role {
		case "user":
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case "assistant":
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: anthropicMaxTokens,
		Messages:  msgs,
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic chat: %w", err)
	}

	result := &Response{}
	for _, block := range resp.Content {
		if block.Type == "text" {
			result.Content += block.Text
		}
	}
	return result, nil
}
