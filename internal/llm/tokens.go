package llm

// charsPerToken is the average number of characters per token.
// This is a rough heuristic. Real tokenizers vary, but 4 chars/token
// is a well-known approximation for English text and works well enough
// for prompt budgeting.
const charsPerToken = 4

// EstimateTokens returns a rough token count for a string.
func EstimateTokens(s string) int {
	if len(s) == 0 {
		return 0
	}
	return (len(s) + charsPerToken - 1) / charsPerToken // round up
}

// EstimateMessageTokens returns the estimated token count for a single message,
// including per-message overhead (role, framing).
func EstimateMessageTokens(m Message) int {
	return 4 + EstimateTokens(m.Content)
}

// EstimateMessagesTokens returns the total estimated tokens for a slice of messages.
func EstimateMessagesTokens(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += EstimateMessageTokens(m)
	}
	return total
}
