package llm

import "strings"

// Section is one titled block of a prompt.
type Section struct {
	Title string
	Body  string
}

func (s Section) render() string {
	if s.Title == "" {
		return s.Body
	}
	return "## " + s.Title + "\n" + s.Body
}

// TrimSections joins prompt sections into one prompt that fits a token budget.
//
// Sections must be ordered from most to least significant.
//
// Strategy:
//  1. Always keep the first section.
//  2. Drop sections from the end until the rest fits.
//  3. If the first section alone is still over budget, cut it to the budget.
//
// It returns the prompt and how many sections were dropped.
func TrimSections(sections []Section, maxTokens int) (string, int) {
	if len(sections) == 0 {
		return "", 0
	}

	rendered := make([]string, len(sections))
	for i, s := range sections {
		rendered[i] = s.render()
	}

	keep := len(rendered)
	for keep > 1 && EstimateTokens(strings.Join(rendered[:keep], "\n\n")) > maxTokens {
		keep--
	}
	prompt := strings.Join(rendered[:keep], "\n\n")
	dropped := len(rendered) - keep

	if EstimateTokens(prompt) > maxTokens {
		prompt = truncateToTokens(prompt, maxTokens)
	}
	return prompt, dropped
}

// truncateToTokens cuts s to at most maxTokens estimated tokens without
// splitting a UTF-8 sequence.
func truncateToTokens(s string, maxTokens int) string {
	limit := maxTokens * charsPerToken
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
