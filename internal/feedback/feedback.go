// Package feedback turns a weekly aggregate into the message sent to the
// user, through a language model when one answers and locally otherwise.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chris/sambo/internal/habit"
	"github.com/chris/sambo/internal/llm"
	"github.com/chris/sambo/internal/reply"
	"github.com/chris/sambo/internal/weekly"
)

const (
	DefaultTimeout         = 45 * time.Second
	DefaultMaxPromptTokens = 2000

	// minPromptTokens keeps room for the totals when the cap is tiny.
	minPromptTokens = 64
)

// Kind classifies summarizer failures.
type Kind int

const (
	KindTransport Kind = iota + 1 // network, auth, timeout or no provider
	KindMalformed                 // empty or unusable answer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is returned by Generate.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("feedback %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrEmptyResponse is wrapped by malformed errors.
var ErrEmptyResponse = errors.New("summarizer returned no text")

// Source tells where a summary came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Summary is the weekly message. Text is never empty.
type Summary struct {
	Text   string
	Source Source
	Err    error // why the fallback was used
}

// Generator writes weekly summaries.
type Generator struct {
	Client          llm.Client
	Timeout         time.Duration
	MaxPromptTokens int
	Currency        string
}

func (g *Generator) timeout() time.Duration {
	if g.Timeout <= 0 {
		return DefaultTimeout
	}
	return g.Timeout
}

func (g *Generator) maxPromptTokens() int {
	if g.MaxPromptTokens <= 0 {
		return DefaultMaxPromptTokens
	}
	return g.MaxPromptTokens
}

// promptBudget is what is left of the request cap for the user prompt once
// the system prompt and the user message framing are counted.
func (g *Generator) promptBudget() int {
	fixed := llm.EstimateMessagesTokens([]llm.Message{
		{Role: "system", Content: llm.SystemPrompt},
		{Role: "user"},
	})
	budget := g.maxPromptTokens() - fixed
	if budget < minPromptTokens {
		budget = minPromptTokens
	}
	return budget
}

// Generate asks the summarizer for a weekly review. The whole request,
// system prompt included, fits MaxPromptTokens unless the cap leaves less
// than minPromptTokens for the prompt. The call is bounded by the
// generator's timeout.
func (g *Generator) Generate(ctx context.Context, agg weekly.Aggregate, previous string) (string, error) {
	if g.Client == nil {
		return "", &Error{Kind: KindTransport, Err: llm.ErrNoProvider}
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout())
	defer cancel()

	prompt := BuildPrompt(agg, previous, g.promptBudget(), g.Currency)
	resp, err := g.Client.Chat(ctx, llm.SystemPrompt, []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		return "", &Error{Kind: KindTransport, Err: err}
	}
	if resp == nil {
		return "", &Error{Kind: KindMalformed, Err: ErrEmptyResponse}
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", &Error{Kind: KindMalformed, Err: ErrEmptyResponse}
	}
	return text, nil
}

// Weekly always returns a summary: the model's text when Generate succeeds,
// the local fallback otherwise.
func (g *Generator) Weekly(ctx context.Context, agg weekly.Aggregate, previous string) Summary {
	text, err := g.Generate(ctx, agg, previous)
	if err != nil {
		return Summary{Text: Fallback(agg, g.Currency), Source: SourceFallback, Err: err}
	}
	return Summary{Text: text, Source: SourceModel}
}

// Fallback builds the weekly message from the aggregate alone.
func Fallback(agg weekly.Aggregate, currency string) string {
	money := reply.Composer{Currency: currency}
	var b strings.Builder
	fmt.Fprintf(&b, "🥋 Weekly summary, %s to %s\n",
		agg.Start.Format("Jan 2"), agg.LastDay().Format("Jan 2"))

	b.WriteString("\n📊 ROUTINES\n")
	for _, c := range habit.CategoriesOfKind(habit.KindActivity) {
		fmt.Fprintf(&b, "%s %s: %dx, %d/%d days\n",
			c.Icon(), c.Name(), agg.Totals[c].Count, agg.ActiveDays(c), weekly.Days)
	}

	b.WriteString("\n🍽 CONSUMPTION\n")
	for _, c := range habit.CategoriesOfKind(habit.KindConsumption) {
		t := agg.Totals[c]
		fmt.Fprintf(&b, "%s %s: %dx", c.Icon(), c.Name(), t.Count)
		if t.Cost.IsPositive() {
			fmt.Fprintf(&b, ", %s", money.FormatCost(t.Cost))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n🌍 LANGUAGES\n")
	for _, c := range habit.CategoriesOfKind(habit.KindLanguage) {
		fmt.Fprintf(&b, "%s %s: %d sessions, %d/%d days\n",
			c.Icon(), c.Name(), agg.Totals[c].Count, agg.ActiveDays(c), weekly.Days)
	}

	if total := agg.TotalCost(); total.IsPositive() {
		fmt.Fprintf(&b, "\n💰 Spent in total: %s\n", money.FormatCost(total))
	}
	if agg.Empty() {
		b.WriteString("\nNothing was logged this week. A fresh start on Monday!\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
