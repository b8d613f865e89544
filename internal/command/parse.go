// Package command turns the short chat commands into structured habit commands.
//
// Three grammars are accepted:
//
//	1 .. 5          a daily routine, logged once per message
//	x[x..] [cost]   consumption: the run length is the count, cost is optional
//	ch | he | ta    a language session
//
// Anything else is rejected. There is no tolerant parsing: trailing words,
// mixed letters or negative amounts all make the command unrecognized.
package command

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/chris/sambo/internal/habit"
	"github.com/shopspring/decimal"
)

// MaxRun is the longest run of consumption letters accepted in one message.
const MaxRun = 20

// ErrUnrecognized matches every ParseError.
var ErrUnrecognized = errors.New("unrecognized command")

// ParseError explains why some input was not a command.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognized command %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Is(target error) bool { return target == ErrUnrecognized }

// Command is a recognized command, ready to be logged.
type Command struct {
	Category habit.Category
	Count    int
	Cost     *decimal.Decimal
}

var costPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// Parse interprets one chat message.
func Parse(text string) (Command, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		return Command{}, &ParseError{Input: text, Reason: "empty"}
	}
	lower := strings.ToLower(input)

	if c, ok := habit.ByToken(lower); ok {
		switch c.Kind() {
		case habit.KindActivity, habit.KindLanguage:
			return Command{Category: c, Count: 1}, nil
		}
	}

	return parseConsumption(input, lower)
}

func parseConsumption(input, lower string) (Command, error) {
	letter := lower[:1]
	c, ok := habit.ByToken(letter)
	if !ok || c.Kind() != habit.KindConsumption {
		return Command{}, &ParseError{Input: input, Reason: "no matching command"}
	}

	run := len(lower) - len(strings.TrimLeft(lower, letter))
	if run > MaxRun {
		return Command{}, &ParseError{Input: input, Reason: fmt.Sprintf("more than %d units in one message", MaxRun)}
	}
	cmd := Command{Category: c, Count: run}

	rest := lower[run:]
	if rest == "" {
		return cmd, nil
	}
	if rest[0] != ' ' && rest[0] != '\t' {
		return Command{}, &ParseError{Input: input, Reason: "unexpected characters after " + letter}
	}

	amount := strings.TrimSpace(rest)
	if !costPattern.MatchString(amount) {
		return Command{}, &ParseError{Input: input, Reason: fmt.Sprintf("invalid cost %q", amount)}
	}
	cost, err := decimal.NewFromString(amount)
	if err != nil {
		return Command{}, &ParseError{Input: input, Reason: fmt.Sprintf("invalid cost %q", amount)}
	}
	cmd.Cost = &cost
	return cmd, nil
}

// String renders the command back in its canonical short form.
func (c Command) String() string {
	switch c.Category.Kind() {
	case habit.KindConsumption:
		s := strings.Repeat(c.Category.Token(), c.Count)
		if c.Cost != nil {
			s += " " + c.Cost.String()
		}
		return s
	default:
		return c.Category.Token()
	}
}
