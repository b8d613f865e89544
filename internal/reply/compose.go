// Package reply builds the messages the bot sends back and delivers them.
package reply

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chris/sambo/internal/catalog"
	"github.com/chris/sambo/internal/command"
	"github.com/chris/sambo/internal/habit"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const (
	notUnderstoodText = "❓ Not understood. Send /help for the list of commands."
	ledgerFailureText = "⚠️ Could not record that. Nothing was saved, please try again."
	accessDeniedText  = "🔒 Access denied."
)

// Payload is one reply: an optional image sent first, then the text.
type Payload struct {
	Image string // path on disk, empty for text-only replies
	Text  string
}

// HasImage reports whether the reply starts with an image.
func (p Payload) HasImage() bool { return p.Image != "" }

// Composer renders replies for recorded commands.
type Composer struct {
	Currency  string // label after costs, e.g. "rub"
	ImagesDir string // where catalog images live; empty disables images
}

// Compose renders the reply for a recorded command. totalToday already
// includes the units of cmd.
func (c Composer) Compose(cmd command.Command, entry catalog.Entry, totalToday int) Payload {
	var b strings.Builder
	fmt.Fprintf(&b, "✓ %s x%d recorded", cmd.Category.Name(), cmd.Count)
	switch cmd.Category.Kind() {
	case habit.KindConsumption:
		if cmd.Cost != nil && cmd.Cost.IsPositive() {
			fmt.Fprintf(&b, " (%s)", c.FormatCost(*cmd.Cost))
		}
	case habit.KindLanguage:
		fmt.Fprintf(&b, " (%s session today)", humanize.Ordinal(totalToday))
	}
	fmt.Fprintf(&b, ". Total today: %d", totalToday)

	icon := cmd.Category.Icon()
	for _, t := range entry.Texts {
		b.WriteString("\n")
		b.WriteString(icon)
		b.WriteString(" ")
		b.WriteString(t.Text)
	}

	p := Payload{Text: b.String()}
	if entry.Image != "" && c.ImagesDir != "" {
		p.Image = filepath.Join(c.ImagesDir, entry.Image)
	}
	return p
}

// FormatCost renders an amount with thousands separators and the currency
// label, rounded to two places without going through float64.
func (c Composer) FormatCost(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	s := sign + humanize.BigComma(d.BigInt())
	if frac := d.Sub(d.Truncate(0)); !frac.IsZero() {
		s += strings.TrimPrefix(frac.String(), "0")
	}
	if c.Currency == "" {
		return s
	}
	return s + " " + c.Currency
}

// NotUnderstood is the single reply for input that is not a command.
func NotUnderstood() Payload { return Payload{Text: notUnderstoodText} }

// LedgerFailure is the reply when the ledger could not be read or written.
func LedgerFailure() Payload { return Payload{Text: ledgerFailureText} }

// AccessDenied is sent to anyone but the owner.
func AccessDenied() Payload { return Payload{Text: accessDeniedText} }

// Help lists the commands.
func Help() Payload {
	var b strings.Builder
	b.WriteString("🥋 Sambo Habit Tracker\n\n📊 ROUTINES:\n")
	for _, c := range habit.CategoriesOfKind(habit.KindActivity) {
		fmt.Fprintf(&b, "%s - %s %s\n", c.Token(), c.Icon(), c.Name())
	}
	b.WriteString("\n🍽 CONSUMPTION (repeat the letter, optional cost):\n")
	for _, c := range habit.CategoriesOfKind(habit.KindConsumption) {
		t := c.Token()
		fmt.Fprintf(&b, "%s, %s, %s - %s %s\n", t, t+t, t+t+t, c.Icon(), c.Name())
	}
	b.WriteString("Example: \"xx 150\" = 2 coffees for 150\n")
	b.WriteString("\n🌍 LANGUAGES:\n")
	for _, c := range habit.CategoriesOfKind(habit.KindLanguage) {
		fmt.Fprintf(&b, "%s - %s %s session\n", c.Token(), c.Icon(), c.Name())
	}
	b.WriteString("\nSend /help to see this again.")
	return Payload{Text: b.String()}
}
