package feedback

import (
	"fmt"
	"strings"

	"github.com/chris/sambo/internal/habit"
	"github.com/chris/sambo/internal/llm"
	"github.com/chris/sambo/internal/reply"
	"github.com/chris/sambo/internal/weekly"
)

const dateLayout = "Mon 2006-01-02"

// BuildPrompt renders the aggregate as prompt sections, most significant
// first, and trims them to maxTokens. Category totals always survive; the
// previous summary and the per-day breakdown go first.
func BuildPrompt(agg weekly.Aggregate, previous string, maxTokens int, currency string) string {
	prompt, _ := llm.TrimSections(Sections(agg, previous, currency), maxTokens)
	return prompt
}

// Sections returns the untrimmed prompt sections.
func Sections(agg weekly.Aggregate, previous, currency string) []llm.Section {
	money := reply.Composer{Currency: currency}
	sections := []llm.Section{
		{Title: "Totals", Body: totalsSection(agg, money)},
		{Title: "Consistency", Body: consistencySection(agg)},
		{Title: "Per day", Body: daysSection(agg)},
	}
	if p := strings.TrimSpace(previous); p != "" {
		sections = append(sections, llm.Section{Title: "Previous summary", Body: p})
	}
	return sections
}

func totalsSection(agg weekly.Aggregate, money reply.Composer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Window: %s to %s (%d days)\n",
		agg.Start.Format(dateLayout), agg.LastDay().Format(dateLayout), weekly.Days)
	for _, c := range habit.Categories() {
		t := agg.Totals[c]
		fmt.Fprintf(&b, "- %s (%s): %d", c.Name(), c.Kind(), t.Count)
		if c.Kind() == habit.KindConsumption && t.Cost.IsPositive() {
			fmt.Fprintf(&b, ", spent %s", money.FormatCost(t.Cost))
		}
		b.WriteString("\n")
	}
	if total := agg.TotalCost(); total.IsPositive() {
		fmt.Fprintf(&b, "Spent in total: %s\n", money.FormatCost(total))
	}
	return strings.TrimRight(b.String(), "\n")
}

func consistencySection(agg weekly.Aggregate) string {
	var b strings.Builder
	for _, c := range habit.Categories() {
		if c.Kind() == habit.KindConsumption {
			continue
		}
		fmt.Fprintf(&b, "- %s: %d of %d days\n", c.Name(), agg.ActiveDays(c), weekly.Days)
	}
	return strings.TrimRight(b.String(), "\n")
}

func daysSection(agg weekly.Aggregate) string {
	var b strings.Builder
	for _, d := range agg.Days {
		b.WriteString(d.Date.Format(dateLayout))
		b.WriteString(": ")
		var parts []string
		for _, c := range habit.Categories() {
			if n := d.Totals[c].Count; n > 0 {
				parts = append(parts, fmt.Sprintf("%s %d", c.Name(), n))
			}
		}
		if len(parts) == 0 {
			b.WriteString("nothing logged")
		} else {
			b.WriteString(strings.Join(parts, ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
