// Package weekly sums the last seven days of the ledger.
package weekly

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/sambo/internal/habit"
	"github.com/chris/sambo/internal/ledger"
	"github.com/shopspring/decimal"
)

// Days is the length of the window, including the aggregation day.
const Days = 7

// Total is the count and cost of one category.
type Total struct {
	Count int
	Cost  decimal.Decimal
}

// Day holds the non-zero totals of one calendar day.
type Day struct {
	Date   time.Time // local midnight
	Totals map[habit.Category]Total
}

// Aggregate is derived from the ledger on every run and never stored.
type Aggregate struct {
	Start  time.Time // midnight six days before the aggregation day
	End    time.Time // midnight after the aggregation day, exclusive
	Totals map[habit.Category]Total
	Days   []Day // Days entries, oldest first
}

// Window returns the half-open range covering the seven calendar days that
// end with the day containing now.
func Window(now time.Time, loc *time.Location) (start, end time.Time) {
	today := habit.DayStart(now, loc)
	return today.AddDate(0, 0, -(Days - 1)), today.AddDate(0, 0, 1)
}

// Build groups events by category and by day. Events outside the window are
// ignored and an absent cost counts as zero.
func Build(events []habit.Event, now time.Time, loc *time.Location) Aggregate {
	start, end := Window(now, loc)
	agg := Aggregate{
		Start:  start,
		End:    end,
		Totals: make(map[habit.Category]Total, len(habit.Categories())),
		Days:   make([]Day, Days),
	}
	for _, c := range habit.Categories() {
		agg.Totals[c] = Total{Cost: decimal.Zero}
	}
	for i := range agg.Days {
		agg.Days[i] = Day{
			Date:   start.AddDate(0, 0, i),
			Totals: map[habit.Category]Total{},
		}
	}

	for _, ev := range events {
		if ev.Timestamp.Before(start) || !ev.Timestamp.Before(end) {
			continue
		}
		if !ev.Category.Valid() {
			continue
		}
		agg.Totals[ev.Category] = agg.Totals[ev.Category].add(ev)

		i := dayIndex(start, ev.Timestamp, loc)
		if i < 0 || i >= Days {
			continue
		}
		day := agg.Days[i]
		day.Totals[ev.Category] = day.Totals[ev.Category].add(ev)
	}
	return agg
}

func (t Total) add(ev habit.Event) Total {
	return Total{Count: t.Count + ev.Count, Cost: t.Cost.Add(ev.CostOrZero())}
}

// dayIndex counts calendar days rather than 24h spans, so DST shifts do not
// move events between buckets.
func dayIndex(start, ts time.Time, loc *time.Location) int {
	d := habit.DayStart(ts, loc)
	i := 0
	for day := start; day.Before(d); day = day.AddDate(0, 0, 1) {
		i++
	}
	return i
}

// ActiveDays returns how many days of the window have at least one unit of c.
func (a Aggregate) ActiveDays(c habit.Category) int {
	n := 0
	for _, d := range a.Days {
		if d.Totals[c].Count > 0 {
			n++
		}
	}
	return n
}

// TotalCost sums the cost of all categories.
func (a Aggregate) TotalCost() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range a.Totals {
		sum = sum.Add(t.Cost)
	}
	return sum
}

// Empty reports whether nothing was logged in the window.
func (a Aggregate) Empty() bool {
	for _, t := range a.Totals {
		if t.Count > 0 {
			return false
		}
	}
	return true
}

// LastDay returns the aggregation day itself.
func (a Aggregate) LastDay() time.Time {
	return a.End.AddDate(0, 0, -1)
}

// Aggregator reads the ledger and builds the weekly aggregate.
type Aggregator struct {
	Ledger   ledger.Ledger
	Location *time.Location
}

// Run aggregates the window ending today. An empty ledger gives an all-zero
// aggregate; only store failures are errors.
func (a *Aggregator) Run(ctx context.Context, now time.Time) (Aggregate, error) {
	loc := a.Location
	if loc == nil {
		loc = time.Local
	}
	start, end := Window(now, loc)
	events, err := a.Ledger.QueryWindow(ctx, start, end)
	if err != nil {
		return Aggregate{}, fmt.Errorf("aggregating week: %w", ledger.Wrap("query", err))
	}
	return Build(events, now, loc), nil
}
