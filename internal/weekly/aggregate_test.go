package weekly

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chris/sambo/internal/habit"
	"github.com/chris/sambo/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var msk = time.FixedZone("MSK", 3*3600)

// Saturday evening, Moscow time.
var now = time.Date(2026, 10, 17, 20, 0, 0, 0, msk)

func cost(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestWindow(t *testing.T) {
	start, end := Window(now, msk)
	assert.Equal(t, time.Date(2026, 10, 11, 0, 0, 0, 0, msk), start)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, msk), end)
}

func TestBuild_EmptyWindow(t *testing.T) {
	agg := Build(nil, now, msk)

	require.Len(t, agg.Totals, len(habit.Categories()))
	for _, c := range habit.Categories() {
		total, ok := agg.Totals[c]
		require.True(t, ok, c)
		assert.Equal(t, 0, total.Count)
		assert.True(t, total.Cost.IsZero())
		assert.Equal(t, 0, agg.ActiveDays(c))
	}
	require.Len(t, agg.Days, Days)
	assert.True(t, agg.Empty())
	assert.True(t, agg.TotalCost().IsZero())
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, msk), agg.LastDay())
}

func TestBuild_SumsRepetitionCounts(t *testing.T) {
	var events []habit.Event
	want := 0
	for i := 1; i <= 6; i++ {
		events = append(events, habit.NewEvent(habit.Coffee, i, nil, now.Add(-time.Duration(i)*time.Hour)))
		want += i
	}
	agg := Build(events, now, msk)
	assert.Equal(t, want, agg.Totals[habit.Coffee].Count)
	assert.Equal(t, 0, agg.Totals[habit.Sugary].Count)
	assert.False(t, agg.Empty())
}

func TestBuild_CostsAndDays(t *testing.T) {
	events := []habit.Event{
		habit.NewEvent(habit.Coffee, 2, cost("150"), time.Date(2026, 10, 11, 0, 0, 0, 0, msk)),
		habit.NewEvent(habit.Coffee, 1, nil, time.Date(2026, 10, 11, 9, 0, 0, 0, msk)),
		habit.NewEvent(habit.Coffee, 1, cost("99.5"), time.Date(2026, 10, 17, 23, 59, 0, 0, msk)),
		habit.NewEvent(habit.QiGong, 1, nil, time.Date(2026, 10, 12, 7, 0, 0, 0, msk)),
		habit.NewEvent(habit.QiGong, 1, nil, time.Date(2026, 10, 12, 19, 0, 0, 0, msk)),
		habit.NewEvent(habit.QiGong, 1, nil, time.Date(2026, 10, 15, 7, 0, 0, 0, msk)),
		// outside the window on both sides
		habit.NewEvent(habit.Coffee, 5, cost("1000"), time.Date(2026, 10, 10, 23, 59, 0, 0, msk)),
		habit.NewEvent(habit.Coffee, 5, cost("1000"), time.Date(2026, 10, 18, 0, 0, 0, 0, msk)),
	}
	agg := Build(events, now, msk)

	coffee := agg.Totals[habit.Coffee]
	assert.Equal(t, 4, coffee.Count)
	assert.Equal(t, "249.5", coffee.Cost.String())

	assert.Equal(t, 3, agg.Totals[habit.QiGong].Count)
	assert.Equal(t, 2, agg.ActiveDays(habit.QiGong))
	assert.Equal(t, 2, agg.ActiveDays(habit.Coffee))

	assert.Equal(t, 3, agg.Days[0].Totals[habit.Coffee].Count)
	assert.Equal(t, 1, agg.Days[6].Totals[habit.Coffee].Count)
	assert.Equal(t, 2, agg.Days[1].Totals[habit.QiGong].Count)
	assert.Equal(t, 1, agg.Days[4].Totals[habit.QiGong].Count)
	assert.Equal(t, "249.5", agg.TotalCost().String())

	// Per-day sums add back up to the totals.
	for _, c := range habit.Categories() {
		sum := 0
		for _, d := range agg.Days {
			sum += d.Totals[c].Count
		}
		assert.Equal(t, agg.Totals[c].Count, sum, c)
	}
}

func TestBuild_UTCTimestampsBucketByLocalDay(t *testing.T) {
	// 21:30 UTC on the 16th is 00:30 on the 17th in Moscow.
	ev := habit.NewEvent(habit.Tatar, 1, nil, time.Date(2026, 10, 16, 21, 30, 0, 0, time.UTC))
	agg := Build([]habit.Event{ev}, now, msk)
	assert.Equal(t, 1, agg.Days[6].Totals[habit.Tatar].Count)
}

func TestAggregator_Run(t *testing.T) {
	ctx := context.Background()
	l := ledger.NewMemory(
		habit.NewEvent(habit.Flour, 2, cost("80"), now.Add(-48*time.Hour)),
		habit.NewEvent(habit.Flour, 1, nil, now.Add(-30*24*time.Hour)),
	)
	agg, err := (&Aggregator{Ledger: l, Location: msk}).Run(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, agg.Totals[habit.Flour].Count)
	assert.Equal(t, "80", agg.Totals[habit.Flour].Cost.String())
}

type brokenLedger struct{}

func (brokenLedger) Append(context.Context, habit.Event) error { return errors.New("read only") }

func (brokenLedger) QueryWindow(context.Context, time.Time, time.Time) ([]habit.Event, error) {
	return nil, errors.New("quota exceeded")
}

func TestAggregator_LedgerFailure(t *testing.T) {
	_, err := (&Aggregator{Ledger: brokenLedger{}, Location: msk}).Run(context.Background(), now)
	require.Error(t, err)
	assert.True(t, ledger.IsLedgerError(err))
}
