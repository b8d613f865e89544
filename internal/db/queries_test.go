package db

import (
	"context"
	"testing"
	"time"

	"github.com/chris/sambo/internal/habit"
	"github.com/chris/sambo/internal/ledger"
	"github.com/shopspring/decimal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

var _ ledger.Ledger = (*DB)(nil)

// --- Events ---

func TestAppendAndQueryRoundTrip(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	loc := time.FixedZone("MSK", 3*3600)
	now := time.Date(2026, 10, 17, 8, 15, 30, 123456789, loc)
	cost := decimal.RequireFromString("150.50")
	ev := habit.NewEvent(habit.Coffee, 2, &cost, now)

	if err := d.Append(ctx, ev); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := d.QueryWindow(ctx, now.Add(-time.Minute), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("QueryWindow: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].ID != ev.ID {
		t.Errorf("expected ID %q, got %q", ev.ID, got[0].ID)
	}
	if got[0].Category != habit.Coffee {
		t.Errorf("expected category coffee, got %q", got[0].Category)
	}
	if got[0].Count != 2 {
		t.Errorf("expected count 2, got %d", got[0].Count)
	}
	if got[0].Cost == nil || !got[0].Cost.Equal(cost) {
		t.Errorf("expected cost %s, got %v", cost, got[0].Cost)
	}
	if !got[0].Timestamp.Equal(now) {
		t.Errorf("expected timestamp %s, got %s", now, got[0].Timestamp)
	}
}

func TestAppendWithoutCost(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	now := time.Now()

	if err := d.Append(ctx, habit.NewEvent(habit.Hebrew, 1, nil, now)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, err := d.QueryWindow(ctx, now.Add(-time.Second), now.Add(time.Second))
	if err != nil {
		t.Fatalf("QueryWindow: %v", err)
	}
	if len(got) != 1 || got[0].Cost != nil {
		t.Fatalf("expected one event without cost, got %+v", got)
	}
}

func TestQueryWindowBounds(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	start := time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)
	times := []time.Time{
		start.Add(-time.Nanosecond), // before
		start,                       // first instant, included
		start.Add(36 * time.Hour),   // middle
		end.Add(-time.Nanosecond),   // last instant, included
		end,                         // excluded
	}
	for _, ts := range times {
		if err := d.Append(ctx, habit.NewEvent(habit.Prayer, 1, nil, ts)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := d.QueryWindow(ctx, start, end)
	if err != nil {
		t.Fatalf("QueryWindow: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events in window, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Errorf("events not ordered by time at index %d", i)
		}
	}
}

func TestAppendInvalidEvent(t *testing.T) {
	d := openTestDB(t)
	cost := decimal.NewFromInt(10)
	err := d.Append(context.Background(), habit.Event{
		ID:        "bad",
		Timestamp: time.Now(),
		Category:  habit.Ball,
		Count:     1,
		Cost:      &cost,
	})
	if err == nil {
		t.Fatal("expected error for cost on a routine")
	}
	if !ledger.IsLedgerError(err) {
		t.Errorf("expected ledger error, got %T", err)
	}
}

func TestAppendRetryIsIdempotent(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	now := time.Now()
	cost := decimal.NewFromInt(80)
	ev := habit.NewEvent(habit.Flour, 2, &cost, now)
	for i := 0; i < 2; i++ {
		if err := d.Append(ctx, ev); err != nil {
			t.Fatalf("Append #%d: %v", i+1, err)
		}
	}
	got, err := d.QueryWindow(ctx, now.Add(-time.Minute), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("QueryWindow: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 event after retry, got %d", len(got))
	}
	if n := ledger.SumCounts(got, habit.Flour); n != 2 {
		t.Errorf("flour count = %d, want 2", n)
	}
}

func TestQueryEmptyWindow(t *testing.T) {
	d := openTestDB(t)
	got, err := d.QueryWindow(context.Background(), time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("QueryWindow: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no events, got %d", len(got))
	}
}

// --- Weekly reports ---

func TestWeeklyReports(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	summary, at, err := d.LastReport(ctx)
	if err != nil {
		t.Fatalf("LastReport: %v", err)
	}
	if summary != "" || at != "" {
		t.Errorf("expected no report, got %q at %q", summary, at)
	}

	if err := d.SaveReport(ctx, "first week", "fallback"); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if err := d.SaveReport(ctx, "second week", "model"); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	summary, at, err = d.LastReport(ctx)
	if err != nil {
		t.Fatalf("LastReport: %v", err)
	}
	if summary != "second week" {
		t.Errorf("expected %q, got %q", "second week", summary)
	}
	if at == "" {
		t.Error("expected a created_at timestamp")
	}
}
