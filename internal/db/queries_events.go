package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chris/sambo/internal/habit"
	"github.com/chris/sambo/internal/ledger"
)

// Append inserts one event. Rows are never updated afterwards; a retry with
// an ID that is already stored leaves the table unchanged.
func (d *DB) Append(ctx context.Context, ev habit.Event) error {
	if err := ev.Validate(); err != nil {
		return ledger.Wrap("append", err)
	}
	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO events (id, category, count, cost, recorded_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		ev.ID, string(ev.Category), ev.Count, nullDecimal(ev.Cost), formatTime(ev.Timestamp),
	)
	if err != nil {
		return ledger.Wrap("append", fmt.Errorf("inserting event: %w", err))
	}
	return nil
}

// QueryWindow returns events recorded in [start, end).
func (d *DB) QueryWindow(ctx context.Context, start, end time.Time) ([]habit.Event, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT id, category, count, cost, recorded_at FROM events
		 WHERE recorded_at >= ? AND recorded_at < ?
		 ORDER BY recorded_at ASC`,
		formatTime(start), formatTime(end),
	)
	if err != nil {
		return nil, ledger.Wrap("query", fmt.Errorf("querying events: %w", err))
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, ledger.Wrap("query", err)
	}
	return events, nil
}

func scanEvents(rows *sql.Rows) ([]habit.Event, error) {
	var out []habit.Event
	for rows.Next() {
		var (
			ev       habit.Event
			category string
			cost     sql.NullString
			recorded string
		)
		if err := rows.Scan(&ev.ID, &category, &ev.Count, &cost, &recorded); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		c, err := habit.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", ev.ID, err)
		}
		ev.Category = c
		if ev.Cost, err = scanDecimal(cost); err != nil {
			return nil, fmt.Errorf("event %s: %w", ev.ID, err)
		}
		if ev.Timestamp, err = parseTime(recorded); err != nil {
			return nil, fmt.Errorf("event %s: %w", ev.ID, err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
