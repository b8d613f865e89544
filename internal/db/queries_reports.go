package db

import (
	"context"
	"database/sql"
	"fmt"
)

// SaveReport stores a weekly summary.
func (d *DB) SaveReport(ctx context.Context, summary, source string) error {
	_, err := d.conn.ExecContext(ctx,
		"INSERT INTO weekly_reports (summary, source) VALUES (?, ?)", summary, source,
	)
	if err != nil {
		return fmt.Errorf("saving weekly report: %w", err)
	}
	return nil
}

// LastReport returns the most recent weekly summary and when it was stored.
// Both are empty if no report exists yet.
func (d *DB) LastReport(ctx context.Context) (string, string, error) {
	var summary, createdAt string
	err := d.conn.QueryRowContext(ctx,
		"SELECT summary, created_at FROM weekly_reports ORDER BY id DESC LIMIT 1",
	).Scan(&summary, &createdAt)
	if err == sql.ErrNoRows {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("getting last weekly report: %w", err)
	}
	return summary, createdAt, nil
}
