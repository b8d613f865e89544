// Package sheets stores the ledger in a Google Sheets spreadsheet.
//
// Each category kind has its own tab. Every event is one row:
//
//	id | timestamp (RFC 3339) | category | count | cost
//
// Rows are only ever appended with INSERT_ROWS, so concurrent writers never
// overwrite each other. A retried append may add a second row for the same
// id; reads keep the first. Reads fetch all tabs in a single BatchGet and filter
// by time locally; the sheet is personal scale.
package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/sambo/internal/habit"
	"github.com/chris/sambo/internal/ledger"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// DefaultTabs are the tab names used when Config.Tabs leaves a kind out.
var DefaultTabs = map[habit.Kind]string{
	habit.KindActivity:    "Activity",
	habit.KindConsumption: "Consumption",
	habit.KindLanguage:    "Language",
}

type Config struct {
	SpreadsheetID   string
	CredentialsJSON []byte
	Tabs            map[habit.Kind]string
}

// Ledger implements ledger.Ledger on top of the Sheets values API.
type Ledger struct {
	values *gsheets.SpreadsheetsValuesService
	id     string
	tabs   map[habit.Kind]string
	logger *zap.Logger
}

var _ ledger.Ledger = (*Ledger)(nil)

func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Ledger, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id is required")
	}
	if len(cfg.CredentialsJSON) == 0 {
		return nil, fmt.Errorf("sheets: service account credentials are required")
	}
	return newLedger(ctx, cfg, logger,
		option.WithCredentialsJSON(cfg.CredentialsJSON),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
}

func newLedger(ctx context.Context, cfg Config, logger *zap.Logger, opts ...option.ClientOption) (*Ledger, error) {
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: creating service: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		values: svc.Spreadsheets.Values,
		id:     cfg.SpreadsheetID,
		tabs:   tabsWithDefaults(cfg.Tabs),
		logger: logger.Named("sheets"),
	}, nil
}

func tabsWithDefaults(tabs map[habit.Kind]string) map[habit.Kind]string {
	out := make(map[habit.Kind]string, len(DefaultTabs))
	for k, v := range DefaultTabs {
		out[k] = v
	}
	for k, v := range tabs {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

func (l *Ledger) Append(ctx context.Context, ev habit.Event) error {
	if err := ev.Validate(); err != nil {
		return ledger.Wrap("append", err)
	}
	tab := l.tabs[ev.Category.Kind()]
	vr := &gsheets.ValueRange{Values: [][]interface{}{encodeRow(ev)}}
	_, err := l.values.Append(l.id, tab+"!A:E", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return ledger.Wrap("append", fmt.Errorf("appending row to %s: %w", tab, err))
	}
	return nil
}

func (l *Ledger) QueryWindow(ctx context.Context, start, end time.Time) ([]habit.Event, error) {
	kinds := []habit.Kind{habit.KindActivity, habit.KindConsumption, habit.KindLanguage}
	ranges := make([]string, len(kinds))
	for i, k := range kinds {
		ranges[i] = l.tabs[k] + "!A:E"
	}

	resp, err := l.values.BatchGet(l.id).
		Ranges(ranges...).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, ledger.Wrap("query", fmt.Errorf("reading rows: %w", err))
	}

	var out []habit.Event
	seen := make(map[string]bool)
	for _, vr := range resp.ValueRanges {
		for i, row := range vr.Values {
			if isHeader(row) {
				continue
			}
			ev, err := decodeRow(row)
			if err != nil {
				l.logger.Warn("skipping unreadable row",
					zap.String("range", vr.Range), zap.Int("row", i+1), zap.Error(err))
				continue
			}
			// A retried append can leave the same event on two rows.
			if seen[ev.ID] {
				continue
			}
			seen[ev.ID] = true
			if !ev.Timestamp.Before(start) && ev.Timestamp.Before(end) {
				out = append(out, ev)
			}
		}
	}
	return out, nil
}
