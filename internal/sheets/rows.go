package sheets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chris/sambo/internal/habit"
	"github.com/shopspring/decimal"
)

const (
	colID = iota
	colTimestamp
	colCategory
	colCount
	colCost
)

func encodeRow(ev habit.Event) []interface{} {
	cost := ""
	if ev.Cost != nil {
		cost = ev.Cost.String()
	}
	return []interface{}{
		ev.ID,
		ev.Timestamp.Format(time.RFC3339Nano),
		string(ev.Category),
		ev.Count,
		cost,
	}
}

func isHeader(row []interface{}) bool {
	return len(row) > 0 && strings.EqualFold(cellString(row[colID]), "id")
}

func decodeRow(row []interface{}) (habit.Event, error) {
	if len(row) < colCost {
		return habit.Event{}, fmt.Errorf("expected at least %d cells, got %d", colCost, len(row))
	}

	var ev habit.Event
	ev.ID = cellString(row[colID])
	if ev.ID == "" {
		return habit.Event{}, errors.New("missing id")
	}

	ts, err := time.Parse(time.RFC3339Nano, cellString(row[colTimestamp]))
	if err != nil {
		return habit.Event{}, fmt.Errorf("parsing timestamp: %w", err)
	}
	ev.Timestamp = ts

	if ev.Category, err = habit.ParseCategory(cellString(row[colCategory])); err != nil {
		return habit.Event{}, err
	}

	if ev.Count, err = strconv.Atoi(cellString(row[colCount])); err != nil {
		return habit.Event{}, fmt.Errorf("parsing count: %w", err)
	}

	if len(row) > colCost {
		if s := cellString(row[colCost]); s != "" {
			cost, err := decimal.NewFromString(s)
			if err != nil {
				return habit.Event{}, fmt.Errorf("parsing cost: %w", err)
			}
			ev.Cost = &cost
		}
	}

	if err := ev.Validate(); err != nil {
		return habit.Event{}, err
	}
	return ev, nil
}

// cellString normalizes a cell read with UNFORMATTED_VALUE, where numbers
// arrive as float64 and text as string.
func cellString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case int:
		return strconv.Itoa(c)
	default:
		return strings.TrimSpace(fmt.Sprint(c))
	}
}
