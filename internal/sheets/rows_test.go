package sheets

import (
	"testing"
	"time"

	"github.com/chris/sambo/internal/habit"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowRoundTrip(t *testing.T) {
	loc := time.FixedZone("MSK", 3*3600)
	cost := decimal.RequireFromString("75.5")
	ev := habit.NewEvent(habit.Sugary, 3, &cost, time.Date(2026, 10, 17, 12, 1, 2, 300, loc))

	got, err := decodeRow(encodeRow(ev))
	require.NoError(t, err)
	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, ev.Category, got.Category)
	assert.Equal(t, ev.Count, got.Count)
	require.NotNil(t, got.Cost)
	assert.True(t, got.Cost.Equal(cost))
	assert.True(t, got.Timestamp.Equal(ev.Timestamp))
}

func TestDecodeRow_UnformattedNumbers(t *testing.T) {
	// Sheets returns numeric cells as float64 and may drop trailing empty cells.
	row := []interface{}{"abc", "2026-10-17T09:00:00+03:00", "coffee", float64(2), float64(150)}
	ev, err := decodeRow(row)
	require.NoError(t, err)
	assert.Equal(t, 2, ev.Count)
	require.NotNil(t, ev.Cost)
	assert.Equal(t, "150", ev.Cost.String())

	short := []interface{}{"def", "2026-10-17T09:00:00+03:00", "qigong", float64(1)}
	ev, err = decodeRow(short)
	require.NoError(t, err)
	assert.Nil(t, ev.Cost)
}

func TestDecodeRow_Rejects(t *testing.T) {
	tests := []struct {
		name string
		row  []interface{}
	}{
		{"too short", []interface{}{"id1", "2026-10-17T09:00:00Z"}},
		{"missing id", []interface{}{"", "2026-10-17T09:00:00Z", "coffee", float64(1)}},
		{"bad timestamp", []interface{}{"id1", "yesterday", "coffee", float64(1)}},
		{"unknown category", []interface{}{"id1", "2026-10-17T09:00:00Z", "tea", float64(1)}},
		{"bad count", []interface{}{"id1", "2026-10-17T09:00:00Z", "coffee", "two"}},
		{"zero count", []interface{}{"id1", "2026-10-17T09:00:00Z", "coffee", float64(0)}},
		{"bad cost", []interface{}{"id1", "2026-10-17T09:00:00Z", "coffee", float64(1), "cheap"}},
		{"cost on routine", []interface{}{"id1", "2026-10-17T09:00:00Z", "ball", float64(1), float64(5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeRow(tt.row)
			assert.Error(t, err)
		})
	}
}

func TestIsHeader(t *testing.T) {
	assert.True(t, isHeader([]interface{}{"ID", "Timestamp"}))
	assert.False(t, isHeader([]interface{}{"abc", "2026-10-17T09:00:00Z"}))
	assert.False(t, isHeader(nil))
}

func TestTabsWithDefaults(t *testing.T) {
	tabs := tabsWithDefaults(map[habit.Kind]string{habit.KindLanguage: "Langs", habit.KindActivity: ""})
	assert.Equal(t, "Activity", tabs[habit.KindActivity])
	assert.Equal(t, "Consumption", tabs[habit.KindConsumption])
	assert.Equal(t, "Langs", tabs[habit.KindLanguage])
}
