package habit

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is one logged occurrence. Events are appended once and never changed.
type Event struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Category  Category         `json:"category"`
	Count     int              `json:"count"`
	Cost      *decimal.Decimal `json:"cost,omitempty"`
}

// NewEvent stamps a new event with a fresh id. count below 1 is raised to 1.
func NewEvent(category Category, count int, cost *decimal.Decimal, now time.Time) Event {
	if count < 1 {
		count = 1
	}
	return Event{
		ID:        uuid.NewString(),
		Timestamp: now,
		Category:  category,
		Count:     count,
		Cost:      cost,
	}
}

// Validate checks the invariants every stored event must hold.
func (e Event) Validate() error {
	if !e.Category.Valid() {
		return fmt.Errorf("unknown category %q", e.Category)
	}
	if e.Count < 1 {
		return fmt.Errorf("count must be positive, got %d", e.Count)
	}
	if e.Timestamp.IsZero() {
		return errors.New("timestamp is required")
	}
	if e.Cost != nil {
		if e.Category.Kind() != KindConsumption {
			return fmt.Errorf("cost is only allowed on consumption, not %s", e.Category)
		}
		if e.Cost.IsNegative() {
			return fmt.Errorf("cost must not be negative, got %s", e.Cost)
		}
	}
	return nil
}

// CostOrZero returns the cost, treating an absent one as zero.
func (e Event) CostOrZero() decimal.Decimal {
	if e.Cost == nil {
		return decimal.Zero
	}
	return *e.Cost
}

// DayStart returns local midnight of the day containing t.
func DayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
