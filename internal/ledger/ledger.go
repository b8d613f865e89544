// Package ledger defines the append-only event store the bot writes to.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/sambo/internal/habit"
)

// Ledger is the append-only store of habit events.
//
// Append must be safe to call from independent processes; rows are only ever
// added. Appending an event whose ID is already stored is a no-op, so a
// caller may retry a write it is unsure about. QueryWindow returns every
// event with start <= Timestamp < end in no particular order. A read may lag
// slightly behind the latest append.
type Ledger interface {
	Append(ctx context.Context, ev habit.Event) error
	QueryWindow(ctx context.Context, start, end time.Time) ([]habit.Event, error)
}

// Error is a read or write failure of the backing store.
type Error struct {
	Op  string // "append" or "query"
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("ledger %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Wrap marks err as a ledger failure. It returns nil for a nil err and leaves
// errors that are already ledger errors untouched.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var le *Error
	if errors.As(err, &le) {
		return err
	}
	return &Error{Op: op, Err: err}
}

// IsLedgerError reports whether err came from the store.
func IsLedgerError(err error) bool {
	var le *Error
	return errors.As(err, &le)
}

// SumCounts adds up the counts of the events in one category.
func SumCounts(events []habit.Event, c habit.Category) int {
	total := 0
	for _, ev := range events {
		if ev.Category == c {
			total += ev.Count
		}
	}
	return total
}
