package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chris/sambo/internal/habit"
)

// Memory is an in-process ledger. It backs the console mode and tests.
type Memory struct {
	mu     sync.RWMutex
	events []habit.Event
	ids    map[string]struct{}
}

// NewMemory returns a ledger seeded with the given events.
func NewMemory(seed ...habit.Event) *Memory {
	m := &Memory{ids: make(map[string]struct{}, len(seed))}
	for _, ev := range seed {
		m.add(ev)
	}
	return m
}

func (m *Memory) Append(ctx context.Context, ev habit.Event) error {
	if err := ctx.Err(); err != nil {
		return Wrap("append", err)
	}
	if err := ev.Validate(); err != nil {
		return Wrap("append", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add(ev)
	return nil
}

// add stores ev unless its ID is already present. Callers hold mu.
func (m *Memory) add(ev habit.Event) {
	if _, ok := m.ids[ev.ID]; ok {
		return
	}
	m.ids[ev.ID] = struct{}{}
	m.events = append(m.events, ev)
}

func (m *Memory) QueryWindow(ctx context.Context, start, end time.Time) ([]habit.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, Wrap("query", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []habit.Event
	for _, ev := range m.events {
		if !ev.Timestamp.Before(start) && ev.Timestamp.Before(end) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// Len returns the number of stored events.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}
