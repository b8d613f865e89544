package catalog

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/chris/sambo/internal/habit"
)

// Selector picks catalog entries uniformly at random from an explicit source.
type Selector struct {
	catalog *Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSelector(c *Catalog, src rand.Source) *Selector {
	return &Selector{catalog: c, rng: rand.New(src)}
}

// NewSeededSelector uses a PCG source, so a fixed seed gives a fixed sequence.
func NewSeededSelector(c *Catalog, seed uint64) *Selector {
	return NewSelector(c, rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Select returns one entry of the category.
func (s *Selector) Select(cat habit.Category) (Entry, error) {
	entries := s.catalog.byCategory[cat]
	if len(entries) == 0 {
		return Entry{}, &ConfigError{Problems: []string{fmt.Sprintf("no entries for %s", cat)}}
	}
	s.mu.Lock()
	i := s.rng.IntN(len(entries))
	s.mu.Unlock()
	return entries[i], nil
}
