package progress

import (
	"sync"

	"github.com/vovakirdan/orb-runner/internal/level"
)

// MemoryStore is an in-process progress store. It backs headless runs and
// tests, and is what a session falls back to when the database is unavailable.
type MemoryStore struct {
	mu     sync.Mutex
	totals Totals
	bests  map[string]LevelBest
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bests: make(map[string]LevelBest)}
}

// RecordAttempt counts one started run.
func (m *MemoryStore) RecordAttempt() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals.Attempts++
	return nil
}

// CompleteLevel merges a completed run into the level's best and adds the
// positive delta to lifetime totals.
func (m *MemoryStore) CompleteLevel(desc level.Descriptor, runes, crystals, fragments, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := desc.Key()
	prev := m.bests[key]
	prev.Key = key

	next, delta := Merge(prev, Counts{Runes: runes, Crystals: crystals, Fragments: fragments}, score)
	m.bests[key] = next
	m.totals.Completions++
	m.totals.Items = m.totals.Items.Add(delta)
	return nil
}

// Totals returns the lifetime aggregates.
func (m *MemoryStore) Totals() Totals {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals
}

// LevelBests returns a copy of the per-level bests keyed by level key.
func (m *MemoryStore) LevelBests() map[string]LevelBest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]LevelBest, len(m.bests))
	for k, v := range m.bests {
		out[k] = v
	}
	return out
}
