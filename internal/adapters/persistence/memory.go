package persistence

import (
	"context"
	"sync"
)

// MemoryStore keeps persisted tables in process memory. Useful for
// tests and for running the service without a data directory.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]map[string]float64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]map[string]float64)}
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, set, track string) (map[string]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scores, ok := s.tables[set+"\x00"+track]
	if !ok {
		return nil, false, nil
	}
	out := make(map[string]float64, len(scores))
	for it, sc := range scores {
		out[it] = sc
	}
	return out, true, nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, set, track string, scores map[string]float64) error {
	cp := make(map[string]float64, len(scores))
	for it, sc := range scores {
		cp[it] = sc
	}
	s.mu.Lock()
	s.tables[set+"\x00"+track] = cp
	s.mu.Unlock()
	return nil
}
