package storage

import (
	"context"
	"sync"
)

// MemoryStore is the in-process fallback store. It is append-only, safe for
// concurrent writers, and its contents do not survive a process restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore creates an empty fallback store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Insert appends a record. It preserves call order within the process.
func (s *MemoryStore) Insert(_ context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()

	return nil
}

// Find returns matching records newest-first (reverse insertion order),
// capped at limit. A limit <= 0 returns nothing.
func (s *MemoryStore) Find(_ context.Context, filter Filter, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		if filter.Matches(s.records[i]) {
			out = append(out, s.records[i])
		}
	}

	return out, nil
}

// Len returns the number of stored records
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
