// Package store holds the capacity-bounded in-memory log store.
package store

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/fixora/backoffice/internal/domain"
	"github.com/fixora/backoffice/internal/ports"
)

// MemoryStore is a thread-safe record list kept newest first. It has no
// index; every read is a copy for a linear scan.
type MemoryStore struct {
	mu      sync.RWMutex
	records []domain.LogRecord
}

var _ ports.LogRepository = (*MemoryStore)(nil)

// NewMemoryStore creates a store holding initial
func NewMemoryStore(initial []domain.LogRecord) *MemoryStore {
	s := &MemoryStore{}
	s.insert(initial)
	return s
}

// Append adds records and keeps the list ordered newest first
func (s *MemoryStore) Append(ctx context.Context, records ...domain.LogRecord) error {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insert(records)
	return nil
}

// insert MUST be called with s.mu held for writing or before s is shared.
func (s *MemoryStore) insert(records []domain.LogRecord) {
	s.records = append(s.records, records...)
	sort.SliceStable(s.records, func(i, j int) bool {
		return s.records[i].Timestamp.After(s.records[j].Timestamp)
	})
}

// All returns a copy of every record, newest first
func (s *MemoryStore) All(ctx context.Context) ([]domain.LogRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.records)
	if out == nil {
		out = []domain.LogRecord{}
	}
	return out, nil
}

// FindByID retrieves a record by its ID
func (s *MemoryStore) FindByID(ctx context.Context, id string) (*domain.LogRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ID == id {
			rec := r
			return &rec, nil
		}
	}
	return nil, domain.ErrLogNotFound
}

// Count returns the number of stored records
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Trim keeps the keep most recent records
func (s *MemoryStore) Trim(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) <= keep {
		return 0, nil
	}

	removed := len(s.records) - keep
	kept := make([]domain.LogRecord, keep)
	copy(kept, s.records[:keep])
	s.records = kept

	return removed, nil
}
