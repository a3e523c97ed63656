package record

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps records in memory. It backs tests and is handy for
// running the server without a database; it honors the same validation
// and listing contract as the Postgres store.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	nextID  int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// Insert validates and stores a copy of the record.
func (s *MemoryStore) Insert(_ context.Context, r *Record) error {
	r.Normalize()
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.nextID
	s.nextID++
	r.ImportedAt = time.Now()
	s.records = append(s.records, *r)
	return nil
}

// List returns one page of records sorted by date descending.
func (s *MemoryStore) List(_ context.Context, p ListParams) (*ListResult, error) {
	p = clampParams(p)

	s.mu.RLock()
	filtered := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if p.SheetName == "" || r.SheetName == p.SheetName {
			filtered = append(filtered, r)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.After(filtered[j].Date)
	})

	start := (p.Page - 1) * p.Limit
	end := start + p.Limit
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return &ListResult{
		Records:     filtered[start:end],
		TotalPages:  totalPages(int64(len(filtered)), p.Limit),
		CurrentPage: p.Page,
	}, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
