package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/rankview/internal/domain/model"
)

// MemoryStore serves datasets held in memory. Both channels always exist;
// a channel without data is an empty dataset.
type MemoryStore struct {
	mu       sync.RWMutex
	datasets Dataset
}

// NewMemoryStore creates a store seeded by opts.
func NewMemoryStore(_ context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{datasets: make(Dataset, len(model.Channels()))}
	for _, ch := range model.Channels() {
		s.datasets[ch] = []model.Entry{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Entries implements Source.
func (s *MemoryStore) Entries(_ context.Context, ch model.Channel) ([]model.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.datasets[ch]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
	}
	return entries, nil
}

// Count implements Source.
func (s *MemoryStore) Count(_ context.Context, ch model.Channel) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets[ch])
}

// Find implements Source.
func (s *MemoryStore) Find(ctx context.Context, ch model.Channel, id string) (model.Entry, int, error) {
	entries, err := s.Entries(ctx, ch)
	if err != nil {
		return model.Entry{}, -1, err
	}
	for i, e := range entries {
		if e.ID == id {
			return e, i, nil
		}
	}
	return model.Entry{}, -1, fmt.Errorf("%w: %q in %s", ErrNotFound, id, ch)
}

// Replace swaps in new datasets. Channels missing from ds become empty.
func (s *MemoryStore) Replace(_ context.Context, ds Dataset) {
	next := make(Dataset, len(model.Channels()))
	for _, ch := range model.Channels() {
		if entries, ok := ds[ch]; ok && entries != nil {
			next[ch] = entries
		} else {
			next[ch] = []model.Entry{}
		}
	}

	s.mu.Lock()
	s.datasets = next
	s.mu.Unlock()
}
