package repository

import "github.com/okian/rankview/internal/domain/model"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithDataset seeds channel ch with entries.
func WithDataset(ch model.Channel, entries []model.Entry) Option {
	return func(s *MemoryStore) {
		if ch.Valid() {
			s.datasets[ch] = entries
		}
	}
}
