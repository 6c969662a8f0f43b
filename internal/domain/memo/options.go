package memo

import "github.com/okian/rankview/internal/domain/model"

// Option applies a configuration option to the in-memory cache.
type Option func(*inMemoryCache)

// WithMaxSize sets how many derived lists are kept.
// If maxSize > 0 the least recently used list is evicted once the cache is full.
// If maxSize <= 0 the cache grows without bound.
func WithMaxSize(maxSize int) Option {
	return func(c *inMemoryCache) {
		c.maxSize = maxSize
	}
}

// WithEvictionHook registers fn to run for every key evicted to make room.
// fn runs after the cache lock is released. Purge does not call it.
func WithEvictionHook(fn func(model.Key)) Option {
	return func(c *inMemoryCache) {
		c.onEvict = fn
	}
}
