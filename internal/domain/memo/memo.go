// Package memo caches derived (filtered and sorted) leaderboard lists.
package memo

import (
	"context"
	"math"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/okian/rankview/internal/domain/model"
)

// Cache maps a view key to the list derived for it.
type Cache interface {
	// Get returns the cached list for key, if any, and marks key as
	// recently used.
	Get(ctx context.Context, key model.Key) ([]model.Entry, bool)

	// Put stores entries under key and marks key as recently used.
	Put(ctx context.Context, key model.Key, entries []model.Entry)

	// Purge drops everything, e.g. after the source datasets were replaced.
	Purge(ctx context.Context)

	Size() int64
}

// inMemoryCache keeps at most maxSize lists and evicts the least recently
// used one. maxSize <= 0 disables eviction.
type inMemoryCache struct {
	mu      sync.Mutex
	lru     *simplelru.LRU[model.Key, []model.Entry]
	maxSize int
	onEvict func(model.Key)
}

// NewInMemoryCache creates a cache configured by opts.
func NewInMemoryCache(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: 64,
	}
	for _, opt := range opts {
		opt(c)
	}
	// Capacity is enforced in Put so that Purge does not count as eviction.
	l, err := simplelru.NewLRU[model.Key, []model.Entry](math.MaxInt, nil)
	if err != nil {
		panic(err) // only for a non-positive size
	}
	c.lru = l
	return c
}

func (c *inMemoryCache) Get(_ context.Context, key model.Key) ([]model.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(key)
}

func (c *inMemoryCache) Put(_ context.Context, key model.Key, entries []model.Entry) {
	var (
		evicted model.Key
		ok      bool
	)
	c.mu.Lock()
	if c.maxSize > 0 && !c.lru.Contains(key) && c.lru.Len() >= c.maxSize {
		evicted, _, ok = c.lru.RemoveOldest()
	}
	c.lru.Add(key, entries)
	c.mu.Unlock()

	if ok && c.onEvict != nil {
		c.onEvict(evicted)
	}
}

func (c *inMemoryCache) Purge(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

func (c *inMemoryCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(c.lru.Len())
}
