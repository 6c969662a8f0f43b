package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/rankview/internal/adapters/repository"
	"github.com/okian/rankview/internal/domain/filter"
	"github.com/okian/rankview/internal/domain/memo"
	"github.com/okian/rankview/internal/domain/model"
	"github.com/okian/rankview/internal/domain/sorting"
	"github.com/okian/rankview/pkg/logger"
	"github.com/okian/rankview/pkg/metrics"
)

// Derived is the filtered and sorted list for one view key.
type Derived struct {
	Entries []model.Entry // read-only; shared through the memo cache
	Total   int           // unfiltered size of the dataset
}

// Pipeline runs select -> filter -> sort and memoizes the result per key.
// It is safe for concurrent use when its cache is.
type Pipeline struct {
	source  repository.Source
	cache   memo.Cache
	metrics *metrics.Manager
	logger  logger.Logger

	// generation advances on Invalidate; lists derived from an older
	// generation are returned but not cached.
	genMu      sync.RWMutex
	generation uint64
}

// PipelineOption applies a configuration option to the Pipeline.
type PipelineOption func(*Pipeline)

// WithCache replaces the default memo cache.
func WithCache(c memo.Cache) PipelineOption {
	return func(p *Pipeline) {
		if c != nil {
			p.cache = c
		}
	}
}

// WithPipelineMetrics records pipeline activity on m.
func WithPipelineMetrics(m *metrics.Manager) PipelineOption {
	return func(p *Pipeline) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithPipelineLogger sets the logger used for derivation failures.
func WithPipelineLogger(l logger.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline creates a pipeline reading from source.
func NewPipeline(source repository.Source, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		source:  source,
		metrics: metrics.Default(),
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cache == nil {
		p.cache = memo.NewInMemoryCache(memo.WithEvictionHook(func(model.Key) {
			p.metrics.RecordMemoEviction()
		}))
	}
	return p
}

// Derive returns the list for key, computing it at most once per cache
// lifetime. Scroll state never reaches here.
func (p *Pipeline) Derive(ctx context.Context, key model.Key) (Derived, error) {
	gen := p.currentGeneration()
	entries, err := p.source.Entries(ctx, key.Dataset)
	if err != nil {
		p.metrics.RecordError("pipeline", "source")
		p.logger.Error(ctx, "select dataset failed",
			logger.String("dataset", key.Dataset.String()),
			logger.Error(err),
		)
		return Derived{}, fmt.Errorf("derive %s: %w", key.Dataset, err)
	}

	// A hit is only valid if no swap happened since entries were read;
	// otherwise the list may belong to the other dataset version.
	if cached, ok := p.cache.Get(ctx, key); ok && p.currentGeneration() == gen {
		p.metrics.RecordMemoHit()
		return Derived{Entries: cached, Total: len(entries)}, nil
	}
	p.metrics.RecordMemoMiss()

	start := time.Now()
	filtered := filter.Apply(entries, key.Query)
	sorted := sorting.Apply(filtered, key.Column, key.Direction)
	if sorted == nil {
		sorted = []model.Entry{}
	}
	p.metrics.RecordPipelineRun(key.Dataset.String(), float64(time.Since(start).Microseconds())/1000)
	if key.Query != "" {
		p.metrics.RecordFilterMatch(len(filtered), len(entries))
	}

	p.logger.Debug(ctx, "derived list",
		logger.String("dataset", key.Dataset.String()),
		logger.String("query", key.Query),
		logger.String("column", key.Column.String()),
		logger.String("direction", key.Direction.String()),
		logger.Int("matches", len(sorted)),
		logger.Duration("took", time.Since(start)),
	)

	p.genMu.RLock()
	if p.generation == gen {
		p.cache.Put(ctx, key, sorted)
	}
	p.genMu.RUnlock()
	return Derived{Entries: sorted, Total: len(entries)}, nil
}

// Warm derives key for its side effect of filling the cache.
func (p *Pipeline) Warm(ctx context.Context, key model.Key) error {
	_, err := p.Derive(ctx, key)
	return err
}

// Invalidate drops every memoized list.
func (p *Pipeline) Invalidate(ctx context.Context) {
	p.Swap(ctx, nil)
}

// Swap runs replace, which swaps the source data, and drops every memoized
// list in one step. Derivations that overlap the swap are returned but never
// cached, and never mix a list from one data version with the other.
func (p *Pipeline) Swap(ctx context.Context, replace func()) {
	p.genMu.Lock()
	defer p.genMu.Unlock()
	if replace != nil {
		replace()
	}
	p.generation++
	p.cache.Purge(ctx)
}

func (p *Pipeline) currentGeneration() uint64 {
	p.genMu.RLock()
	defer p.genMu.RUnlock()
	return p.generation
}

// CacheSize reports how many derived lists are memoized.
func (p *Pipeline) CacheSize() int64 {
	return p.cache.Size()
}
