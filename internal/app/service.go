// Package service wires the leaderboard view engine to its data source and
// exposes it to the HTTP and terminal surfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/okian/rankview/internal/adapters/mq/queue"
	"github.com/okian/rankview/internal/adapters/mq/worker"
	"github.com/okian/rankview/internal/adapters/repository"
	"github.com/okian/rankview/internal/domain/memo"
	"github.com/okian/rankview/internal/domain/model"
	"github.com/okian/rankview/internal/domain/types"
	"github.com/okian/rankview/pkg/logger"
	"github.com/okian/rankview/pkg/metrics"
)

// Service owns the dataset source and the shared memoized pipeline, and
// hands out views configured with the process-wide geometry.
type Service struct {
	mu sync.RWMutex

	// Core components
	source   repository.Source
	store    *repository.MemoryStore // set when the service owns a reloadable store
	pipeline *Pipeline

	// Memo warm-up
	warmupWorkers int
	warmQueue     *queue.InMemoryQueue
	warmPool      *worker.Pool
	warmCancel    context.CancelFunc

	// Configuration
	dataFile          string
	memoSize          int
	rowHeight         int
	overscan          int
	viewportHeight    int
	maxViewportHeight int
	hotStreak         int
	defaultChannel    model.Channel

	started bool

	logger  logger.Logger
	metrics *metrics.Manager
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource serves datasets from src. Reload is unavailable unless src is a
// *repository.MemoryStore and a data file is configured.
func WithSource(src repository.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
			if ms, ok := src.(*repository.MemoryStore); ok {
				s.store = ms
			}
		}
	}
}

// WithDataFile loads datasets from the JSON document at path on Start and
// on every Reload.
func WithDataFile(path string) Option {
	return func(s *Service) {
		s.dataFile = path
	}
}

// WithMemoSize bounds the derived-list cache. Zero disables eviction.
func WithMemoSize(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.memoSize = n
		}
	}
}

// WithGeometry sets row height and overscan for every view.
func WithGeometry(rowHeight, overscan int) Option {
	return func(s *Service) {
		if rowHeight > 0 {
			s.rowHeight = rowHeight
		}
		if overscan >= 0 {
			s.overscan = overscan
		}
	}
}

// WithViewport sets the default and maximum container heights.
func WithViewport(height, maxHeight int) Option {
	return func(s *Service) {
		if height >= 0 {
			s.viewportHeight = height
		}
		if maxHeight >= height {
			s.maxViewportHeight = maxHeight
		}
	}
}

// WithHotStreak sets the streak that earns the hot-streak badge.
func WithHotStreak(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.hotStreak = n
		}
	}
}

// WithDefaultChannel sets the dataset used when a request names none.
func WithDefaultChannel(ch model.Channel) Option {
	return func(s *Service) {
		if ch.Valid() {
			s.defaultChannel = ch
		}
	}
}

// WithWarmupWorkers precomputes the unfiltered lists of every dataset and
// sort order with n background workers after Start and Reload. Zero
// disables warm-up.
func WithWarmupWorkers(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.warmupWorkers = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records service activity on m instead of the default manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		memoSize:          64,
		rowHeight:         DefaultRowHeight,
		overscan:          DefaultOverscan,
		viewportHeight:    DefaultViewportHeight,
		maxViewportHeight: 10_000,
		hotStreak:         types.DefaultHotStreak,
		defaultChannel:    model.DefaultChannel,
		metrics:           metrics.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the datasets and builds the shared pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting leaderboard service...")

	if s.source == nil {
		store, err := s.openStore(ctx)
		if err != nil {
			s.logger.Error(ctx, "failed to load datasets", logger.Error(err))
			return err
		}
		s.source, s.store = store, store
	}

	cache := memo.NewInMemoryCache(
		memo.WithMaxSize(s.memoSize),
		memo.WithEvictionHook(func(model.Key) { s.metrics.RecordMemoEviction() }),
	)
	s.pipeline = NewPipeline(s.source,
		WithCache(cache),
		WithPipelineMetrics(s.metrics),
		WithPipelineLogger(s.logger.Named("pipeline")),
	)
	s.started = true
	s.recordDatasetSizes(ctx)
	if s.warmupWorkers > 0 {
		s.startWarmup(ctx)
	}

	s.logger.Info(ctx, "leaderboard service started",
		logger.String("dataFile", s.dataFile),
		logger.Int("memoSize", s.memoSize),
		logger.Int("rowHeight", s.rowHeight),
		logger.Int("overscan", s.overscan),
		logger.Int("ranked", s.source.Count(ctx, model.ChannelRanked)),
		logger.Int("vanilla", s.source.Count(ctx, model.ChannelVanilla)),
	)
	return nil
}

func (s *Service) openStore(ctx context.Context) (*repository.MemoryStore, error) {
	if s.dataFile == "" {
		return repository.NewMemoryStore(ctx), nil
	}
	return repository.LoadFile(ctx, s.dataFile)
}

// Stop releases the pipeline. Views created earlier keep working on the
// lists they already hold.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping leaderboard service...")
	s.stopWarmup()
	s.pipeline.Invalidate(context.Background())
	s.pipeline = nil
	s.started = false
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

// Reload re-reads the data file and swaps in the new datasets. Memoized
// lists are dropped; open views pick up the new data on their next
// non-scroll action.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if s.store == nil || s.dataFile == "" {
		return ErrReloadUnsupported
	}

	data, err := os.ReadFile(s.dataFile)
	if err != nil {
		s.metrics.RecordError("service", "reload")
		return fmt.Errorf("%w: %w", repository.ErrLoadSource, err)
	}
	ds, err := repository.Decode(data)
	if err != nil {
		s.metrics.RecordError("service", "reload")
		return fmt.Errorf("%w: %s: %w", repository.ErrLoadSource, s.dataFile, err)
	}

	s.pipeline.Swap(ctx, func() { s.store.Replace(ctx, ds) })
	s.recordDatasetSizes(ctx)
	s.enqueueWarmup(ctx)
	s.logger.Info(ctx, "datasets reloaded",
		logger.String("dataFile", s.dataFile),
		logger.Int("ranked", len(ds[model.ChannelRanked])),
		logger.Int("vanilla", len(ds[model.ChannelVanilla])),
	)
	return nil
}

// warmupKeys lists the unfiltered lists worth precomputing, default dataset
// and default order first, bounded by the memo size so warm-up never evicts
// its own work.
func (s *Service) warmupKeys() []model.Key {
	channels := []model.Channel{s.defaultChannel}
	for _, ch := range model.Channels() {
		if ch != s.defaultChannel {
			channels = append(channels, ch)
		}
	}
	var keys []model.Key
	for _, ch := range channels {
		base := model.DefaultViewState().WithDataset(ch)
		for _, col := range model.Columns() {
			asc := base.WithToggledSort(col)
			if col == model.ColumnRank {
				asc = base
			}
			keys = append(keys, asc.Key(), asc.WithToggledSort(col).Key())
		}
	}
	if s.memoSize > 0 && len(keys) > s.memoSize {
		keys = keys[:s.memoSize]
	}
	return keys
}

// startWarmup starts the warm-up pool and queues the first round. Callers
// hold s.mu.
func (s *Service) startWarmup(ctx context.Context) {
	keys := s.warmupKeys()
	s.warmQueue = queue.NewInMemoryQueue(
		queue.WithCapacity(2*len(keys)),
		queue.WithMetrics(s.metrics),
	)
	s.warmPool = worker.NewPool(s.warmupWorkers, s.warmQueue, s.pipeline,
		worker.WithLogger(s.logger.Named("warmup")),
		worker.WithMetrics(s.metrics),
	)
	warmCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.warmCancel = cancel
	s.warmPool.Start(warmCtx)
	s.enqueueWarmup(ctx)
}

// enqueueWarmup queues every warm-up key. Callers hold s.mu.
func (s *Service) enqueueWarmup(ctx context.Context) {
	if s.warmQueue == nil {
		return
	}
	queued := 0
	for _, k := range s.warmupKeys() {
		if s.warmQueue.Enqueue(ctx, k) {
			queued++
		}
	}
	s.logger.Debug(ctx, "memo warm-up queued", logger.Int("jobs", queued))
}

// stopWarmup shuts the pool down. Callers hold s.mu.
func (s *Service) stopWarmup() {
	if s.warmPool == nil {
		return
	}
	if err := s.warmPool.Shutdown(context.Background()); err != nil {
		s.logger.Warn(context.Background(), "warm-up shutdown failed", logger.Error(err))
	}
	s.warmCancel()
	s.warmPool, s.warmQueue, s.warmCancel = nil, nil, nil
}

// recordDatasetSizes publishes dataset sizes. Callers hold s.mu.
func (s *Service) recordDatasetSizes(ctx context.Context) {
	for _, ch := range model.Channels() {
		s.metrics.UpdateDatasetSize(ch.String(), s.source.Count(ctx, ch))
	}
}

// NewView returns a view configured with the service geometry. opts are
// applied after the service defaults.
func (s *Service) NewView(ctx context.Context, opts ...ViewOption) (*View, error) {
	s.mu.RLock()
	pipeline := s.pipeline
	if pipeline == nil {
		s.mu.RUnlock()
		return nil, ErrNotStarted
	}
	defaults := []ViewOption{
		WithRowHeight(s.rowHeight),
		WithOverscan(s.overscan),
		WithContainerHeight(s.viewportHeight),
		WithViewHotStreak(s.hotStreak),
		WithInitialState(model.DefaultViewState().WithDataset(s.defaultChannel)),
		WithViewMetrics(s.metrics),
		WithViewLogger(s.logger.Named("view")),
	}
	s.mu.RUnlock()

	return NewView(ctx, pipeline, append(defaults, opts...)...)
}

// Render builds the page for a stateless request.
func (s *Service) Render(ctx context.Context, req types.Request) (types.Page, error) {
	v, err := s.NewView(ctx, WithInitialState(req.State))
	if err != nil {
		return types.Page{}, err
	}
	if err := v.Restore(ctx, req); err != nil {
		return types.Page{}, err
	}
	return v.Page(), nil
}

// Lookup returns the rendered row of player id in channel ch. The row index
// is the player's position in the unfiltered dataset.
func (s *Service) Lookup(ctx context.Context, ch model.Channel, id string) (types.Row, error) {
	s.mu.RLock()
	src, started, hot := s.source, s.started, s.hotStreak
	s.mu.RUnlock()

	if !started {
		return types.Row{}, ErrNotStarted
	}
	e, pos, err := src.Find(ctx, ch, id)
	if err != nil {
		return types.Row{}, err
	}
	return types.NewRow(pos, e, hot), nil
}

// DefaultChannel returns the dataset used when a request names none.
func (s *Service) DefaultChannel() model.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultChannel
}

// ViewportHeight returns the default container height.
func (s *Service) ViewportHeight() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewportHeight
}

// MaxViewportHeight returns the largest container height a request may use.
func (s *Service) MaxViewportHeight() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxViewportHeight
}

// RowHeight returns the row height used by every view.
func (s *Service) RowHeight() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rowHeight
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"rowHeight":      s.rowHeight,
		"overscan":       s.overscan,
		"viewportHeight": s.viewportHeight,
		"memoSize":       s.memoSize,
		"defaultChannel": s.defaultChannel.String(),
		"reloadable":     s.store != nil && s.dataFile != "",
	}
	if s.started {
		ctx := context.Background()
		datasets := make(map[string]int, len(model.Channels()))
		for _, ch := range model.Channels() {
			datasets[ch.String()] = s.source.Count(ctx, ch)
		}
		stats["datasets"] = datasets
		stats["memoEntries"] = s.pipeline.CacheSize()
		if s.warmQueue != nil {
			stats["warmupWorkers"] = s.warmPool.Size()
			stats["warmupPending"] = s.warmQueue.Len(ctx)
		}
	}
	return stats
}

// IsNotFound reports whether err means the requested player does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
