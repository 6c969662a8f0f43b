package service_test

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/okian/rankview/internal/adapters/repository"
	service "github.com/okian/rankview/internal/app"
	"github.com/okian/rankview/internal/domain/memo"
	"github.com/okian/rankview/internal/domain/model"
	"github.com/okian/rankview/pkg/logger"
	"github.com/okian/rankview/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func annAndBob() []model.Entry {
	return []model.Entry{
		{ID: "1", Name: "Ann", Rank: 2, MMR: 1500, PeakMMR: 1550, Wins: 30, Losses: 20, TotalGames: 50, WinRate: 0.6, Streak: 1},
		{ID: "2", Name: "Bob", Rank: 1, MMR: 1600, PeakMMR: 1650, Wins: 40, Losses: 10, TotalGames: 50, WinRate: 0.8, Streak: 4},
	}
}

func generated(n int) []model.Entry {
	out := make([]model.Entry, n)
	for i := range out {
		out[i] = model.Entry{
			ID:     fmt.Sprintf("p%04d", i),
			Name:   fmt.Sprintf("Player %04d", i),
			Rank:   i + 1,
			MMR:    float64(3000 - i),
			Streak: i%7 - 3,
		}
	}
	return out
}

func testMetrics() *metrics.Manager {
	return metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
}

// countingCache counts memo writes, i.e. actual filter and sort passes.
type countingCache struct {
	memo.Cache
	puts atomic.Int64
}

func (c *countingCache) Put(ctx context.Context, key model.Key, entries []model.Entry) {
	c.puts.Add(1)
	c.Cache.Put(ctx, key, entries)
}

func newPipeline(ranked, vanilla []model.Entry) (*service.Pipeline, *countingCache, *repository.MemoryStore) {
	ctx := context.Background()
	store := repository.NewMemoryStore(ctx,
		repository.WithDataset(model.ChannelRanked, ranked),
		repository.WithDataset(model.ChannelVanilla, vanilla),
	)
	cache := &countingCache{Cache: memo.NewInMemoryCache()}
	p := service.NewPipeline(store, service.WithCache(cache), service.WithPipelineMetrics(testMetrics()))
	return p, cache, store
}

type recordingWriter struct {
	calls []model.Channel
}

func (w *recordingWriter) SetDataset(_ context.Context, ch model.Channel) {
	w.calls = append(w.calls, ch)
}
