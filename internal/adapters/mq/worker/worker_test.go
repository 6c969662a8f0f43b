package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/rankview/internal/adapters/mq/queue"
	worker "github.com/okian/rankview/internal/adapters/mq/worker"
	"github.com/okian/rankview/internal/domain/model"
	"github.com/okian/rankview/pkg/logger"
	"github.com/okian/rankview/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	jobs chan queue.Job
	once sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 16)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Job {
	return mq.jobs
}

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.jobs) })
	return nil
}

type mockWarmer struct {
	mu     sync.Mutex
	warmed []queue.Job
	fail   map[model.Column]error
}

func newMockWarmer() *mockWarmer {
	return &mockWarmer{fail: make(map[model.Column]error)}
}

func (mw *mockWarmer) Warm(_ context.Context, job queue.Job) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	if err, ok := mw.fail[job.Column]; ok {
		return err
	}
	mw.warmed = append(mw.warmed, job)
	return nil
}

func (mw *mockWarmer) count() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return len(mw.warmed)
}

func job(col model.Column) queue.Job {
	return model.DefaultViewState().WithToggledSort(col).Key()
}

func testMetrics() *metrics.Manager {
	return metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
}

// eventually polls cond until it holds or the deadline passes.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a new InMemoryWorker", t, func() {
		q := newMockQueue()
		warmer := newMockWarmer()
		w := worker.NewInMemoryWorker(q, warmer,
			worker.WithName("test-worker"),
			worker.WithLogger(logger.Nop()),
			worker.WithMetrics(testMetrics()),
		)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When jobs arrive", func() {
			q.jobs <- job(model.ColumnMMR)
			q.jobs <- job(model.ColumnWins)

			convey.Convey("Then each is warmed", func() {
				convey.So(eventually(func() bool { return warmer.count() == 2 }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a job fails", func() {
			warmer.mu.Lock()
			warmer.fail[model.ColumnLosses] = errors.New("source unavailable")
			warmer.mu.Unlock()
			q.jobs <- job(model.ColumnLosses)
			q.jobs <- job(model.ColumnStreak)

			convey.Convey("Then the worker keeps going", func() {
				convey.So(eventually(func() bool { return warmer.count() == 1 }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer shutdownCancel()

			convey.Convey("Then it stops gracefully", func() {
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a worker whose queue closes", t, func() {
		q := newMockQueue()
		w := worker.NewInMemoryWorker(q, newMockWarmer())
		done := make(chan struct{})
		go func() {
			w.Run(context.Background())
			close(done)
		}()
		_ = q.Close()

		convey.Convey("Then Run returns", func() {
			select {
			case <-done:
				convey.So(true, convey.ShouldBeTrue)
			case <-time.After(time.Second):
				convey.So("worker still running", convey.ShouldBeEmpty)
			}
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a new Pool", t, func() {
		convey.Convey("When created with a non-positive count", func() {
			pool := worker.NewPool(0, newMockQueue(), newMockWarmer())

			convey.Convey("Then the default size is used", func() {
				convey.So(pool.Size(), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When started over a real queue", func() {
			q := queue.NewInMemoryQueue(queue.WithMetrics(testMetrics()))
			warmer := newMockWarmer()
			pool := worker.NewPool(3, q, warmer, worker.WithMetrics(testMetrics()))
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			pool.Start(ctx)

			for _, col := range model.Columns() {
				convey.So(q.Enqueue(ctx, job(col)), convey.ShouldBeTrue)
			}

			convey.Convey("Then every job is warmed", func() {
				convey.So(eventually(func() bool { return warmer.count() == len(model.Columns()) }), convey.ShouldBeTrue)
			})

			convey.Convey("And when shut down", func() {
				err := pool.Shutdown(context.Background())

				convey.Convey("Then the queue is closed", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(q.IsClosed(), convey.ShouldBeTrue)
				})
			})
		})
	})
}
