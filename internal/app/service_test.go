package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/rankview/internal/adapters/repository"
	service "github.com/okian/rankview/internal/app"
	"github.com/okian/rankview/internal/domain/model"
	"github.com/okian/rankview/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

const datasetDoc = `{
	"ranked": [
		{"id":"1","name":"Ann","rank":2,"mmr":1500,"winrate":0.6,"streak":1},
		{"id":"2","name":"Bob","rank":1,"mmr":1600,"winrate":0.8,"streak":4}
	],
	"vanilla": [
		{"id":"v1","name":"Vic","rank":1,"mmr":"n/a"}
	]
}`

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "players.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.RowHeight(), ShouldEqual, 39)
			So(svc.ViewportHeight(), ShouldEqual, 600)
			So(svc.DefaultChannel(), ShouldEqual, model.ChannelRanked)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithGeometry(20, 4),
			service.WithViewport(400, 800),
			service.WithDefaultChannel(model.ChannelVanilla),
			service.WithMemoSize(8),
			service.WithHotStreak(5),
		)

		Convey("Then the options should be applied", func() {
			So(svc.RowHeight(), ShouldEqual, 20)
			So(svc.ViewportHeight(), ShouldEqual, 400)
			So(svc.MaxViewportHeight(), ShouldEqual, 800)
			So(svc.DefaultChannel(), ShouldEqual, model.ChannelVanilla)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithMetrics(testMetrics()))
		defer svc.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When using it before Start", func() {
			_, viewErr := svc.NewView(ctx)
			_, lookupErr := svc.Lookup(ctx, model.ChannelRanked, "1")

			Convey("Then it reports not started", func() {
				So(errors.Is(viewErr, service.ErrNotStarted), ShouldBeTrue)
				So(errors.Is(lookupErr, service.ErrNotStarted), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When starting without a data file", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then both datasets are empty", func() {
				page, err := svc.Render(ctx, types.Request{State: model.DefaultViewState(), ContainerHeight: 390})
				So(err, ShouldBeNil)
				So(page.Empty, ShouldBeTrue)
				So(page.PlayerCount, ShouldEqual, 0)
			})

			Convey("And Stop marks it stopped", func() {
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_DataFile(t *testing.T) {
	Convey("Given a service backed by a data file", t, func() {
		ctx := context.Background()
		path := writeDataset(t, datasetDoc)
		svc := service.New(service.WithDataFile(path), service.WithMetrics(testMetrics()))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When rendering the default request", func() {
			page, err := svc.Render(ctx, types.Request{State: model.DefaultViewState(), ContainerHeight: 600})

			Convey("Then rows follow rank order", func() {
				So(err, ShouldBeNil)
				So(names(page.Rows), ShouldResemble, []string{"Bob", "Ann"})
				So(page.Tabs[0].Active, ShouldBeTrue)
			})
		})

		Convey("When rendering vanilla with a malformed record", func() {
			page, err := svc.Render(ctx, types.Request{State: model.DefaultViewState().WithDataset(model.ChannelVanilla)})

			Convey("Then the row is still rendered with zeroed fields", func() {
				So(err, ShouldBeNil)
				So(page.Rows, ShouldHaveLength, 1)
				So(page.Rows[0].MMR, ShouldEqual, 0)
				So(page.Rows[0].Name, ShouldEqual, "Vic")
			})
		})

		Convey("When looking up players", func() {
			row, err := svc.Lookup(ctx, model.ChannelRanked, "2")
			_, missing := svc.Lookup(ctx, model.ChannelRanked, "nope")

			Convey("Then known ids resolve and unknown ids are not found", func() {
				So(err, ShouldBeNil)
				So(row.Name, ShouldEqual, "Bob")
				So(row.Index, ShouldEqual, 1)
				So(service.IsNotFound(missing), ShouldBeTrue)
			})
		})

		Convey("When the file changes and the service reloads", func() {
			So(os.WriteFile(path, []byte(`{"ranked":[{"id":"3","name":"Cid","rank":1}]}`), 0o600), ShouldBeNil)
			So(svc.Reload(ctx), ShouldBeNil)
			page, err := svc.Render(ctx, types.Request{State: model.DefaultViewState()})

			Convey("Then the new data is served", func() {
				So(err, ShouldBeNil)
				So(names(page.Rows), ShouldResemble, []string{"Cid"})
				stats := svc.GetStats()
				So(stats["datasets"], ShouldResemble, map[string]int{"ranked": 1, "vanilla": 0})
			})
		})

		Convey("When the file becomes invalid", func() {
			So(os.WriteFile(path, []byte(`{"ranked":`), 0o600), ShouldBeNil)
			err := svc.Reload(ctx)

			Convey("Then reload fails and the old data stays", func() {
				So(errors.Is(err, repository.ErrLoadSource), ShouldBeTrue)
				page, _ := svc.Render(ctx, types.Request{State: model.DefaultViewState()})
				So(page.PlayerCount, ShouldEqual, 2)
			})
		})
	})

	Convey("Given a service with a missing data file", t, func() {
		svc := service.New(service.WithDataFile("/non/existent/players.json"), service.WithMetrics(testMetrics()))

		Convey("Then Start fails", func() {
			So(errors.Is(svc.Start(context.Background()), repository.ErrLoadSource), ShouldBeTrue)
		})
	})

	Convey("Given a service with an injected source", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(ctx, repository.WithDataset(model.ChannelRanked, annAndBob()))
		svc := service.New(service.WithSource(store), service.WithMetrics(testMetrics()))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then reload is unsupported", func() {
			So(errors.Is(svc.Reload(ctx), service.ErrReloadUnsupported), ShouldBeTrue)
		})
	})
}

func TestService_ConcurrentRender(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(ctx,
			repository.WithDataset(model.ChannelRanked, generated(2000)),
			repository.WithDataset(model.ChannelVanilla, generated(300)),
		)
		svc := service.New(service.WithSource(store), service.WithMemoSize(4), service.WithMetrics(testMetrics()))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When many goroutines render different states", func() {
			queries := []string{"", "1", "22", "Player 01", "zzz"}
			columns := model.Columns()
			var wg sync.WaitGroup
			errs := make(chan error, 64)

			for g := 0; g < 16; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < 25; i++ {
						state := model.DefaultViewState().
							WithDataset(model.Channels()[(g+i)%2]).
							WithSearch(queries[(g*i)%len(queries)]).
							WithToggledSort(columns[(g+i)%len(columns)])
						page, err := svc.Render(ctx, types.Request{State: state, ScrollOffset: i * 97, ContainerHeight: 390})
						if err != nil {
							errs <- err
							return
						}
						for _, r := range page.Rows {
							if !page.Window.Contains(r.Index) {
								errs <- errors.New("row outside window")
								return
							}
						}
					}
				}(g)
			}
			wg.Wait()
			close(errs)

			Convey("Then every render succeeds", func() {
				var all []error
				for err := range errs {
					all = append(all, err)
				}
				So(all, ShouldBeEmpty)
			})
		})
	})
}

func memoEntries(svc *service.Service) int64 {
	n, _ := svc.GetStats()["memoEntries"].(int64)
	return n
}

// eventuallyMemo waits for the memo cache to reach want entries.
func eventuallyMemo(svc *service.Service, want int64) int64 {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if n := memoEntries(svc); n == want {
			return n
		}
		time.Sleep(5 * time.Millisecond)
	}
	return memoEntries(svc)
}

func TestService_Warmup(t *testing.T) {
	Convey("Given a service with warm-up workers", t, func() {
		ctx := context.Background()
		path := writeDataset(t, datasetDoc)
		svc := service.New(
			service.WithDataFile(path),
			service.WithWarmupWorkers(2),
			service.WithMetrics(testMetrics()),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then every dataset and sort order is precomputed", func() {
			want := int64(len(model.Channels()) * len(model.Columns()) * 2)
			So(eventuallyMemo(svc, want), ShouldEqual, want)
			So(svc.GetStats()["warmupWorkers"], ShouldEqual, 2)
		})

		Convey("When the service reloads", func() {
			want := int64(len(model.Channels()) * len(model.Columns()) * 2)
			So(eventuallyMemo(svc, want), ShouldEqual, want)
			So(os.WriteFile(path, []byte(`{"ranked":[{"id":"3","name":"Cid","rank":1}]}`), 0o600), ShouldBeNil)
			So(svc.Reload(ctx), ShouldBeNil)

			Convey("Then the cache is warmed again from the new data", func() {
				So(eventuallyMemo(svc, want), ShouldEqual, want)
				page, err := svc.Render(ctx, types.Request{State: model.DefaultViewState()})
				So(err, ShouldBeNil)
				So(names(page.Rows), ShouldResemble, []string{"Cid"})
			})
		})
	})

	Convey("Given a small memo and warm-up workers", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(ctx, repository.WithDataset(model.ChannelRanked, annAndBob()))
		svc := service.New(
			service.WithSource(store),
			service.WithMemoSize(5),
			service.WithWarmupWorkers(1),
			service.WithMetrics(testMetrics()),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then warm-up stops at the memo size", func() {
			So(eventuallyMemo(svc, 5), ShouldEqual, 5)
		})
	})
}
