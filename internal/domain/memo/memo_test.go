package memo_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/rankview/internal/domain/memo"
	"github.com/okian/rankview/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func key(q string) model.Key {
	return model.Key{Dataset: model.ChannelRanked, Query: q, Column: model.ColumnRank, Direction: model.Asc}
}

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new cache", t, func() {
		c := memo.NewInMemoryCache()

		Convey("Then it should start empty", func() {
			So(c.Size(), ShouldEqual, 0)
			_, ok := c.Get(ctx, key("a"))
			So(ok, ShouldBeFalse)
		})

		Convey("When storing a list", func() {
			list := []model.Entry{{ID: "1"}}
			c.Put(ctx, key("a"), list)

			Convey("Then it can be read back by the same key", func() {
				got, ok := c.Get(ctx, key("a"))
				So(ok, ShouldBeTrue)
				So(got, ShouldResemble, list)
				So(c.Size(), ShouldEqual, 1)
			})

			Convey("And a different key misses", func() {
				other := key("a")
				other.Direction = model.Desc
				_, ok := c.Get(ctx, other)
				So(ok, ShouldBeFalse)
			})

			Convey("And storing the same key again replaces the list", func() {
				c.Put(ctx, key("a"), []model.Entry{{ID: "2"}})
				got, _ := c.Get(ctx, key("a"))
				So(got[0].ID, ShouldEqual, "2")
				So(c.Size(), ShouldEqual, 1)
			})
		})

		Convey("When purging", func() {
			c.Put(ctx, key("a"), nil)
			c.Put(ctx, key("b"), nil)
			c.Purge(ctx)

			Convey("Then everything is gone", func() {
				So(c.Size(), ShouldEqual, 0)
				_, ok := c.Get(ctx, key("b"))
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a bounded cache", t, func() {
		c := memo.NewInMemoryCache(memo.WithMaxSize(3))
		for _, q := range []string{"1", "2", "3"} {
			c.Put(ctx, key(q), nil)
		}

		Convey("When adding past capacity without reads", func() {
			c.Put(ctx, key("4"), nil)

			Convey("Then the least recently used entry is evicted", func() {
				So(c.Size(), ShouldEqual, 3)
				_, ok := c.Get(ctx, key("1"))
				So(ok, ShouldBeFalse)
				for _, q := range []string{"2", "3", "4"} {
					_, ok := c.Get(ctx, key(q))
					So(ok, ShouldBeTrue)
				}
			})
		})

		Convey("When the oldest entry is read before adding", func() {
			_, ok := c.Get(ctx, key("1"))
			So(ok, ShouldBeTrue)
			c.Put(ctx, key("4"), nil)

			Convey("Then the read entry survives and the next oldest goes", func() {
				_, ok := c.Get(ctx, key("1"))
				So(ok, ShouldBeTrue)
				_, ok = c.Get(ctx, key("2"))
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When an existing entry is stored again", func() {
			c.Put(ctx, key("1"), []model.Entry{{ID: "x"}})
			c.Put(ctx, key("4"), nil)

			Convey("Then it counts as recently used", func() {
				got, ok := c.Get(ctx, key("1"))
				So(ok, ShouldBeTrue)
				So(got[0].ID, ShouldEqual, "x")
				_, ok = c.Get(ctx, key("2"))
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a hot key read between every insert", t, func() {
		c := memo.NewInMemoryCache(memo.WithMaxSize(3))
		hot := key("")
		c.Put(ctx, hot, []model.Entry{{ID: "hot"}})
		for _, q := range []string{"a", "b", "c", "d", "e"} {
			_, ok := c.Get(ctx, hot)
			So(ok, ShouldBeTrue)
			c.Put(ctx, key(q), nil)
		}

		Convey("Then the hot key is never evicted", func() {
			got, ok := c.Get(ctx, hot)
			So(ok, ShouldBeTrue)
			So(got[0].ID, ShouldEqual, "hot")
			So(c.Size(), ShouldEqual, 3)
		})
	})

	Convey("Given a bounded cache with an eviction hook", t, func() {
		var evicted []string
		c := memo.NewInMemoryCache(
			memo.WithMaxSize(2),
			memo.WithEvictionHook(func(k model.Key) { evicted = append(evicted, k.Query) }),
		)
		c.Put(ctx, key("a"), nil)
		c.Put(ctx, key("b"), nil)
		c.Put(ctx, key("c"), nil)
		c.Put(ctx, key("d"), nil)

		Convey("Then the hook sees every evicted key least recent first", func() {
			So(evicted, ShouldResemble, []string{"a", "b"})
		})

		Convey("And purging does not run the hook", func() {
			c.Purge(ctx)
			So(evicted, ShouldResemble, []string{"a", "b"})
			So(c.Size(), ShouldEqual, 0)
		})
	})

	Convey("Given an unbounded cache", t, func() {
		c := memo.NewInMemoryCache(memo.WithMaxSize(0))
		for i := 0; i < 500; i++ {
			c.Put(ctx, key(fmt.Sprint(i)), nil)
		}
		So(c.Size(), ShouldEqual, 500)
	})
}

func TestCacheConcurrency(t *testing.T) {
	Convey("Given a cache shared between goroutines", t, func() {
		ctx := context.Background()
		c := memo.NewInMemoryCache(memo.WithMaxSize(16))

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < 200; i++ {
					k := key(fmt.Sprintf("%d-%d", g, i%20))
					if _, ok := c.Get(ctx, k); !ok {
						c.Put(ctx, k, []model.Entry{{ID: k.Query}})
					}
				}
			}(g)
		}
		wg.Wait()

		Convey("Then the size never exceeds the bound", func() {
			So(c.Size(), ShouldBeLessThanOrEqualTo, 16)
		})
	})
}
