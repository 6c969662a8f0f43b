package tui

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/okian/rankview/internal/adapters/repository"
	service "github.com/okian/rankview/internal/app"
	"github.com/okian/rankview/internal/domain/model"
	"github.com/okian/rankview/internal/domain/window"
	"github.com/okian/rankview/pkg/logger"
	"github.com/okian/rankview/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func players(n int) []model.Entry {
	out := make([]model.Entry, n)
	for i := range out {
		out[i] = model.Entry{
			ID:      fmt.Sprintf("p%04d", i),
			Name:    fmt.Sprintf("Player %04d", i),
			Rank:    i + 1,
			MMR:     float64(3000 - i),
			WinRate: 0.5,
			Streak:  i%7 - 3,
		}
	}
	return out
}

func startService(t *testing.T) *service.Service {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore(ctx,
		repository.WithDataset(model.ChannelRanked, players(50)),
		repository.WithDataset(model.ChannelVanilla, players(5)),
	)
	svc := service.New(
		service.WithSource(store),
		service.WithLogger(logger.Nop()),
		service.WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))),
	)
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}
	return svc
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModel_Scrolling(t *testing.T) {
	Convey("Given a client sized to ten table lines", t, func() {
		m, err := New(context.Background(), startService(t), WithOverscan(2))
		So(err, ShouldBeNil)
		m = send(m, tea.WindowSizeMsg{Width: 120, Height: 10 + chromeLines})

		Convey("Then the first page is windowed with overscan", func() {
			g := m.view.Window()
			So(g.RowHeight, ShouldEqual, 1)
			So(g.TotalRows, ShouldEqual, 50)
			So(g.StartIndex, ShouldEqual, 0)
			So(g.EndIndex, ShouldEqual, 12)
			So(m.View(), ShouldContainSubstring, "50 Players")
			So(m.View(), ShouldContainSubstring, "Player 0000")
			So(m.View(), ShouldNotContainSubstring, "Player 0010")
		})

		Convey("When scrolling down one line", func() {
			m = send(m, tea.KeyMsg{Type: tea.KeyDown})

			Convey("Then the offset advances by one row", func() {
				So(m.view.Window().ScrollOffset, ShouldEqual, 1)
				So(m.View(), ShouldContainSubstring, "Player 0010")
				So(m.View(), ShouldNotContainSubstring, "Player 0000")
			})
		})

		Convey("When paging down twice and up once", func() {
			m = send(m, tea.KeyMsg{Type: tea.KeyPgDown}, tea.KeyMsg{Type: tea.KeyPgDown}, tea.KeyMsg{Type: tea.KeyPgUp})

			Convey("Then the offset is one page", func() {
				So(m.view.Window().ScrollOffset, ShouldEqual, 10)
			})
		})

		Convey("When jumping to the end and back home", func() {
			m = send(m, runes("G"))
			end := m.view.Window()
			m = send(m, runes("g"))

			Convey("Then the end offset is clamped to the last page", func() {
				So(end.ScrollOffset, ShouldEqual, 40)
				So(end.EndIndex, ShouldEqual, 49)
				So(m.view.Window().ScrollOffset, ShouldEqual, 0)
			})
		})

		Convey("When the terminal grows", func() {
			m = send(m, runes("G"), tea.WindowSizeMsg{Width: 120, Height: 30 + chromeLines})

			Convey("Then the offset is clamped to the taller viewport", func() {
				So(m.view.Window().ScrollOffset, ShouldEqual, 20)
			})
		})
	})
}

func TestModel_TabsAndSort(t *testing.T) {
	Convey("Given a sized client", t, func() {
		m, err := New(context.Background(), startService(t))
		So(err, ShouldBeNil)
		m = send(m, tea.WindowSizeMsg{Width: 120, Height: 20})

		Convey("When tab is pressed", func() {
			m = send(m, tea.KeyMsg{Type: tea.KeyTab})

			Convey("Then the vanilla dataset is active and the URL state is shown", func() {
				So(m.view.State().ActiveDataset, ShouldEqual, model.ChannelVanilla)
				So(m.status.text, ShouldEqual, "?type=vanilla")
				So(m.View(), ShouldContainSubstring, "5 Players")
				So(m.View(), ShouldContainSubstring, "?type=vanilla")
			})

			Convey("And tab is pressed again", func() {
				m = send(m, tea.KeyMsg{Type: tea.KeyTab})

				Convey("Then it wraps back to ranked", func() {
					So(m.view.State().ActiveDataset, ShouldEqual, model.ChannelRanked)
				})
			})
		})

		Convey("When the MMR column key is pressed twice", func() {
			m = send(m, runes("3"))
			first := m.view.State()
			m = send(m, runes("3"))

			Convey("Then MMR sorts ascending and then descending", func() {
				So(first.SortColumn, ShouldEqual, model.ColumnMMR)
				So(first.SortDirection, ShouldEqual, model.Asc)
				So(m.view.State().SortDirection, ShouldEqual, model.Desc)
				So(m.view.Derived()[0].Name, ShouldEqual, "Player 0000")
			})
		})

		Convey("When q is pressed", func() {
			_, cmd := m.Update(runes("q"))

			Convey("Then the program quits", func() {
				So(cmd, ShouldNotBeNil)
				So(cmd(), ShouldHaveSameTypeAs, tea.QuitMsg{})
			})
		})
	})
}

func TestModel_Search(t *testing.T) {
	Convey("Given a client with a long debounce", t, func() {
		m, err := New(context.Background(), startService(t), WithSearchDebounce(time.Hour))
		So(err, ShouldBeNil)
		m = send(m, tea.WindowSizeMsg{Width: 120, Height: 20})

		Convey("When typing into the search box", func() {
			m = send(m, runes("/"), runes("0"), runes("0"), runes("4"))

			Convey("Then the query waits for the debounce", func() {
				So(m.searching, ShouldBeTrue)
				So(m.search.Value(), ShouldEqual, "004")
				So(m.view.State().SearchQuery, ShouldEqual, "")
			})

			Convey("And a stale timer fires", func() {
				m = send(m, searchMsg{seq: m.searchSeq - 1, query: "00"})

				Convey("Then it is ignored", func() {
					So(m.view.State().SearchQuery, ShouldEqual, "")
				})
			})

			Convey("And the latest timer fires", func() {
				m = send(m, searchMsg{seq: m.searchSeq, query: "004"})

				Convey("Then the list is filtered", func() {
					So(m.view.State().SearchQuery, ShouldEqual, "004")
					So(len(m.view.Derived()), ShouldEqual, 11)
				})
			})

			Convey("And enter is pressed", func() {
				m = send(m, tea.KeyMsg{Type: tea.KeyEnter})

				Convey("Then the search applies at once and the box closes", func() {
					So(m.searching, ShouldBeFalse)
					So(m.view.State().SearchQuery, ShouldEqual, "004")
				})
			})

			Convey("And esc is pressed before the timer fires", func() {
				pending := searchMsg{seq: m.searchSeq, query: "004"}
				m = send(m, tea.KeyMsg{Type: tea.KeyEsc}, pending)

				Convey("Then the abandoned query is not applied", func() {
					So(m.searching, ShouldBeFalse)
					So(m.view.State().SearchQuery, ShouldEqual, "")
					So(len(m.view.Derived()), ShouldEqual, 50)
				})
			})
		})

		Convey("When a search matches nobody", func() {
			m = send(m, runes("/"), runes("zzz"), tea.KeyMsg{Type: tea.KeyEnter})

			Convey("Then the empty state is rendered", func() {
				So(m.view.Page().Empty, ShouldBeTrue)
				So(m.View(), ShouldContainSubstring, "No players found")
				So(m.View(), ShouldContainSubstring, "50 Players")
			})
		})
	})

	Convey("Given a client without debounce", t, func() {
		m, err := New(context.Background(), startService(t), WithSearchDebounce(0))
		So(err, ShouldBeNil)
		m = send(m, tea.WindowSizeMsg{Width: 120, Height: 20})

		Convey("When typing", func() {
			m = send(m, runes("/"), runes("0049"))

			Convey("Then every keystroke filters", func() {
				So(m.view.State().SearchQuery, ShouldEqual, "0049")
				So(len(m.view.Derived()), ShouldEqual, 1)
			})
		})
	})
}

func TestHelpers(t *testing.T) {
	Convey("sortColumn maps digits to header positions", t, func() {
		col, ok := sortColumn("1")
		So(ok, ShouldBeTrue)
		So(col, ShouldEqual, model.ColumnRank)

		col, ok = sortColumn("9")
		So(ok, ShouldBeTrue)
		So(col, ShouldEqual, model.ColumnStreak)

		_, ok = sortColumn("0")
		So(ok, ShouldBeFalse)
	})

	Convey("nextChannel cycles through the tabs", t, func() {
		So(nextChannel(model.ChannelRanked), ShouldEqual, model.ChannelVanilla)
		So(nextChannel(model.ChannelVanilla), ShouldEqual, model.ChannelRanked)
	})

	Convey("fit pads and truncates by display width", t, func() {
		So(fit("Ann", 5, false), ShouldEqual, "Ann  ")
		So(fit("42", 4, true), ShouldEqual, "  42")
		So(fit("Alexandria", 5, false), ShouldEqual, "Alex…")
		So(fit("名前", 3, false), ShouldEqual, "名…")
	})

	Convey("scrollbar places the thumb proportionally", t, func() {
		g := window.Compute(90, 10, 1, 100, 0)
		bar := scrollbar(g, 10)
		So(bar[9], ShouldBeTrue)
		So(bar[0], ShouldBeFalse)

		So(scrollbar(window.Compute(0, 10, 1, 5, 0), 10), ShouldNotContain, true)
	})
}
