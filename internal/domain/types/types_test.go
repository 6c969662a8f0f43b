package types_test

import (
	"testing"

	"github.com/okian/rankview/internal/domain/model"
	types "github.com/okian/rankview/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewRow(t *testing.T) {
	Convey("Given a leaderboard entry", t, func() {
		e := model.Entry{
			ID: "p 1", Name: "Ann", Rank: 1, MMR: 1499.6, PeakMMR: 1600.4,
			Wins: 7, Losses: 3, TotalGames: 10, WinRate: 0.7, Streak: 4,
		}

		Convey("When presenting it", func() {
			r := types.NewRow(5, e, types.DefaultHotStreak)

			Convey("Then display fields are derived", func() {
				So(r.Index, ShouldEqual, 5)
				So(r.Link, ShouldEqual, "/players/p%201")
				So(r.Medal, ShouldEqual, types.MedalGold)
				So(r.HotStreak, ShouldBeTrue)
				So(r.MMR, ShouldEqual, 1500)
				So(r.PeakMMR, ShouldEqual, 1600)
				So(r.WinRatePercent, ShouldEqual, 70)
				So(r.WinRateTone, ShouldEqual, types.ToneGood)
				So(r.StreakLabel(), ShouldEqual, "↑4")
			})
		})

		Convey("When the hot streak badge is disabled", func() {
			r := types.NewRow(0, e, 0)
			So(r.HotStreak, ShouldBeFalse)
		})

		Convey("When the streak is negative", func() {
			e.Streak = -3
			r := types.NewRow(0, e, types.DefaultHotStreak)
			So(r.HotStreak, ShouldBeFalse)
			So(r.StreakLabel(), ShouldEqual, "↓3")
		})

		Convey("When the streak is zero", func() {
			e.Streak = 0
			So(types.NewRow(0, e, 3).StreakLabel(), ShouldEqual, "0")
		})
	})
}

func TestMedalAndTone(t *testing.T) {
	Convey("Given ranks and win rates", t, func() {
		So(types.MedalFor(1), ShouldEqual, types.MedalGold)
		So(types.MedalFor(2), ShouldEqual, types.MedalSilver)
		So(types.MedalFor(3), ShouldEqual, types.MedalBronze)
		So(types.MedalFor(4), ShouldEqual, types.MedalNone)
		So(types.MedalFor(0), ShouldEqual, types.MedalNone)

		So(types.ToneFor(61), ShouldEqual, types.ToneGood)
		So(types.ToneFor(60), ShouldEqual, types.ToneNeutral)
		So(types.ToneFor(40), ShouldEqual, types.ToneNeutral)
		So(types.ToneFor(39), ShouldEqual, types.ToneBad)
	})
}

func TestHeadersAndTabs(t *testing.T) {
	Convey("Given a state sorted by mmr descending on vanilla", t, func() {
		state := model.DefaultViewState().WithToggledSort(model.ColumnMMR).WithToggledSort(model.ColumnMMR).WithDataset(model.ChannelVanilla)

		Convey("Then only the mmr header is active", func() {
			headers := types.Headers(state)
			So(len(headers), ShouldEqual, 9)
			for _, h := range headers {
				if h.Column == model.ColumnMMR {
					So(h.Active, ShouldBeTrue)
					So(h.Indicator(), ShouldEqual, "↓")
				} else {
					So(h.Active, ShouldBeFalse)
					So(h.Indicator(), ShouldEqual, "↕")
				}
			}
		})

		Convey("Then the vanilla tab is active", func() {
			tabs := types.Tabs(state)
			So(len(tabs), ShouldEqual, 2)
			So(tabs[0].Active, ShouldBeFalse)
			So(tabs[1].Active, ShouldBeTrue)
		})
	})

	Convey("Given an unknown sort column", t, func() {
		state := model.DefaultViewState().WithToggledSort(model.Column("elo"))
		for _, h := range types.Headers(state) {
			So(h.Active, ShouldBeFalse)
		}
	})
}

func TestRequestQuery(t *testing.T) {
	Convey("Given a request", t, func() {
		Convey("When it carries defaults only", func() {
			q := types.Request{State: model.DefaultViewState()}.Query()
			So(q.Encode(), ShouldEqual, "type=ranked")
		})

		Convey("When it carries a full state", func() {
			state := model.DefaultViewState().WithSearch("an").WithToggledSort(model.ColumnWins).WithToggledSort(model.ColumnWins)
			q := types.Request{State: state, ScrollOffset: 78, ContainerHeight: 390}.Query()

			Convey("Then every non-default field is encoded", func() {
				So(q.Get("q"), ShouldEqual, "an")
				So(q.Get("sort"), ShouldEqual, "wins")
				So(q.Get("dir"), ShouldEqual, "desc")
				So(q.Get("offset"), ShouldEqual, "78")
				So(q.Get("height"), ShouldEqual, "390")
			})
		})
	})
}
