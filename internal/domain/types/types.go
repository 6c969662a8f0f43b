// Package types contains the render model shared by every leaderboard surface.
package types

import (
	"math"
	"net/url"
	"strconv"

	"github.com/okian/rankview/internal/domain/model"
	"github.com/okian/rankview/internal/domain/window"
)

// Medal marks the top three ranks.
type Medal string

// Medals by rank.
const (
	MedalNone   Medal = ""
	MedalGold   Medal = "gold"
	MedalSilver Medal = "silver"
	MedalBronze Medal = "bronze"
)

// Tone classifies a win rate for colouring.
type Tone string

// Win-rate tones.
const (
	ToneGood    Tone = "good"
	ToneNeutral Tone = "neutral"
	ToneBad     Tone = "bad"
)

// Win-rate percentage thresholds for Tone.
const (
	goodWinRatePercent = 60
	badWinRatePercent  = 40
)

// DefaultHotStreak is the streak length that earns the hot-streak badge.
const DefaultHotStreak = 3

// EmptyMessage is shown in place of rows when nothing matches.
const EmptyMessage = "No players found"

// Row is one rendered leaderboard row.
type Row struct {
	Index          int    `json:"index"`
	ID             string `json:"id"`
	Name           string `json:"name"`
	Link           string `json:"link"`
	Rank           int    `json:"rank"`
	Medal          Medal  `json:"medal,omitempty"`
	HotStreak      bool   `json:"hot_streak"`
	MMR            int    `json:"mmr"`
	PeakMMR        int    `json:"peak_mmr"`
	WinRatePercent int    `json:"winrate_percent"`
	WinRateTone    Tone   `json:"winrate_tone"`
	Wins           int    `json:"wins"`
	Losses         int    `json:"losses"`
	TotalGames     int    `json:"totalgames"`
	Streak         int    `json:"streak"`
}

// NewRow presents entry e at list position index.
// hotStreak <= 0 disables the hot-streak badge.
func NewRow(index int, e model.Entry, hotStreak int) Row {
	pct := int(math.Round(e.WinRate * 100))
	return Row{
		Index:          index,
		ID:             e.ID,
		Name:           e.Name,
		Link:           "/players/" + url.PathEscape(e.ID),
		Rank:           e.Rank,
		Medal:          MedalFor(e.Rank),
		HotStreak:      hotStreak > 0 && e.Streak >= hotStreak,
		MMR:            int(math.Round(e.MMR)),
		PeakMMR:        int(math.Round(e.PeakMMR)),
		WinRatePercent: pct,
		WinRateTone:    ToneFor(pct),
		Wins:           e.Wins,
		Losses:         e.Losses,
		TotalGames:     e.TotalGames,
		Streak:         e.Streak,
	}
}

// MedalFor returns the medal for rank.
func MedalFor(rank int) Medal {
	switch rank {
	case 1:
		return MedalGold
	case 2:
		return MedalSilver
	case 3:
		return MedalBronze
	default:
		return MedalNone
	}
}

// ToneFor classifies a win-rate percentage.
func ToneFor(percent int) Tone {
	switch {
	case percent > goodWinRatePercent:
		return ToneGood
	case percent < badWinRatePercent:
		return ToneBad
	default:
		return ToneNeutral
	}
}

// StreakLabel renders a streak as an arrow and its magnitude.
func (r Row) StreakLabel() string {
	switch {
	case r.Streak > 0:
		return "↑" + strconv.Itoa(r.Streak)
	case r.Streak < 0:
		return "↓" + strconv.Itoa(-r.Streak)
	default:
		return "0"
	}
}

// Header is one sortable column header.
type Header struct {
	Column    model.Column    `json:"column"`
	Label     string          `json:"label"`
	Active    bool            `json:"active"`
	Direction model.Direction `json:"direction,omitempty"`
}

// Indicator is the sort glyph shown next to the label.
func (h Header) Indicator() string {
	if !h.Active {
		return "↕"
	}
	if h.Direction == model.Desc {
		return "↓"
	}
	return "↑"
}

// Headers builds the header row for state.
func Headers(state model.ViewState) []Header {
	cols := model.Columns()
	out := make([]Header, len(cols))
	for i, c := range cols {
		h := Header{Column: c, Label: c.Label()}
		if c == state.SortColumn {
			h.Active = true
			h.Direction = state.SortDirection
		}
		out[i] = h
	}
	return out
}

// Tab is one dataset selector.
type Tab struct {
	Channel model.Channel `json:"channel"`
	Label   string        `json:"label"`
	Active  bool          `json:"active"`
}

// Tabs builds the dataset selector for state.
func Tabs(state model.ViewState) []Tab {
	chs := model.Channels()
	out := make([]Tab, len(chs))
	for i, c := range chs {
		out[i] = Tab{Channel: c, Label: c.Label(), Active: c == state.ActiveDataset}
	}
	return out
}

// Page is everything a surface needs to draw the leaderboard.
type Page struct {
	State        model.ViewState `json:"state"`
	Tabs         []Tab           `json:"tabs"`
	Headers      []Header        `json:"headers"`
	Rows         []Row           `json:"rows"`
	PlayerCount  int             `json:"player_count"` // unfiltered size of the active dataset
	MatchCount   int             `json:"match_count"`  // size after filtering
	Window       window.Geometry `json:"window"`
	Empty        bool            `json:"empty"`
	EmptyMessage string          `json:"empty_message,omitempty"`
}

// Request carries a complete view state plus viewport geometry, as received
// from a stateless surface such as an HTTP query string.
type Request struct {
	State           model.ViewState
	ScrollOffset    int
	ContainerHeight int
}

// Query encodes r as URL query parameters. Defaults are omitted.
func (r Request) Query() url.Values {
	v := url.Values{}
	v.Set("type", r.State.ActiveDataset.String())
	if r.State.SearchQuery != "" {
		v.Set("q", r.State.SearchQuery)
	}
	if r.State.SortColumn != model.ColumnRank {
		v.Set("sort", r.State.SortColumn.String())
	}
	if r.State.SortDirection == model.Desc {
		v.Set("dir", r.State.SortDirection.String())
	}
	if r.ScrollOffset > 0 {
		v.Set("offset", strconv.Itoa(r.ScrollOffset))
	}
	if r.ContainerHeight > 0 {
		v.Set("height", strconv.Itoa(r.ContainerHeight))
	}
	return v
}
