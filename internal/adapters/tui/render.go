package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/okian/rankview/internal/domain/model"
	"github.com/okian/rankview/internal/domain/types"
	"github.com/okian/rankview/internal/domain/window"
)

const (
	title     = "Leaderboard"
	hotBadge  = "🔥"
	medalMark = "●"
	ellipsis  = "…"
	colGap    = " "
)

type cellSpec struct {
	width int
	right bool
}

var cellSpecs = map[model.Column]cellSpec{
	model.ColumnRank:       {width: 6, right: true},
	model.ColumnName:       {width: 24},
	model.ColumnMMR:        {width: 7, right: true},
	model.ColumnPeakMMR:    {width: 9, right: true},
	model.ColumnWinRate:    {width: 9, right: true},
	model.ColumnWins:       {width: 6, right: true},
	model.ColumnLosses:     {width: 7, right: true},
	model.ColumnTotalGames: {width: 7, right: true},
	model.ColumnStreak:     {width: 7, right: true},
}

// fit truncates or pads s to exactly width terminal cells.
func fit(s string, width int, right bool) string {
	if width <= 0 {
		return ""
	}
	s = runewidth.Truncate(s, width, ellipsis)
	if right {
		return runewidth.FillLeft(s, width)
	}
	return runewidth.FillRight(s, width)
}

func (m Model) render() string {
	page := m.view.Page()
	var b strings.Builder

	b.WriteString(m.renderTitle(page))
	b.WriteByte('\n')
	b.WriteString(m.renderTabs(page))
	b.WriteByte('\n')
	b.WriteString(m.renderSearch())
	b.WriteByte('\n')
	b.WriteString(m.renderHeader(page))
	b.WriteByte('\n')
	b.WriteString(m.renderBody(page))
	b.WriteString(m.renderStatus(page))
	b.WriteByte('\n')
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m Model) renderTitle(page types.Page) string {
	badge := strconv.Itoa(page.PlayerCount) + " Players"
	return m.styles.Title.Render(title) + "  " + m.styles.Badge.Render(badge)
}

func (m Model) renderTabs(page types.Page) string {
	parts := make([]string, 0, len(page.Tabs))
	for _, t := range page.Tabs {
		if t.Active {
			parts = append(parts, m.styles.ActiveTab.Render(t.Label))
			continue
		}
		parts = append(parts, m.styles.Tab.Render(t.Label))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderSearch() string {
	if m.searching {
		return m.search.View()
	}
	if q := m.view.State().SearchQuery; q != "" {
		return m.styles.Muted.Render("/ ") + q
	}
	return m.styles.Muted.Render("/ to search")
}

func (m Model) renderHeader(page types.Page) string {
	cells := make([]string, 0, len(page.Headers))
	for i, h := range page.Headers {
		spec := cellSpecs[h.Column]
		label := fit(strconv.Itoa(i+1)+" "+h.Label+" "+h.Indicator(), spec.width, spec.right)
		if h.Active {
			cells = append(cells, m.styles.ActiveCol.Render(label))
			continue
		}
		cells = append(cells, m.styles.Header.Render(label))
	}
	return strings.Join(cells, colGap)
}

// renderBody draws the visible lines of the window, one per row, followed by
// a scrollbar derived from the window geometry.
func (m Model) renderBody(page types.Page) string {
	lines := m.bodyLines()
	if lines == 0 {
		return ""
	}
	out := make([]string, lines)
	if page.Empty {
		out[0] = m.styles.Empty.Render(page.EmptyMessage)
	} else {
		first := page.Window.ScrollOffset / max(1, page.Window.RowHeight)
		for _, row := range page.Rows {
			if i := row.Index - first; i >= 0 && i < lines {
				out[i] = m.renderRow(row)
			}
		}
	}

	bar := scrollbar(page.Window, lines)
	width := m.tableWidth()
	var b strings.Builder
	for i, line := range out {
		b.WriteString(line)
		if pad := width - lipgloss.Width(line); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString(colGap)
		if bar[i] {
			b.WriteString(m.styles.Thumb.Render("█"))
		} else {
			b.WriteString(m.styles.Track.Render("│"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) renderRow(r types.Row) string {
	rank := strconv.Itoa(r.Rank)
	if r.Medal != types.MedalNone {
		rank = m.styles.Medals[r.Medal].Render(medalMark) + fit(rank, cellSpecs[model.ColumnRank].width-1, true)
	} else {
		rank = fit(rank, cellSpecs[model.ColumnRank].width, true)
	}

	nameSpec := cellSpecs[model.ColumnName]
	name := fit(r.Name, nameSpec.width, false)
	if r.HotStreak {
		badgeWidth := runewidth.StringWidth(hotBadge) + 1
		name = fit(r.Name, nameSpec.width-badgeWidth, false) + " " + m.styles.Hot.Render(hotBadge)
	}

	cells := []string{
		rank,
		name,
		m.cell(model.ColumnMMR, strconv.Itoa(r.MMR)),
		m.cell(model.ColumnPeakMMR, strconv.Itoa(r.PeakMMR)),
		m.styles.Tones[r.WinRateTone].Render(m.cell(model.ColumnWinRate, strconv.Itoa(r.WinRatePercent)+"%")),
		m.cell(model.ColumnWins, strconv.Itoa(r.Wins)),
		m.cell(model.ColumnLosses, strconv.Itoa(r.Losses)),
		m.cell(model.ColumnTotalGames, strconv.Itoa(r.TotalGames)),
		m.cell(model.ColumnStreak, r.StreakLabel()),
	}
	return strings.Join(cells, colGap)
}

func (m Model) cell(col model.Column, s string) string {
	spec := cellSpecs[col]
	return fit(s, spec.width, spec.right)
}

func (m Model) renderStatus(page types.Page) string {
	if m.err != nil {
		return m.styles.Error.Render("error: " + m.err.Error())
	}
	w := page.Window
	parts := []string{}
	if m.status.text != "" {
		parts = append(parts, m.status.text)
	}
	if page.MatchCount != page.PlayerCount {
		parts = append(parts, strconv.Itoa(page.MatchCount)+" of "+strconv.Itoa(page.PlayerCount)+" match")
	}
	if !w.Empty() {
		parts = append(parts, "rows "+strconv.Itoa(w.StartIndex+1)+"-"+strconv.Itoa(w.EndIndex+1)+" of "+strconv.Itoa(w.TotalRows))
	}
	return m.styles.Status.Render(strings.Join(parts, "  "))
}

func (m Model) tableWidth() int {
	w := 0
	for _, c := range model.Columns() {
		w += cellSpecs[c].width
	}
	return w + len(colGap)*(len(cellSpecs)-1)
}

// scrollbar marks the lines of a track of the given height that are covered
// by the thumb.
func scrollbar(g window.Geometry, height int) []bool {
	bar := make([]bool, height)
	total := g.TotalHeight()
	if total <= height || height == 0 {
		return bar
	}
	thumb := max(1, height*height/total)
	top := g.ScrollOffset * height / total
	top = min(top, height-thumb)
	for i := top; i < top+thumb; i++ {
		bar[i] = true
	}
	return bar
}
