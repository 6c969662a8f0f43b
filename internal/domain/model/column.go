package model

import "strings"

// Column identifies a sortable leaderboard column.
// Values outside the known set are representable and sort as identity.
type Column string

// Sortable columns, in display order.
const (
	ColumnRank       Column = "rank"
	ColumnName       Column = "name"
	ColumnMMR        Column = "mmr"
	ColumnPeakMMR    Column = "peak_mmr"
	ColumnWinRate    Column = "winrate"
	ColumnWins       Column = "wins"
	ColumnLosses     Column = "losses"
	ColumnTotalGames Column = "totalgames"
	ColumnStreak     Column = "streak"
)

var columnLabels = map[Column]string{
	ColumnRank:       "Rank",
	ColumnName:       "Player",
	ColumnMMR:        "MMR",
	ColumnPeakMMR:    "Peak MMR",
	ColumnWinRate:    "Win Rate",
	ColumnWins:       "Wins",
	ColumnLosses:     "Losses",
	ColumnTotalGames: "Games",
	ColumnStreak:     "Streak",
}

// Columns returns every known column in display order.
func Columns() []Column {
	return []Column{
		ColumnRank, ColumnName, ColumnMMR, ColumnPeakMMR, ColumnWinRate,
		ColumnWins, ColumnLosses, ColumnTotalGames, ColumnStreak,
	}
}

// Valid reports whether c is a known column.
func (c Column) Valid() bool {
	_, ok := columnLabels[c]
	return ok
}

// Label returns the header text for c.
func (c Column) Label() string {
	if l, ok := columnLabels[c]; ok {
		return l
	}
	return string(c)
}

func (c Column) String() string { return string(c) }

// ParseColumn normalizes s. The returned column is always s (lower-cased and
// trimmed); ok reports whether it is a known column.
func ParseColumn(s string) (Column, bool) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}
