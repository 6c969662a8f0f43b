// Package sorting orders leaderboard entries by a single column.
package sorting

import (
	"cmp"
	"slices"

	"github.com/okian/rankview/internal/domain/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// numeric maps every numeric column to a typed accessor.
var numeric = map[model.Column]func(model.Entry) float64{
	model.ColumnRank:       func(e model.Entry) float64 { return float64(e.Rank) },
	model.ColumnMMR:        func(e model.Entry) float64 { return e.MMR },
	model.ColumnPeakMMR:    func(e model.Entry) float64 { return e.PeakMMR },
	model.ColumnWinRate:    func(e model.Entry) float64 { return e.WinRate },
	model.ColumnWins:       func(e model.Entry) float64 { return float64(e.Wins) },
	model.ColumnLosses:     func(e model.Entry) float64 { return float64(e.Losses) },
	model.ColumnTotalGames: func(e model.Entry) float64 { return float64(e.TotalGames) },
	model.ColumnStreak:     func(e model.Entry) float64 { return float64(e.Streak) },
}

// Supported reports whether col has a comparator. Unsupported columns sort
// as identity.
func Supported(col model.Column) bool {
	if col == model.ColumnName {
		return true
	}
	_, ok := numeric[col]
	return ok
}

// Apply returns a new slice holding entries ordered by col in direction dir.
// The sort is stable for both directions; Desc negates the comparator rather
// than reversing the ascending result, so ties keep their input order.
// The input slice is never modified.
func Apply(entries []model.Entry, col model.Column, dir model.Direction) []model.Entry {
	out := slices.Clone(entries)
	if len(out) < 2 {
		return out
	}
	if col == model.ColumnName {
		return byName(out, dir)
	}
	get, ok := numeric[col]
	if !ok {
		return out
	}
	sign := direction(dir)
	slices.SortStableFunc(out, func(a, b model.Entry) int {
		return sign * cmp.Compare(get(a), get(b))
	})
	return out
}

// byName sorts by the lower-cased name using a locale-aware collator.
// Keys are computed once per entry instead of once per comparison.
func byName(out []model.Entry, dir model.Direction) []model.Entry {
	type keyed struct {
		key   string
		entry model.Entry
	}
	lower := cases.Lower(language.Und)
	items := make([]keyed, len(out))
	for i, e := range out {
		items[i] = keyed{key: lower.String(e.Name), entry: e}
	}

	coll := collate.New(language.Und)
	sign := direction(dir)
	slices.SortStableFunc(items, func(a, b keyed) int {
		return sign * coll.CompareString(a.key, b.key)
	})
	for i := range items {
		out[i] = items[i].entry
	}
	return out
}

func direction(dir model.Direction) int {
	if dir == model.Desc {
		return -1
	}
	return 1
}
