// Package filter narrows a dataset by player name.
package filter

import (
	"strings"

	"github.com/okian/rankview/internal/domain/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Apply returns the entries whose name contains query, compared
// case-insensitively. An empty query returns entries itself. Otherwise the
// result is a new slice that keeps the input order of the matches.
func Apply(entries []model.Entry, query string) []model.Entry {
	if query == "" {
		return entries
	}
	// Casers keep state between calls and are not safe for concurrent use.
	lower := cases.Lower(language.Und)
	needle := lower.String(query)

	out := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(lower.String(e.Name), needle) {
			out = append(out, e)
		}
	}
	return out
}
