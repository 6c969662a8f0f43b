package model

// ViewState is the transient state owned by a leaderboard view.
// It is a value: every transition returns a new ViewState.
type ViewState struct {
	SearchQuery   string    `json:"search_query"`
	SortColumn    Column    `json:"sort_column"`
	SortDirection Direction `json:"sort_direction"`
	ActiveDataset Channel   `json:"active_dataset"`
}

// DefaultViewState is the state a view starts in.
func DefaultViewState() ViewState {
	return ViewState{
		SearchQuery:   "",
		SortColumn:    ColumnRank,
		SortDirection: Asc,
		ActiveDataset: DefaultChannel,
	}
}

// WithDataset replaces the active dataset. Search and sort are kept.
func (s ViewState) WithDataset(c Channel) ViewState {
	s.ActiveDataset = c
	return s
}

// WithSearch replaces the search query.
func (s ViewState) WithSearch(q string) ViewState {
	s.SearchQuery = q
	return s
}

// WithToggledSort flips the direction when col is already active, otherwise
// makes col active in ascending order.
func (s ViewState) WithToggledSort(col Column) ViewState {
	if s.SortColumn == col {
		s.SortDirection = s.SortDirection.Flip()
		return s
	}
	s.SortColumn = col
	s.SortDirection = Asc
	return s
}

// Key identifies the derived (filtered and sorted) list for this state.
// Scroll position is not part of it.
type Key struct {
	Dataset   Channel
	Query     string
	Column    Column
	Direction Direction
}

// Key returns the memoization key of s.
func (s ViewState) Key() Key {
	return Key{
		Dataset:   s.ActiveDataset,
		Query:     s.SearchQuery,
		Column:    s.SortColumn,
		Direction: s.SortDirection,
	}
}
