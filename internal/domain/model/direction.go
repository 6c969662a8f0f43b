package model

import "strings"

// Direction is the sort order of the active column.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Flip returns the opposite direction. Anything that is not Desc flips to Desc.
func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

func (d Direction) String() string { return string(d) }

// ParseDirection maps s to a direction, defaulting to Asc.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}
