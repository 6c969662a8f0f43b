package model

import "strings"

// Channel names one of the two independent player populations.
type Channel string

// Known channels.
const (
	ChannelRanked  Channel = "ranked"
	ChannelVanilla Channel = "vanilla"
)

// DefaultChannel is shown when no valid channel was requested.
const DefaultChannel = ChannelRanked

// Channels returns the channels in tab order.
func Channels() []Channel {
	return []Channel{ChannelRanked, ChannelVanilla}
}

// Valid reports whether c is one of the known channels.
func (c Channel) Valid() bool {
	return c == ChannelRanked || c == ChannelVanilla
}

// Label is the human-readable tab title.
func (c Channel) Label() string {
	switch c {
	case ChannelRanked:
		return "Ranked Leaderboard"
	case ChannelVanilla:
		return "Vanilla Leaderboard"
	default:
		return string(c)
	}
}

func (c Channel) String() string { return string(c) }

// ParseChannel maps s to a channel. Unknown or empty input falls back to
// DefaultChannel and reports ok=false.
func ParseChannel(s string) (Channel, bool) {
	c := Channel(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, true
	}
	return DefaultChannel, false
}
