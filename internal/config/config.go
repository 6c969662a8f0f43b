// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error kinds.
package config

import (
	"fmt"

	"github.com/okian/rankview/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataFile points at the JSON dataset document. Empty serves empty channels.
	DataFile string `koanf:"data_file"`

	// RowHeight is the fixed pixel height of one leaderboard row.
	RowHeight int `koanf:"row_height"`

	// Overscan is the number of extra rows rendered above and below the viewport.
	Overscan int `koanf:"overscan"`

	// ViewportHeight is the container height used when a request carries none.
	ViewportHeight int `koanf:"viewport_height"`

	// MaxViewportHeight caps the container height a request may ask for.
	MaxViewportHeight int `koanf:"max_viewport_height"`

	// DefaultChannel is the dataset shown when no type is selected.
	DefaultChannel string `koanf:"default_channel"`

	// SearchDebounceMS delays search re-filtering in the terminal client.
	SearchDebounceMS int `koanf:"search_debounce_ms"`

	// MemoSize bounds the derived-list cache. Zero disables eviction.
	MemoSize int `koanf:"memo_size"`

	// WarmupWorkers precomputes unfiltered orderings in the background after
	// start and reload. Zero disables warm-up.
	WarmupWorkers int `koanf:"warmup_workers"`

	// HotStreak is the win streak at which a row earns the hot streak badge.
	HotStreak int `koanf:"hot_streak"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		RowHeight:         39,
		Overscan:          12,
		ViewportHeight:    600,
		MaxViewportHeight: 10_000,
		DefaultChannel:    string(model.ChannelRanked),
		SearchDebounceMS:  150,
		MemoSize:          64,
		WarmupWorkers:     2,
		HotStreak:         3,
	}
}

// Channel returns the parsed default channel.
func (c *Config) Channel() model.Channel {
	ch, _ := model.ParseChannel(c.DefaultChannel)
	return ch
}

// Validate reports the first setting that cannot drive the view engine.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RowHeight <= 0:
		return fmt.Errorf("%w: row_height must be positive, got %d", ErrInvalidConfig, c.RowHeight)
	case c.Overscan < 0:
		return fmt.Errorf("%w: overscan must not be negative, got %d", ErrInvalidConfig, c.Overscan)
	case c.ViewportHeight < 0:
		return fmt.Errorf("%w: viewport_height must not be negative, got %d", ErrInvalidConfig, c.ViewportHeight)
	case c.MaxViewportHeight < c.ViewportHeight:
		return fmt.Errorf("%w: max_viewport_height %d below viewport_height %d",
			ErrInvalidConfig, c.MaxViewportHeight, c.ViewportHeight)
	case c.SearchDebounceMS < 0:
		return fmt.Errorf("%w: search_debounce_ms must not be negative", ErrInvalidConfig)
	case c.MemoSize < 0:
		return fmt.Errorf("%w: memo_size must not be negative", ErrInvalidConfig)
	case c.WarmupWorkers < 0:
		return fmt.Errorf("%w: warmup_workers must not be negative", ErrInvalidConfig)
	case c.HotStreak <= 0:
		return fmt.Errorf("%w: hot_streak must be positive", ErrInvalidConfig)
	}
	if _, ok := model.ParseChannel(c.DefaultChannel); !ok {
		return fmt.Errorf("%w: unknown default_channel %q", ErrInvalidConfig, c.DefaultChannel)
	}
	return nil
}
