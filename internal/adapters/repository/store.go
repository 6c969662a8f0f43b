// Package repository supplies the resolved leaderboard datasets.
package repository

import (
	"context"

	"github.com/okian/rankview/internal/domain/model"
)

// Source hands over the already-materialized entries of a channel.
// Returned slices are shared and must be treated as read-only.
type Source interface {
	// Entries returns every entry of channel ch in upstream order.
	// Returns ErrUnknownChannel for channels the source does not carry.
	Entries(ctx context.Context, ch model.Channel) ([]model.Entry, error)

	// Count returns the number of entries in channel ch.
	Count(ctx context.Context, ch model.Channel) int

	// Find returns the entry with id in channel ch and its position in
	// upstream order. Returns ErrNotFound when no entry has that id.
	Find(ctx context.Context, ch model.Channel, id string) (model.Entry, int, error)
}

// Dataset holds one entry slice per channel.
type Dataset map[model.Channel][]model.Entry
