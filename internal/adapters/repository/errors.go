package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound       = errors.New("player not found")
	ErrUnknownChannel = errors.New("unknown channel")
	ErrDecode         = errors.New("decode dataset failed")
	ErrLoadSource     = errors.New("load dataset failed")
)
