package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted        = errors.New("service not started")
	ErrReloadUnsupported = errors.New("source does not support reload")
)
