package worker

import (
	"github.com/okian/rankview/pkg/logger"
	"github.com/okian/rankview/pkg/metrics"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithMetrics records job outcomes on m instead of the default manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(w *InMemoryWorker) {
		if m != nil {
			w.metrics = m
		}
	}
}
