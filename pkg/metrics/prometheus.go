// Package metrics provides Prometheus metrics for the rankview service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Pipeline
	pipelineRuns     *prometheus.CounterVec
	pipelineLatency  prometheus.Histogram
	memoHits         prometheus.Counter
	memoMisses       prometheus.Counter
	memoEvictions    prometheus.Counter
	filterMatchRatio prometheus.Histogram

	// Window
	windowComputations prometheus.Counter
	renderedRows       prometheus.Histogram

	// View
	viewActions *prometheus.CounterVec
	datasetSize *prometheus.GaugeVec

	// Warm-up
	warmupJobs      *prometheus.CounterVec
	warmupQueueSize prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rankview",
		subsystem:        "leaderboard",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat collector declarations
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.pipelineRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("pipeline_runs_total"),
		Help:        "Filter and sort passes actually executed, by dataset",
		ConstLabels: labels,
	}, []string{"dataset"})

	m.pipelineLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("pipeline_latency_milliseconds"),
		Help:        "Time spent filtering and sorting a dataset in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.memoHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("memo_hits_total"),
		Help:        "Derived lists served from the memo cache",
		ConstLabels: labels,
	})

	m.memoMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("memo_misses_total"),
		Help:        "Derived lists recomputed because the memo cache had no entry",
		ConstLabels: labels,
	})

	m.memoEvictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("memo_evictions_total"),
		Help:        "Derived lists evicted from the memo cache",
		ConstLabels: labels,
	})

	m.filterMatchRatio = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("filter_match_ratio"),
		Help:        "Share of dataset rows kept by a non-empty search",
		Buckets:     prometheus.LinearBuckets(0.1, 0.1, 10),
		ConstLabels: labels,
	})

	m.windowComputations = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("window_computations_total"),
		Help:        "Viewport window computations",
		ConstLabels: labels,
	})

	m.renderedRows = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("rendered_rows"),
		Help:        "Rows materialized per rendered window",
		Buckets:     prometheus.ExponentialBuckets(1, 2, 10),
		ConstLabels: labels,
	})

	m.viewActions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("view_actions_total"),
		Help:        "User actions applied to leaderboard views",
		ConstLabels: labels,
	}, []string{"action"})

	m.datasetSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_entries"),
		Help:        "Entries currently loaded per dataset",
		ConstLabels: labels,
	}, []string{"dataset"})

	m.warmupJobs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("warmup_jobs_total"),
		Help:        "Memo warm-up jobs by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.warmupQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("warmup_queue_size"),
		Help:        "Memo warm-up jobs waiting for a worker",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_total"),
		Help:        "Errors by component and kind",
		ConstLabels: labels,
	}, []string{"component", "kind"})
}

// RecordPipelineRun counts one executed filter and sort pass.
func (m *Manager) RecordPipelineRun(dataset string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.pipelineRuns.WithLabelValues(dataset).Inc()
	m.pipelineLatency.Observe(latencyMs)
}

// RecordMemoHit counts a derived list served from cache.
func (m *Manager) RecordMemoHit() {
	if m.enabled {
		m.memoHits.Inc()
	}
}

// RecordMemoMiss counts a derived list that had to be recomputed.
func (m *Manager) RecordMemoMiss() {
	if m.enabled {
		m.memoMisses.Inc()
	}
}

// RecordMemoEviction counts a derived list dropped from cache.
func (m *Manager) RecordMemoEviction() {
	if m.enabled {
		m.memoEvictions.Inc()
	}
}

// RecordFilterMatch observes matched/total for a non-empty search.
func (m *Manager) RecordFilterMatch(matched, total int) {
	if !m.enabled || total <= 0 {
		return
	}
	m.filterMatchRatio.Observe(float64(matched) / float64(total))
}

// RecordWindow counts a window computation and the rows it materialized.
func (m *Manager) RecordWindow(rendered int) {
	if !m.enabled {
		return
	}
	m.windowComputations.Inc()
	m.renderedRows.Observe(float64(rendered))
}

// RecordViewAction counts a user action by name.
func (m *Manager) RecordViewAction(action string) {
	if m.enabled {
		m.viewActions.WithLabelValues(action).Inc()
	}
}

// UpdateDatasetSize sets the loaded entry count for a dataset.
func (m *Manager) UpdateDatasetSize(dataset string, count int) {
	if m.enabled {
		m.datasetSize.WithLabelValues(dataset).Set(float64(count))
	}
}

// RecordWarmupJob counts a warm-up job outcome: queued, dropped, derived or failed.
func (m *Manager) RecordWarmupJob(outcome string) {
	if m.enabled {
		m.warmupJobs.WithLabelValues(outcome).Inc()
	}
}

// UpdateWarmupQueueSize publishes the number of pending warm-up jobs.
func (m *Manager) UpdateWarmupQueueSize(n int) {
	if m.enabled {
		m.warmupQueueSize.Set(float64(n))
	}
}

// RecordHTTPRequest counts an HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	if m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes an HTTP request duration in milliseconds.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if m.enabled {
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordError counts an error by component and kind.
func (m *Manager) RecordError(component, kind string) {
	if m.enabled {
		m.errorsByComponent.WithLabelValues(component, kind).Inc()
	}
}

// Default returns the process-wide manager registered on GetRegistry.
func Default() *Manager { return globalManager }

// RecordPipelineRun records on the default manager.
func RecordPipelineRun(dataset string, latencyMs float64) {
	globalManager.RecordPipelineRun(dataset, latencyMs)
}

// RecordMemoHit records on the default manager.
func RecordMemoHit() { globalManager.RecordMemoHit() }

// RecordMemoMiss records on the default manager.
func RecordMemoMiss() { globalManager.RecordMemoMiss() }

// RecordMemoEviction records on the default manager.
func RecordMemoEviction() { globalManager.RecordMemoEviction() }

// RecordFilterMatch records on the default manager.
func RecordFilterMatch(matched, total int) { globalManager.RecordFilterMatch(matched, total) }

// RecordWindow records on the default manager.
func RecordWindow(rendered int) { globalManager.RecordWindow(rendered) }

// RecordViewAction records on the default manager.
func RecordViewAction(action string) { globalManager.RecordViewAction(action) }

// UpdateDatasetSize records on the default manager.
func UpdateDatasetSize(dataset string, count int) { globalManager.UpdateDatasetSize(dataset, count) }

// RecordHTTPRequest records on the default manager.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration records on the default manager.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, durationMs)
}

// RecordErrorByComponent records on the default manager.
func RecordErrorByComponent(component, kind string) {
	globalManager.RecordError(component, kind)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
