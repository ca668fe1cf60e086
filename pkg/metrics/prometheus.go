// Package metrics provides Prometheus metrics for the clout service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Analysis pipeline
	analysesStarted   prometheus.Counter
	analysesCompleted prometheus.Counter
	analysesFailed    prometheus.Counter
	analysisDuration  prometheus.Histogram
	tracksScored      prometheus.Counter
	tracksSkipped     prometheus.Counter
	inFlight          prometheus.Gauge

	// Spotify fetch layer
	fetchRequests prometheus.Counter
	fetchErrors   prometheus.Counter
	fetchRetries  prometheus.Counter
	fetchLatency  prometheus.Histogram

	// Availability collaborators
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	rateLimited prometheus.Counter
	busyReject  prometheus.Counter

	// History store
	historyRows prometheus.Gauge

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "clout",
		subsystem:        "analysis",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initCollectors()
	return m
}

func (m *Manager) initCollectors() {
	factory := promauto.With(m.registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		})
	}
	histogram := func(name, help string) prometheus.Histogram {
		return factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
			Buckets: m.histogramBuckets,
		})
	}

	m.analysesStarted = counter("analyses_started_total", "Playlist analyses started.")
	m.analysesCompleted = counter("analyses_completed_total", "Playlist analyses completed successfully.")
	m.analysesFailed = counter("analyses_failed_total", "Playlist analyses that ended in an error.")
	m.analysisDuration = histogram("analysis_duration_seconds", "End-to-end playlist analysis duration.")
	m.tracksScored = counter("tracks_scored_total", "Tracks scored across all analyses.")
	m.tracksSkipped = counter("tracks_skipped_total", "Tracks skipped as malformed or unscorable.")
	m.inFlight = gauge("in_flight", "Whether an analysis is currently running (0 or 1).")

	m.fetchRequests = counter("spotify_requests_total", "Requests issued to the Spotify API.")
	m.fetchErrors = counter("spotify_errors_total", "Spotify API requests that failed.")
	m.fetchRetries = counter("spotify_retries_total", "Spotify API requests retried after 429/5xx.")
	m.fetchLatency = histogram("spotify_latency_seconds", "Spotify API request latency.")

	m.cacheHits = counter("cache_hits_total", "Analysis cache hits.")
	m.cacheMisses = counter("cache_misses_total", "Analysis cache misses.")
	m.rateLimited = counter("rate_limited_total", "Requests rejected by per-caller throttling.")
	m.busyReject = counter("busy_rejected_total", "Analyses rejected because one was already in flight.")

	m.historyRows = gauge("history_rows", "Rows in the analysis history store.")

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total", Help: "HTTP requests by endpoint, method, and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_request_duration_seconds", Help: "HTTP request duration by endpoint, method, and status.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// GetRegistry returns the registry backing the global manager, for use
// with promhttp handlers.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers recording against the global manager.

func RecordAnalysisStarted() { globalManager.analysesStarted.Inc() }

func RecordAnalysisCompleted(seconds float64) {
	globalManager.analysesCompleted.Inc()
	globalManager.analysisDuration.Observe(seconds)
}

func RecordAnalysisFailed() { globalManager.analysesFailed.Inc() }

func RecordTracksScored(n int) { globalManager.tracksScored.Add(float64(n)) }

func RecordTracksSkipped(n int) { globalManager.tracksSkipped.Add(float64(n)) }

func UpdateInFlight(running bool) {
	if running {
		globalManager.inFlight.Set(1)
		return
	}
	globalManager.inFlight.Set(0)
}

func RecordFetchRequest(seconds float64) {
	globalManager.fetchRequests.Inc()
	globalManager.fetchLatency.Observe(seconds)
}

func RecordFetchError() { globalManager.fetchErrors.Inc() }

func RecordFetchRetry() { globalManager.fetchRetries.Inc() }

func RecordCacheHit() { globalManager.cacheHits.Inc() }

func RecordCacheMiss() { globalManager.cacheMisses.Inc() }

func RecordRateLimited() { globalManager.rateLimited.Inc() }

func RecordBusyRejected() { globalManager.busyReject.Inc() }

func UpdateHistoryRows(n int) { globalManager.historyRows.Set(float64(n)) }

func RecordHTTPRequest(endpoint, method, status string, seconds float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(seconds)
}
