// Package metrics provides Prometheus metrics for the duelrank service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Judgment flow
	judgments          *prometheus.CounterVec
	pairsServed        *prometheus.CounterVec
	goBacks            prometheus.Counter
	sharedPropagations prometheus.Counter
	sharedReversals    prometheus.Counter

	// Session and persistence health
	activeSessions     prometheus.Gauge
	trackedSets        prometheus.Gauge
	persistenceLatency *prometheus.HistogramVec

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Process health
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "duelrank",
		subsystem:        "ranking",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.judgments = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "judgments_total",
			Help:      "Total judgments recorded, by outcome",
		},
		[]string{"outcome"},
	)

	m.pairsServed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "pairs_served_total",
			Help:      "Total comparison pairs served, by selection strategy",
		},
		[]string{"strategy"},
	)

	m.goBacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "go_backs_total",
		Help:      "Total backward navigations through judgment history",
	})

	m.sharedPropagations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "shared_propagations_total",
		Help:      "Total judgments propagated to a shared track",
	})

	m.sharedReversals = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "shared_reversals_total",
		Help:      "Total shared-track updates reversed by go-backs",
	})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Number of live (set, user) ranking sessions",
	})

	m.trackedSets = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_sets",
		Help:      "Number of ranking sets with a live shared track",
	})

	m.persistenceLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "persistence_latency_seconds",
			Help:      "Rating table load/save latency in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"operation"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by endpoint, method and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated heap bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// Handler returns an http.Handler serving the metrics registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Package-level helpers on the global manager.

// RecordJudgment counts a recorded judgment by outcome.
func RecordJudgment(outcome string) { globalManager.judgments.WithLabelValues(outcome).Inc() }

// RecordPairServed counts a served pair by strategy.
func RecordPairServed(strategy string) { globalManager.pairsServed.WithLabelValues(strategy).Inc() }

// RecordGoBack counts a backward navigation.
func RecordGoBack() { globalManager.goBacks.Inc() }

// RecordSharedPropagation counts a judgment reaching a shared track.
func RecordSharedPropagation() { globalManager.sharedPropagations.Inc() }

// RecordSharedReversal counts a reversed shared-track update.
func RecordSharedReversal() { globalManager.sharedReversals.Inc() }

// UpdateActiveSessions sets the live session gauge.
func UpdateActiveSessions(n int) { globalManager.activeSessions.Set(float64(n)) }

// UpdateTrackedSets sets the live shared-track gauge.
func UpdateTrackedSets(n int) { globalManager.trackedSets.Set(float64(n)) }

// RecordPersistenceLatency observes a load/save duration in seconds.
func RecordPersistenceLatency(operation string, seconds float64) {
	globalManager.persistenceLatency.WithLabelValues(operation).Observe(seconds)
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration in seconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, seconds float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(seconds)
}

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) { globalManager.systemGoroutineCount.Set(float64(n)) }

// Handler returns the global manager's HTTP handler.
func Handler() http.Handler { return globalManager.Handler() }
