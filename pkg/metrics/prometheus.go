// Package metrics provides Prometheus metrics for the Guardian recommendation service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the Guardian service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Core Business Metrics - What really matters for a recommendation engine
	recommendations       prometheus.Counter
	proposalsReturned     prometheus.Counter
	emptyRecommendations  prometheus.Counter
	conflictRejections    prometheus.Counter
	recommendationLatency prometheus.Histogram

	// Linchpin Analysis Metrics
	linchpinScans       prometheus.Counter
	linchpinScanLatency prometheus.Histogram
	linchpinCritical    prometheus.Gauge

	// Scoring Metrics
	levelRecomputes       prometheus.Counter
	levelsApplied         prometheus.Counter
	recomputeLatency      prometheus.Histogram
	evidenceParseFailures prometheus.Counter

	// Operational Health Metrics
	totalPeople prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Business Quality Metrics
	recommendationErrors prometheus.Counter
	errorRateByComponent *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "guardian",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Register on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics
	m.recommendations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations_total",
		Help:      "Total number of team recommendation requests served",
	})

	m.proposalsReturned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "proposals_total",
		Help:      "Total number of team proposals returned across all requests",
	})

	m.emptyRecommendations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "empty_recommendations_total",
		Help:      "Total number of requests where no viable team existed",
	})

	m.conflictRejections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "conflict_rejections_total",
		Help:      "Total number of assembled teams discarded over a conflict edge",
	})

	m.recommendationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendation_latency_milliseconds",
		Help:      "Histogram of end-to-end recommendation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Linchpin Analysis Metrics
	m.linchpinScans = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "linchpin_scans_total",
		Help:      "Total number of organization-wide linchpin scans",
	})

	m.linchpinScanLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "linchpin_scan_latency_milliseconds",
		Help:      "Linchpin scan latency in milliseconds (centrality is quadratic)",
		Buckets:   m.histogramBuckets,
	})

	m.linchpinCritical = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "linchpin_critical_count",
		Help:      "Number of CRITICAL-risk people found by the last scan",
	})

	// Scoring Metrics
	m.levelRecomputes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "level_recomputes_total",
		Help:      "Total number of batch level recomputations",
	})

	m.levelsApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "levels_applied_total",
		Help:      "Total number of skill levels written by recompute batches",
	})

	m.recomputeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "level_recompute_latency_milliseconds",
		Help:      "Batch level recompute latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.evidenceParseFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evidence_parse_failures_total",
		Help:      "Total number of evidence records that degraded to undated (data quality)",
	})

	// Operational Health Metrics
	m.totalPeople = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_people",
		Help:      "Total number of people in the directory (business scale)",
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds (user experience)",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Business Quality Metrics
	m.recommendationErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendation_errors_total",
		Help:      "Total number of failed recommendation requests (business impact)",
	})

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordRecommendation increments the recommendations counter.
func RecordRecommendation() {
	globalManager.recommendations.Inc()
}

// RecordProposals adds the number of proposals a request produced.
func RecordProposals(count int) {
	globalManager.proposalsReturned.Add(float64(count))
}

// RecordEmptyRecommendation increments the empty result counter.
func RecordEmptyRecommendation() {
	globalManager.emptyRecommendations.Inc()
}

// RecordConflictRejection increments the conflict-discard counter.
func RecordConflictRejection() {
	globalManager.conflictRejections.Inc()
}

// RecordRecommendationLatency records end-to-end latency in milliseconds.
func RecordRecommendationLatency(latencyMs float64) {
	globalManager.recommendationLatency.Observe(latencyMs)
}

// RecordLinchpinScan increments the scan counter.
func RecordLinchpinScan() {
	globalManager.linchpinScans.Inc()
}

// RecordLinchpinScanLatency records scan latency in milliseconds.
func RecordLinchpinScanLatency(latencyMs float64) {
	globalManager.linchpinScanLatency.Observe(latencyMs)
}

// UpdateLinchpinCritical sets the CRITICAL-risk headcount from the last scan.
func UpdateLinchpinCritical(count int) {
	globalManager.linchpinCritical.Set(float64(count))
}

// RecordLevelRecompute increments the batch recompute counter.
func RecordLevelRecompute() {
	globalManager.levelRecomputes.Inc()
}

// RecordLevelsApplied adds the number of levels a batch wrote.
func RecordLevelsApplied(count int) {
	globalManager.levelsApplied.Add(float64(count))
}

// RecordRecomputeLatency records batch recompute latency in milliseconds.
func RecordRecomputeLatency(latencyMs float64) {
	globalManager.recomputeLatency.Observe(latencyMs)
}

// RecordEvidenceParseFailure increments the degraded-evidence counter.
func RecordEvidenceParseFailure() {
	globalManager.evidenceParseFailures.Inc()
}

// UpdateTotalPeople sets the directory headcount.
func UpdateTotalPeople(count int) {
	globalManager.totalPeople.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRecommendationError increments the failed-request counter.
func RecordRecommendationError() {
	globalManager.recommendationErrors.Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
