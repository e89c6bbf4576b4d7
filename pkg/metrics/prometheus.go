// Package metrics provides Prometheus metrics for the game log service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Game log metrics.
	rowsLogged    *prometheus.CounterVec
	rowsTruncated prometheus.Counter
	eventCount    prometheus.Gauge
	pointNumber   prometheus.Gauge

	// Command pipeline metrics.
	commandsApplied   *prometheus.CounterVec
	commandErrors     *prometheus.CounterVec
	commandLatency    prometheus.Histogram
	duplicateCommands prometheus.Counter

	// Queue metrics.
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ultilog",
		subsystem:        "game",
		histogramBuckets: prometheus.DefBuckets,
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
	auto := promauto.With(m.registry)

	m.rowsLogged = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rows_logged_total",
			Help:      "Total number of event rows appended, by event kind",
		},
		[]string{"kind"},
	)

	m.rowsTruncated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_truncated_total",
		Help:      "Total number of rows removed by undo or drop revocation",
	})

	m.eventCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "event_count",
		Help:      "Current number of rows in the game log",
	})

	m.pointNumber = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "point_number",
		Help:      "Current point number",
	})

	m.commandsApplied = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "commands_applied_total",
			Help:      "Total number of commands applied by the writer, by kind",
		},
		[]string{"kind"},
	)

	m.commandErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "command_errors_total",
			Help:      "Total number of commands rejected by the state machine, by kind",
		},
		[]string{"kind"},
	)

	m.commandLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "command_latency_milliseconds",
		Help:      "Histogram of command apply latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.duplicateCommands = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_commands_total",
		Help:      "Total number of retried commands short-circuited by idempotency tracking",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "command_queue_size",
		Help:      "Current size of the command queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "command_queue_capacity",
		Help:      "Configured capacity of the command queue",
	})

	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "command_queue_enqueues_total",
		Help:      "Total number of commands enqueued",
	})

	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "command_queue_dequeues_total",
		Help:      "Total number of commands dequeued",
	})

	m.queueEnqueueErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "command_queue_enqueue_errors_total",
			Help:      "Total number of rejected enqueues, by reason",
		},
		[]string{"reason"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Package-level recording helpers on the global manager.

// RecordRowLogged increments the row counter for an event kind.
func RecordRowLogged(kind string) {
	globalManager.rowsLogged.WithLabelValues(kind).Inc()
}

// RecordRowsTruncated adds removed rows to the truncation counter.
func RecordRowsTruncated(n int) {
	globalManager.rowsTruncated.Add(float64(n))
}

// UpdateEventCount sets the current log length gauge.
func UpdateEventCount(n int) {
	globalManager.eventCount.Set(float64(n))
}

// UpdatePointNumber sets the current point gauge.
func UpdatePointNumber(point int) {
	globalManager.pointNumber.Set(float64(point))
}

// RecordCommandApplied increments the applied-command counter for a kind.
func RecordCommandApplied(kind string) {
	globalManager.commandsApplied.WithLabelValues(kind).Inc()
}

// RecordCommandError increments the rejected-command counter for a kind.
func RecordCommandError(kind string) {
	globalManager.commandErrors.WithLabelValues(kind).Inc()
}

// RecordCommandLatency observes one command apply latency in milliseconds.
func RecordCommandLatency(latencyMs float64) {
	globalManager.commandLatency.Observe(latencyMs)
}

// RecordDuplicateCommand increments the idempotency short-circuit counter.
func RecordDuplicateCommand() {
	globalManager.duplicateCommands.Inc()
}

// UpdateQueueSize sets the command queue length gauge.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the command queue capacity gauge.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueues.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeues.Inc()
}

// RecordQueueEnqueueError increments the rejected-enqueue counter.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
