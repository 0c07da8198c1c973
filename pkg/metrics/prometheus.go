// Package metrics provides Prometheus metrics for the statistics API client.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Error kinds recorded by errors_total.
const (
	KindInvalidArgument      = "invalid_argument"
	KindMissingArgument      = "missing_argument"
	KindConfirmationRequired = "confirmation_required"
	KindHTTP                 = "http"
	KindDecode               = "decode"
	KindTransport            = "transport"
)

var knownKinds = map[string]struct{}{ //nolint:gochecknoglobals // fixed label set
	KindInvalidArgument:      {},
	KindMissingArgument:      {},
	KindConfirmationRequired: {},
	KindHTTP:                 {},
	KindDecode:               {},
	KindTransport:            {},
}

// Manager manages the Prometheus series for outgoing API requests.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	recordsDecoded  *prometheus.CounterVec
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
// A disabled manager registers nothing and ignores every record call.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "blaseref",
		subsystem:        "client",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.enabled {
		m.initializeMetrics()
	}

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.requests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "requests_total",
			Help:      "Total number of API requests by endpoint and response status code",
		},
		[]string{"endpoint", "status_code"},
	)

	m.requestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "request_duration_milliseconds",
			Help:      "API request duration in milliseconds, headers received",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint"},
	)

	m.errors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_total",
			Help:      "Total number of failed accessor calls by endpoint and error kind",
		},
		[]string{"endpoint", "kind"},
	)

	m.recordsDecoded = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "records_decoded_total",
			Help:      "Total number of records decoded from API responses",
		},
		[]string{"endpoint"},
	)
}

// Enabled reports whether the manager records anything.
func (m *Manager) Enabled() bool {
	return m != nil && m.enabled
}

// RecordRequest counts a completed round trip and observes its duration.
func (m *Manager) RecordRequest(endpoint string, statusCode int, duration time.Duration) {
	if !m.Enabled() {
		return
	}
	m.requests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(float64(duration) / float64(time.Millisecond))
}

// RecordError counts a failed call. kind must be one of the Kind constants.
func (m *Manager) RecordError(endpoint, kind string) error {
	if _, ok := knownKinds[kind]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if !m.Enabled() {
		return nil
	}
	m.errors.WithLabelValues(endpoint, kind).Inc()
	return nil
}

// RecordDecoded adds n decoded records for endpoint.
func (m *Manager) RecordDecoded(endpoint string, n int) {
	if !m.Enabled() || n <= 0 {
		return
	}
	m.recordsDecoded.WithLabelValues(endpoint).Add(float64(n))
}

// Default returns the package-global manager, registered on GetRegistry().
func Default() *Manager {
	return globalManager
}

// RecordRequest records a round trip on the global manager.
func RecordRequest(endpoint string, statusCode int, duration time.Duration) {
	globalManager.RecordRequest(endpoint, statusCode, duration)
}

// RecordError records a failed call on the global manager.
func RecordError(endpoint, kind string) error {
	return globalManager.RecordError(endpoint, kind)
}

// RecordDecoded records decoded records on the global manager.
func RecordDecoded(endpoint string, n int) {
	globalManager.RecordDecoded(endpoint, n)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
