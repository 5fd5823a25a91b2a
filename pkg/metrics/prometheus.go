// Package metrics provides Prometheus metrics for the jobfeed service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// CRM search
	crmRequests *prometheus.CounterVec
	crmLatency  prometheus.Histogram

	// Pipeline
	recordsFetched prometheus.Counter
	recordsHidden  prometheus.Counter
	jobsReturned   prometheus.Histogram

	// Image transform
	imageTransforms *prometheus.CounterVec
	imageBytesIn    prometheus.Counter
	imageBytesOut   prometheus.Counter
	imageLatency    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "jobfeed",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for all collectors
	auto := promauto.With(m.registry)
	if !m.enabled {
		// Collectors still exist so callers never nil-check, they just aren't exported.
		auto = promauto.With(nil)
	}

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint, method and status code",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "Error responses by endpoint, method and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.crmRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "crm",
		Name:        "search_requests_total",
		Help:        "CRM record searches by outcome (ok, upstream_error, transport_error, not_configured)",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.crmLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "crm",
		Name:        "search_latency_milliseconds",
		Help:        "Latency of CRM record searches in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.recordsFetched = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "pipeline",
		Name:        "records_fetched_total",
		Help:        "Raw records returned by the CRM",
		ConstLabels: m.constLabels,
	})

	m.recordsHidden = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "pipeline",
		Name:        "records_hidden_total",
		Help:        "Raw records dropped by the visibility filter",
		ConstLabels: m.constLabels,
	})

	m.jobsReturned = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "pipeline",
		Name:        "jobs_returned",
		Help:        "Number of jobs in each successful response",
		Buckets:     []float64{0, 1, 2, 3, 5, 8, 12},
		ConstLabels: m.constLabels,
	})

	m.imageTransforms = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "image",
		Name:        "transforms_total",
		Help:        "Image transforms by output format and outcome",
		ConstLabels: m.constLabels,
	}, []string{"format", "outcome"})

	m.imageBytesIn = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "image",
		Name:        "bytes_in_total",
		Help:        "Bytes fetched from image origins",
		ConstLabels: m.constLabels,
	})

	m.imageBytesOut = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "image",
		Name:        "bytes_out_total",
		Help:        "Bytes of re-encoded images served",
		ConstLabels: m.constLabels,
	})

	m.imageLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "image",
		Name:        "transform_latency_milliseconds",
		Help:        "Fetch plus re-encode latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
}

// HTTP Metrics Functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// CRM Metrics Functions.

// CRM search outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeUpstreamError  = "upstream_error"
	OutcomeTransportError = "transport_error"
	OutcomeNotConfigured  = "not_configured"
)

// RecordCRMSearch counts a CRM search by outcome.
func RecordCRMSearch(outcome string) {
	globalManager.crmRequests.WithLabelValues(outcome).Inc()
}

// RecordCRMLatency records CRM search latency.
func RecordCRMLatency(latencyMs float64) {
	globalManager.crmLatency.Observe(latencyMs)
}

// Pipeline Metrics Functions.

// RecordRecordsFetched adds n raw records received from the CRM.
func RecordRecordsFetched(n int) {
	globalManager.recordsFetched.Add(float64(n))
}

// RecordRecordsHidden adds n records removed by the visibility filter.
func RecordRecordsHidden(n int) {
	globalManager.recordsHidden.Add(float64(n))
}

// RecordJobsReturned observes the size of a response.
func RecordJobsReturned(n int) {
	globalManager.jobsReturned.Observe(float64(n))
}

// Image Metrics Functions.

// RecordImageTransform counts an image transform.
func RecordImageTransform(format, outcome string) {
	globalManager.imageTransforms.WithLabelValues(format, outcome).Inc()
}

// RecordImageBytes adds fetched and served byte counts.
func RecordImageBytes(in, out int) {
	globalManager.imageBytesIn.Add(float64(in))
	globalManager.imageBytesOut.Add(float64(out))
}

// RecordImageLatency records transform latency.
func RecordImageLatency(latencyMs float64) {
	globalManager.imageLatency.Observe(latencyMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
