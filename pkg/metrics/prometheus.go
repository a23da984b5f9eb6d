// Package metrics provides Prometheus metrics for the event dashboard service.
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

// defaultLatencyBuckets are millisecond bounds; section aggregations and SVG
// renders usually land in the low milliseconds.
var defaultLatencyBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500} //nolint:gochecknoglobals // read-only defaults

// Manager manages all Prometheus metrics for the dashboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Dataset Metrics - the record table loaded at startup
	datasetRows         prometheus.Gauge
	datasetLoadDuration prometheus.Histogram
	datasetLoadErrors   prometheus.Counter

	// Section Metrics - one aggregation per dashboard section
	sectionComputations *prometheus.CounterVec
	sectionErrors       *prometheus.CounterVec
	sectionLatency      *prometheus.HistogramVec
	sectionRows         *prometheus.GaugeVec

	// Chart Metrics - renderer output
	chartRenders       *prometheus.CounterVec
	chartRenderErrors  *prometheus.CounterVec
	chartRenderLatency *prometheus.HistogramVec

	// Worker Metrics - pools that compute sections concurrently
	workerBusy *prometheus.GaugeVec
	workerJobs *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics - detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "eventdash",
		subsystem:        "dashboard",
		histogramBuckets: defaultLatencyBuckets,
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

// RefreshInterval returns how often gauge metrics should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Enabled reports whether the manager records observations.
func (m *Manager) Enabled() bool { return m.enabled }

func (m *Manager) name(n string) string { return m.metricPrefix + n }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.datasetRows = auto.NewGauge(m.gaugeOpts(
		"dataset_rows", "Number of participation records in the loaded dataset"))
	m.datasetLoadDuration = auto.NewHistogram(m.histogramOpts(
		"dataset_load_duration_milliseconds", "Dataset load and parse duration in milliseconds"))
	m.datasetLoadErrors = auto.NewCounter(m.counterOpts(
		"dataset_load_errors_total", "Total number of failed dataset loads"))

	m.sectionComputations = auto.NewCounterVec(m.counterOpts(
		"section_computations_total", "Total number of dashboard section aggregations by section"),
		[]string{"section"})
	m.sectionErrors = auto.NewCounterVec(m.counterOpts(
		"section_errors_total", "Total number of failed section aggregations by section and error type"),
		[]string{"section", "error_type"})
	m.sectionLatency = auto.NewHistogramVec(m.histogramOpts(
		"section_latency_milliseconds", "Section aggregation latency in milliseconds"),
		[]string{"section"})
	m.sectionRows = auto.NewGaugeVec(m.gaugeOpts(
		"section_rows", "Number of rows (or buckets) in the last computed section result"),
		[]string{"section"})

	m.chartRenders = auto.NewCounterVec(m.counterOpts(
		"chart_renders_total", "Total number of rendered charts by section and format"),
		[]string{"section", "format"})
	m.chartRenderErrors = auto.NewCounterVec(m.counterOpts(
		"chart_render_errors_total", "Total number of chart render failures by section"),
		[]string{"section"})
	m.chartRenderLatency = auto.NewHistogramVec(m.histogramOpts(
		"chart_render_latency_milliseconds", "Chart render latency in milliseconds"),
		[]string{"section"})

	m.workerBusy = auto.NewGaugeVec(m.gaugeOpts(
		"worker_busy", "Number of workers currently running a job by pool"),
		[]string{"pool"})
	m.workerJobs = auto.NewCounterVec(m.counterOpts(
		"worker_jobs_total", "Total number of jobs run by pool"),
		[]string{"pool"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds (user experience)"),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts(
		"errors_by_component_total", "Total number of errors by component and type"),
		[]string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts(
		"errors_by_type_total", "Total number of errors by type and severity"),
		[]string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Total number of errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts(
		"error_latency_milliseconds", "Latency of operations that ended in an error"),
		[]string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_bytes", "Allocated heap memory in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_milliseconds", "Average GC pause time in milliseconds"))
}

// Manager recording methods. All are no-ops when metrics are disabled.

// RecordDatasetLoadDuration records a successful dataset load.
func (m *Manager) RecordDatasetLoadDuration(ms float64) {
	if m.enabled {
		m.datasetLoadDuration.Observe(ms)
	}
}

// RecordDatasetLoadError increments the failed load counter.
func (m *Manager) RecordDatasetLoadError() {
	if m.enabled {
		m.datasetLoadErrors.Inc()
	}
}

// UpdateDatasetRows sets the dataset row gauge.
func (m *Manager) UpdateDatasetRows(n int) {
	if m.enabled {
		m.datasetRows.Set(float64(n))
	}
}

// RecordSection records one section aggregation and its result size.
func (m *Manager) RecordSection(section string, ms float64, rows int) {
	if !m.enabled {
		return
	}
	m.sectionComputations.WithLabelValues(section).Inc()
	m.sectionLatency.WithLabelValues(section).Observe(ms)
	m.sectionRows.WithLabelValues(section).Set(float64(rows))
}

// RecordSectionError records a failed section aggregation.
func (m *Manager) RecordSectionError(section, errorType string) {
	if !m.enabled {
		return
	}
	m.sectionComputations.WithLabelValues(section).Inc()
	m.sectionErrors.WithLabelValues(section, errorType).Inc()
}

// RecordChartRender records a rendered chart.
func (m *Manager) RecordChartRender(section, format string, ms float64) {
	if !m.enabled {
		return
	}
	m.chartRenders.WithLabelValues(section, format).Inc()
	m.chartRenderLatency.WithLabelValues(section).Observe(ms)
}

// RecordChartRenderError records a failed chart render.
func (m *Manager) RecordChartRenderError(section string) {
	if m.enabled {
		m.chartRenderErrors.WithLabelValues(section).Inc()
	}
}

// UpdateWorkerBusy adds delta to the busy worker gauge of pool.
func (m *Manager) UpdateWorkerBusy(pool string, delta int) {
	if m.enabled {
		m.workerBusy.WithLabelValues(pool).Add(float64(delta))
	}
}

// RecordWorkerJob increments the job counter of pool.
func (m *Manager) RecordWorkerJob(pool string) {
	if m.enabled {
		m.workerJobs.WithLabelValues(pool).Inc()
	}
}

// RecordHTTPRequest increments the HTTP request counter.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	if m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	if m.enabled {
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
	}
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if m.enabled {
		m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// RecordErrorByType records an error with type and severity labels.
func (m *Manager) RecordErrorByType(errorType, severity string) {
	if m.enabled {
		m.errorRateByType.WithLabelValues(errorType, severity).Inc()
	}
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if m.enabled {
		m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func (m *Manager) RecordErrorLatency(component, errorType string, ms float64) {
	if m.enabled {
		m.errorLatency.WithLabelValues(component, errorType).Observe(ms)
	}
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if m.enabled {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	if m.enabled {
		m.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func (m *Manager) RecordSystemGCPauseTime(ms float64) {
	if m.enabled {
		m.systemGCPauseTime.Observe(ms)
	}
}

// Package-level helpers delegate to the global manager.

// RecordDatasetLoadDuration records a successful dataset load.
func RecordDatasetLoadDuration(ms float64) { globalManager.RecordDatasetLoadDuration(ms) }

// RecordDatasetLoadError increments the failed load counter.
func RecordDatasetLoadError() { globalManager.RecordDatasetLoadError() }

// UpdateDatasetRows sets the dataset row gauge.
func UpdateDatasetRows(n int) { globalManager.UpdateDatasetRows(n) }

// RecordSection records one section aggregation and its result size.
func RecordSection(section string, ms float64, rows int) {
	globalManager.RecordSection(section, ms, rows)
}

// RecordSectionError records a failed section aggregation.
func RecordSectionError(section, errorType string) {
	globalManager.RecordSectionError(section, errorType)
}

// RecordChartRender records a rendered chart.
func RecordChartRender(section, format string, ms float64) {
	globalManager.RecordChartRender(section, format, ms)
}

// RecordChartRenderError records a failed chart render.
func RecordChartRenderError(section string) { globalManager.RecordChartRenderError(section) }

// UpdateWorkerBusy adds delta to the busy worker gauge of pool.
func UpdateWorkerBusy(pool string, delta int) { globalManager.UpdateWorkerBusy(pool, delta) }

// RecordWorkerJob increments the job counter of pool.
func RecordWorkerJob(pool string) { globalManager.RecordWorkerJob(pool) }

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, ms)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.RecordErrorByType(errorType, severity)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, ms float64) {
	globalManager.RecordErrorLatency(component, errorType, ms)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) { globalManager.UpdateSystemGoroutineCount(count) }

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(ms float64) { globalManager.RecordSystemGCPauseTime(ms) }

// RefreshInterval returns how often the global manager's gauges should be
// republished.
func RefreshInterval() time.Duration { return globalManager.RefreshInterval() }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
