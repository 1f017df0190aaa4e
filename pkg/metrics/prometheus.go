// Package metrics provides Prometheus metrics for the medalcast service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exposed by medalcast.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Forecast engine
	forecastsTotal   *prometheus.CounterVec
	forecastDuration *prometheus.HistogramVec
	fallbacksTotal   *prometheus.CounterVec
	modelFailures    *prometheus.CounterVec

	// Artifact cache
	artifactCacheHits    prometheus.Counter
	artifactCacheMisses  prometheus.Counter
	artifactCacheEntries prometheus.Gauge
	artifactLoadDuration prometheus.Histogram

	// Dataset
	datasetLoads        *prometheus.CounterVec
	datasetLoadDuration prometheus.Histogram
	datasetRecords      prometheus.Gauge
	datasetDropped      prometheus.Gauge
	knownEntities       *prometheus.GaugeVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level recorders

// customRegistry keeps the default Go collectors out of /metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // shared registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "medalcast",
		subsystem:        "forecast",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
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

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for all collectors
	auto := promauto.With(m.registry)

	m.forecastsTotal = auto.NewCounterVec(
		m.counterOpts("forecasts_total", "Forecasts served by request kind and the tier that produced them"),
		[]string{"kind", "source"},
	)
	m.forecastDuration = auto.NewHistogramVec(
		m.histogramOpts("forecast_duration_milliseconds", "Forecast computation time in milliseconds", m.histogramBuckets),
		[]string{"kind"},
	)
	m.fallbacksTotal = auto.NewCounterVec(
		m.counterOpts("fallbacks_total", "Times a tier yielded no result and the chain moved on"),
		[]string{"kind", "from"},
	)
	m.modelFailures = auto.NewCounterVec(
		m.counterOpts("model_failures_total", "Model artifact load or inference failures recovered locally"),
		[]string{"artifact", "reason"},
	)

	m.artifactCacheHits = auto.NewCounter(m.counterOpts("artifact_cache_hits_total", "Artifact cache hits"))
	m.artifactCacheMisses = auto.NewCounter(m.counterOpts("artifact_cache_misses_total", "Artifact cache misses"))
	m.artifactCacheEntries = auto.NewGauge(m.gaugeOpts("artifact_cache_entries", "Artifacts currently cached"))
	m.artifactLoadDuration = auto.NewHistogram(
		m.histogramOpts("artifact_load_duration_milliseconds", "Artifact load time in milliseconds", m.histogramBuckets),
	)

	m.datasetLoads = auto.NewCounterVec(
		m.counterOpts("dataset_loads_total", "Dataset load attempts by result"),
		[]string{"result"},
	)
	m.datasetLoadDuration = auto.NewHistogram(
		m.histogramOpts("dataset_load_duration_milliseconds", "Dataset load and aggregation time in milliseconds", m.histogramBuckets),
	)
	m.datasetRecords = auto.NewGauge(m.gaugeOpts("dataset_records", "Medal records aggregated from the current dataset"))
	m.datasetDropped = auto.NewGauge(m.gaugeOpts("dataset_dropped_records", "Medal records dropped during aggregation"))
	m.knownEntities = auto.NewGaugeVec(
		m.gaugeOpts("known_entities", "Distinct entities in the current dataset"),
		[]string{"kind"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "Average GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// Forecast engine.

// RecordForecast counts a served forecast and its latency.
func RecordForecast(kind, source string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.forecastsTotal.WithLabelValues(kind, source).Inc()
	globalManager.forecastDuration.WithLabelValues(kind).Observe(durationMs)
}

// RecordFallback counts a tier that produced nothing.
func RecordFallback(kind, from string) {
	if !globalManager.enabled {
		return
	}
	globalManager.fallbacksTotal.WithLabelValues(kind, from).Inc()
}

// RecordModelFailure counts a recovered artifact failure.
func RecordModelFailure(artifact, reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.modelFailures.WithLabelValues(artifact, reason).Inc()
}

// Artifact cache.

// RecordArtifactCacheHit increments the cache hit counter.
func RecordArtifactCacheHit() {
	if globalManager.enabled {
		globalManager.artifactCacheHits.Inc()
	}
}

// RecordArtifactCacheMiss increments the cache miss counter.
func RecordArtifactCacheMiss() {
	if globalManager.enabled {
		globalManager.artifactCacheMisses.Inc()
	}
}

// UpdateArtifactCacheEntries sets the number of cached artifacts.
func UpdateArtifactCacheEntries(n int) {
	if globalManager.enabled {
		globalManager.artifactCacheEntries.Set(float64(n))
	}
}

// RecordArtifactLoad observes how long an artifact load took.
func RecordArtifactLoad(durationMs float64) {
	if globalManager.enabled {
		globalManager.artifactLoadDuration.Observe(durationMs)
	}
}

// Dataset.

// RecordDatasetLoad counts a dataset load attempt; result is "ok" or "error".
func RecordDatasetLoad(result string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.datasetLoads.WithLabelValues(result).Inc()
	globalManager.datasetLoadDuration.Observe(durationMs)
}

// UpdateDatasetRecords sets the aggregated and dropped record gauges.
func UpdateDatasetRecords(records, dropped int) {
	if !globalManager.enabled {
		return
	}
	globalManager.datasetRecords.Set(float64(records))
	globalManager.datasetDropped.Set(float64(dropped))
}

// UpdateKnownEntities sets the entity gauge for kind (countries, athletes, sports).
func UpdateKnownEntities(kind string, n int) {
	if globalManager.enabled {
		globalManager.knownEntities.WithLabelValues(kind).Set(float64(n))
	}
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if globalManager.enabled {
		globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
	}
}

// System.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if globalManager.enabled {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// SetEnabled toggles the package-level recorders.
func SetEnabled(enabled bool) {
	globalManager.enabled = enabled
}

// GetRegistry returns the registry backing the package-level recorders.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
