package metrics

import (
	"context"
	"runtime"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultRefreshInterval = 10 * time.Second

// Manager owns the Prometheus collectors of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Raid log activity
	raidsLogged   prometheus.Counter
	raidsUpdated  prometheus.Counter
	raidsDeleted  prometheus.Counter
	raidsImported prometheus.Counter
	storedRaids   prometheus.Gauge
	teammates     prometheus.Gauge
	reportLatency *prometheus.HistogramVec

	// Store
	storeOpLatency *prometheus.HistogramVec
	storeErrors    *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// Runtime
	goroutines  prometheus.Gauge
	memoryBytes prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record* helpers

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry served on /metrics

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "raidlog",
		subsystem:        "service",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     m.histogramBuckets,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.raidsLogged = auto.NewCounter(m.counterOpts("raids_logged_total", "Total number of raids logged"))
	m.raidsUpdated = auto.NewCounter(m.counterOpts("raids_updated_total", "Total number of raid edits"))
	m.raidsDeleted = auto.NewCounter(m.counterOpts("raids_deleted_total", "Total number of raids deleted"))
	m.raidsImported = auto.NewCounter(m.counterOpts("raids_imported_total", "Total number of raids brought in by imports"))
	m.storedRaids = auto.NewGauge(m.gaugeOpts("stored_raids", "Number of raids currently stored"))
	m.teammates = auto.NewGauge(m.gaugeOpts("teammates", "Number of teammates in the roster"))
	m.reportLatency = auto.NewHistogramVec(
		m.histogramOpts("report_build_duration_milliseconds", "Time spent building a stats report"),
		[]string{"filtered"},
	)

	m.storeOpLatency = auto.NewHistogramVec(
		m.histogramOpts("store_operation_duration_milliseconds", "Key-value store operation latency"),
		[]string{"op"},
	)
	m.storeErrors = auto.NewCounterVec(m.counterOpts("store_errors_total", "Key-value store failures"), []string{"op"})

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.goroutines = auto.NewGauge(m.gaugeOpts("goroutines", "Number of goroutines"))
	m.memoryBytes = auto.NewGauge(m.gaugeOpts("heap_alloc_bytes", "Heap bytes allocated"))
}

// RecordRaidLogged increments the logged raids counter.
func RecordRaidLogged() {
	globalManager.raidsLogged.Inc()
}

// RecordRaidUpdated increments the edited raids counter.
func RecordRaidUpdated() {
	globalManager.raidsUpdated.Inc()
}

// RecordRaidDeleted increments the deleted raids counter.
func RecordRaidDeleted() {
	globalManager.raidsDeleted.Inc()
}

// RecordRaidsImported adds n to the imported raids counter.
func RecordRaidsImported(n int) {
	globalManager.raidsImported.Add(float64(n))
}

// UpdateStoredRaids sets the stored raids gauge.
func UpdateStoredRaids(count int) {
	globalManager.storedRaids.Set(float64(count))
}

// UpdateTeammates sets the roster size gauge.
func UpdateTeammates(count int) {
	globalManager.teammates.Set(float64(count))
}

// RecordReportLatency records how long a report took to build.
func RecordReportLatency(filtered bool, latencyMs float64) {
	label := "false"
	if filtered {
		label = "true"
	}
	globalManager.reportLatency.WithLabelValues(label).Observe(latencyMs)
}

// RecordStoreLatency records the latency of a store operation.
func RecordStoreLatency(op string, latencyMs float64) {
	globalManager.storeOpLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordStoreError increments the store error counter for op.
func RecordStoreError(op string) {
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// SampleRuntime updates the runtime gauges once.
func (m *Manager) SampleRuntime() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.goroutines.Set(float64(runtime.NumGoroutine()))
	m.memoryBytes.Set(float64(ms.HeapAlloc))
}

// RunRuntimeSampler samples runtime gauges every refresh interval until ctx
// is done.
func (m *Manager) RunRuntimeSampler(ctx context.Context) {
	ticker := time.NewTicker(m.refreshInterval)
	defer ticker.Stop()
	m.SampleRuntime()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.SampleRuntime()
		}
	}
}

// StartRuntimeSampler runs the global manager's sampler in the background.
func StartRuntimeSampler(ctx context.Context) {
	go globalManager.RunRuntimeSampler(ctx)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Configure rebuilds the global manager with opts on a fresh registry, which
// GetRegistry then returns. Call it once at startup, before anything records.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append(slices.Clone(opts), WithPrometheusRegistry(registry))...)
	customRegistry = registry
}
