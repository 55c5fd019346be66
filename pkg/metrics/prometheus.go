// Package metrics provides Prometheus metrics for the pitchlane analysis engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for an analysis process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Ingestion metrics
	framesIngested  prometheus.Counter
	framesMalformed *prometheus.CounterVec
	framesDuplicate prometheus.Counter

	// Analysis metrics
	possessionEvents   *prometheus.CounterVec
	windowsBuilt       prometheus.Counter
	framesAnalyzed     prometheus.Counter
	pairsAccepted      prometheus.Counter
	interceptorsFound  prometheus.Counter
	obstructedFrames   prometheus.Counter
	frameLatency       prometheus.Histogram
	runDuration        prometheus.Histogram
	runsCompleted      prometheus.Counter
	lastRunFrameCount  prometheus.Gauge
	lastRunTimestampMs prometheus.Gauge

	// Queue and worker metrics
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueEnqueued    prometheus.Counter
	queueRejected    *prometheus.CounterVec
	workerCount      prometheus.Gauge
	workerErrors     prometheus.Counter
	workerProcessing prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorsByComponent *prometheus.CounterVec
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
		namespace:        "pitchlane",
		subsystem:        "analysis",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
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
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.framesIngested = auto.NewCounter(m.counterOpts("frames_ingested_total",
		"Total number of tracking frames accepted into the frame store"))
	m.framesMalformed = auto.NewCounterVec(m.counterOpts("frames_malformed_total",
		"Total number of tracking frames rejected at the ingestion boundary"), []string{"reason"})
	m.framesDuplicate = auto.NewCounter(m.counterOpts("frames_duplicate_total",
		"Total number of frames skipped because their frame number was already stored"))

	m.possessionEvents = auto.NewCounterVec(m.counterOpts("possession_events_total",
		"Total number of possession transitions detected"), []string{"from", "to"})
	m.windowsBuilt = auto.NewCounter(m.counterOpts("windows_built_total",
		"Total number of analysis windows built around possession events"))
	m.framesAnalyzed = auto.NewCounter(m.counterOpts("frames_analyzed_total",
		"Total number of frames run through pairing and interception"))
	m.pairsAccepted = auto.NewCounter(m.counterOpts("pairs_accepted_total",
		"Total number of nearest-neighbour pairs accepted"))
	m.interceptorsFound = auto.NewCounter(m.counterOpts("interceptors_total",
		"Total number of distinct defenders obstructing at least one passing lane, summed over frames"))
	m.obstructedFrames = auto.NewCounter(m.counterOpts("obstructed_frames_total",
		"Total number of frames with at least one obstructing defender"))
	m.frameLatency = auto.NewHistogram(m.histogramOpts("frame_latency_milliseconds",
		"Per-frame pairing and interception latency", m.histogramBuckets))
	m.runDuration = auto.NewHistogram(m.histogramOpts("run_duration_seconds",
		"Duration of complete analysis runs", prometheus.DefBuckets))
	m.runsCompleted = auto.NewCounter(m.counterOpts("runs_completed_total",
		"Total number of completed analysis runs"))
	m.lastRunFrameCount = auto.NewGauge(m.gaugeOpts("last_run_frames",
		"Number of frames stored by the most recent run"))
	m.lastRunTimestampMs = auto.NewGauge(m.gaugeOpts("last_run_timestamp_milliseconds",
		"Unix time in milliseconds when the most recent run completed"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size",
		"Current number of frame jobs waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity",
		"Maximum number of frame jobs the queue accepts"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueued_total",
		"Total number of frame jobs enqueued"))
	m.queueRejected = auto.NewCounterVec(m.counterOpts("queue_rejected_total",
		"Total number of frame jobs rejected by the queue"), []string{"reason"})
	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count",
		"Number of frame workers in the pool"))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total",
		"Total number of frame jobs that failed inside a worker"))
	m.workerProcessing = auto.NewHistogram(m.histogramOpts("worker_processing_milliseconds",
		"Time a worker spends on one frame job including result collection", m.histogramBuckets))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Total number of errors by component"), []string{"component", "error_type"})
}

// RecordFrameIngested increments the accepted frames counter.
func RecordFrameIngested() {
	globalManager.framesIngested.Inc()
}

// RecordFrameMalformed increments the rejected frames counter for a reason.
func RecordFrameMalformed(reason string) {
	globalManager.framesMalformed.WithLabelValues(reason).Inc()
}

// RecordFrameDuplicate increments the duplicate frames counter.
func RecordFrameDuplicate() {
	globalManager.framesDuplicate.Inc()
}

// RecordPossessionEvent increments the possession transition counter.
func RecordPossessionEvent(from, to string) {
	globalManager.possessionEvents.WithLabelValues(from, to).Inc()
}

// RecordWindowsBuilt adds n analysis windows.
func RecordWindowsBuilt(n int) {
	globalManager.windowsBuilt.Add(float64(n))
}

// RecordFrameAnalyzed records one analyzed frame with its pair and interceptor counts.
func RecordFrameAnalyzed(pairs, interceptors int, latencyMs float64) {
	globalManager.framesAnalyzed.Inc()
	globalManager.pairsAccepted.Add(float64(pairs))
	globalManager.interceptorsFound.Add(float64(interceptors))
	if interceptors > 0 {
		globalManager.obstructedFrames.Inc()
	}
	globalManager.frameLatency.Observe(latencyMs)
}

// RecordRunCompleted records a finished analysis run.
func RecordRunCompleted(durationSeconds float64, frames int, finishedUnixMs int64) {
	globalManager.runsCompleted.Inc()
	globalManager.runDuration.Observe(durationSeconds)
	globalManager.lastRunFrameCount.Set(float64(frames))
	globalManager.lastRunTimestampMs.Set(float64(finishedUnixMs))
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueRejected increments the rejected jobs counter for a reason.
func RecordQueueRejected(reason string) {
	globalManager.queueRejected.WithLabelValues(reason).Inc()
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessing.Observe(latencyMs)
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
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
