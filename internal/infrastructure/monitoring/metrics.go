package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GriffinCanCode/Sandbox/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/Sandbox/backend/internal/pipeline"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Compile metrics
	CompilesTotal   *prometheus.CounterVec
	CompileDuration *prometheus.HistogramVec
	RemoteCalls     *prometheus.CounterVec
	BreakerState    *prometheus.GaugeVec
	CacheLookups    *prometheus.CounterVec

	// Preview stream metrics
	StreamConnections prometheus.Gauge
	StreamMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for the JSON stats endpoint
	snapshot MetricsSnapshot
	mu       sync.RWMutex
}

// MetricsSnapshot holds current metric values for the JSON API
type MetricsSnapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	Compiles          int64   `json:"compiles"`
	CompileFailures   int64   `json:"compile_failures"`
	Fallbacks         int64   `json:"fallbacks"`
	ActiveStreams     int64   `json:"active_streams"`
	AvgRequestSeconds float64 `json:"avg_request_seconds"`
	UptimeSeconds     float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a collector on its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sandbox_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sandbox_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sandbox_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		CompilesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sandbox_compiles_total",
				Help: "Pipeline runs by framework, compile path and result",
			},
			[]string{"framework", "path", "result"},
		),
		CompileDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sandbox_compile_duration_seconds",
				Help:    "Pipeline run duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"framework", "path"},
		),
		RemoteCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sandbox_remote_compile_calls_total",
				Help: "Calls to the compile service by result",
			},
			[]string{"result"},
		),
		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sandbox_circuit_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sandbox_compile_cache_lookups_total",
				Help: "Compile cache lookups by result",
			},
			[]string{"result"},
		),

		StreamConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "sandbox_preview_streams",
				Help: "Number of open preview streams",
			},
		),
		StreamMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sandbox_preview_stream_messages_total",
				Help: "Preview stream messages by direction and type",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "sandbox_uptime_seconds",
			Help: "Backend uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// ObserveRun records a pipeline run
func (m *Metrics) ObserveRun(r pipeline.Report) {
	result := "success"
	if !r.Success {
		result = "failure"
	}
	m.CompilesTotal.WithLabelValues(r.Framework.String(), r.Path, result).Inc()
	m.CompileDuration.WithLabelValues(r.Framework.String(), r.Path).Observe(r.Duration.Seconds())

	m.mu.Lock()
	m.snapshot.Compiles++
	if !r.Success {
		m.snapshot.CompileFailures++
	}
	if r.Path == "fallback" {
		m.snapshot.Fallbacks++
	}
	m.mu.Unlock()
}

// RecordRemoteCall records a compile service call result
func (m *Metrics) RecordRemoteCall(result string) {
	m.RemoteCalls.WithLabelValues(result).Inc()
}

// RecordBreakerState tracks breaker transitions; usable as OnStateChange
func (m *Metrics) RecordBreakerState(name string, _ resilience.State, to resilience.State) {
	m.BreakerState.WithLabelValues(name).Set(float64(to))
}

// RecordCacheLookup records a compile cache hit or miss
func (m *Metrics) RecordCacheLookup(hit bool) {
	if hit {
		m.CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

// RecordStreamMessage records a preview stream message
func (m *Metrics) RecordStreamMessage(direction, msgType string) {
	m.StreamMessages.WithLabelValues(direction, msgType).Inc()
}

// IncStreams increments open preview streams
func (m *Metrics) IncStreams() {
	m.StreamConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveStreams++
	m.mu.Unlock()
}

// DecStreams decrements open preview streams
func (m *Metrics) DecStreams() {
	m.StreamConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveStreams--
	m.mu.Unlock()
}

// Snapshot returns current values for the JSON stats endpoint
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := m.snapshot
	if snap.TotalRequests > 0 {
		snap.AvgRequestSeconds = snap.totalDuration / float64(snap.TotalRequests)
	}
	snap.UptimeSeconds = time.Since(m.startTime).Seconds()
	return snap
}
