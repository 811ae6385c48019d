package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/Sandbox/backend/internal/infrastructure/monitoring"
)

// StatsSnapshot is the JSON view of the service counters
type StatsSnapshot struct {
	Timestamp time.Time                  `json:"timestamp"`
	Service   monitoring.MetricsSnapshot `json:"service"`
	Summary   StatsSummary               `json:"summary"`
}

// StatsSummary provides high-level ratios
type StatsSummary struct {
	AverageLatencyMs   float64 `json:"average_latency_ms"`
	ErrorRate          float64 `json:"error_rate"`
	CompileFailureRate float64 `json:"compile_failure_rate"`
	FallbackRate       float64 `json:"fallback_rate"`
	ActiveStreams      int64   `json:"active_streams"`
	UptimeSeconds      float64 `json:"uptime_seconds"`
}

// Stats returns a JSON snapshot of request and compile counters
func (h *Handlers) Stats(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics disabled"})
		return
	}

	snap := h.metrics.Snapshot()
	c.JSON(http.StatusOK, StatsSnapshot{
		Timestamp: time.Now(),
		Service:   snap,
		Summary:   summarize(snap),
	})
}

func summarize(snap monitoring.MetricsSnapshot) StatsSummary {
	summary := StatsSummary{
		AverageLatencyMs: snap.AvgRequestSeconds * 1000,
		ActiveStreams:    snap.ActiveStreams,
		UptimeSeconds:    snap.UptimeSeconds,
	}
	if snap.TotalRequests > 0 {
		summary.ErrorRate = float64(snap.TotalErrors) / float64(snap.TotalRequests)
	}
	if snap.Compiles > 0 {
		summary.CompileFailureRate = float64(snap.CompileFailures) / float64(snap.Compiles)
		summary.FallbackRate = float64(snap.Fallbacks) / float64(snap.Compiles)
	}
	return summary
}
