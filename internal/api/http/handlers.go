package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/Sandbox/backend/internal/compiler"
	"github.com/GriffinCanCode/Sandbox/backend/internal/domain/templates"
	"github.com/GriffinCanCode/Sandbox/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/Sandbox/backend/internal/pipeline"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

const (
	serviceName = "Sandbox Preview Service (Go)"
	version     = "0.3.0"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	pipeline  *pipeline.Pipeline
	compiler  *compiler.Service
	catalog   *templates.Catalog
	metrics   *monitoring.Metrics
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
	startedAt time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(
	p *pipeline.Pipeline,
	svc *compiler.Service,
	catalog *templates.Catalog,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		pipeline:  p,
		compiler:  svc,
		catalog:   catalog,
		metrics:   metrics,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": serviceName,
		"version": version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	limits := h.compiler.Limits()
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"uptime_seconds": time.Since(h.startedAt).Seconds(),
		"frameworks":     types.Frameworks(),
		"compiler": gin.H{
			"max_files":      limits.MaxFiles,
			"max_file_bytes": limits.MaxFileBytes,
			"max_bytes":      limits.MaxBytes,
		},
		"templates": len(h.catalog.List("")),
	})
}

// Frameworks lists the supported frameworks with display metadata
func (h *Handlers) Frameworks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"frameworks": h.catalog.Frameworks(),
	})
}
