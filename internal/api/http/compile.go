package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/Sandbox/backend/internal/pipeline"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/utils"
)

// CompileRequest is the body of the compile and preview endpoints
type CompileRequest struct {
	Framework string          `json:"framework" binding:"max=32"`
	Files     types.SourceSet `json:"files"`
}

// bindCompile parses the body and resolves the framework, preferring the
// :framework path segment over the body field. A rejected request comes back
// as a failure outcome with the status to send it with.
func (h *Handlers) bindCompile(c *gin.Context) (types.CompileRequest, *types.CompileOutcome) {
	reject := func(err error) (types.CompileRequest, *types.CompileOutcome) {
		outcome := pipeline.Rejected(err)
		return types.CompileRequest{}, &outcome
	}

	var req CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return reject(fmt.Errorf("invalid request body: %w", err))
	}

	name := req.Framework
	if param := c.Param("framework"); param != "" {
		name = param
	}
	if name == "" {
		return reject(errors.New("framework is required"))
	}
	fw, err := types.ParseFramework(name)
	if err != nil {
		return reject(err)
	}

	if err := utils.ValidateSourceSet(req.Files, h.compiler.Limits()); err != nil {
		return reject(err)
	}
	return types.CompileRequest{Framework: fw, Files: req.Files}, nil
}

// Compile runs the authoritative compile service. Build failures are
// reported with 200 and success:false.
func (h *Handlers) Compile(c *gin.Context) {
	req, rejected := h.bindCompile(c)
	if rejected != nil {
		c.JSON(http.StatusBadRequest, rejected)
		return
	}

	outcome := h.compiler.Compile(c.Request.Context(), req.Framework, req.Files)
	if !outcome.Success {
		h.logger.Debug("compile rejected",
			zap.String("framework", req.Framework.String()),
			zap.String("file", outcome.Error.File),
			zap.String("message", outcome.Error.Message))
	}
	c.JSON(http.StatusOK, outcome)
}

// Preview runs the full pipeline and returns the outcome
func (h *Handlers) Preview(c *gin.Context) {
	req, rejected := h.bindCompile(c)
	if rejected != nil {
		c.JSON(http.StatusBadRequest, rejected)
		return
	}
	c.JSON(http.StatusOK, h.pipeline.Compile(c.Request.Context(), req))
}

// Render runs the full pipeline and returns the document itself, or an
// error page when the compile failed
func (h *Handlers) Render(c *gin.Context) {
	req, rejected := h.bindCompile(c)
	if rejected != nil {
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8", []byte(h.errorPage(*rejected.Error)))
		return
	}

	outcome := h.pipeline.Compile(c.Request.Context(), req)
	if outcome.Success {
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(outcome.Document))
		return
	}
	if outcome.Error == nil {
		h.logger.Error("pipeline returned an outcome without error", zap.String("framework", req.Framework.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid compile outcome"})
		return
	}
	c.Data(http.StatusUnprocessableEntity, "text/html; charset=utf-8", []byte(h.errorPage(*outcome.Error)))
}
