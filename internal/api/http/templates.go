package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

// ListTemplates lists template summaries, optionally filtered by ?framework=
func (h *Handlers) ListTemplates(c *gin.Context) {
	var fw types.Framework
	if name := c.Query("framework"); name != "" {
		parsed, err := types.ParseFramework(name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		fw = parsed
	}

	list := h.catalog.List(fw)
	c.JSON(http.StatusOK, gin.H{
		"templates": list,
		"total":     len(list),
	})
}

// GetTemplate returns a template with its files. The id may also be a
// framework name, which selects that framework's default starter.
func (h *Handlers) GetTemplate(c *gin.Context) {
	id := c.Param("id")

	if fw, err := types.ParseFramework(id); err == nil {
		c.JSON(http.StatusOK, h.catalog.ForFramework(fw))
		return
	}

	tmpl, ok := h.catalog.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found", "id": id})
		return
	}
	c.JSON(http.StatusOK, tmpl)
}
