package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxConsoleEntries = 200

// ConsoleEntry is one console message captured inside a preview frame
type ConsoleEntry struct {
	ID        string `json:"id"`
	Type      string `json:"type" binding:"omitempty,oneof=log info success warning error"`
	Message   string `json:"message" binding:"max=8192"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// ConsoleBatch is a batch of console messages from the preview pane
type ConsoleBatch struct {
	Framework string         `json:"framework"`
	Entries   []ConsoleEntry `json:"entries" binding:"required,min=1,dive"`
}

// StreamLogs forwards preview console output into the service log
func (h *Handlers) StreamLogs(c *gin.Context) {
	var batch ConsoleBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log batch: " + err.Error()})
		return
	}
	if len(batch.Entries) > maxConsoleEntries {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too many log entries"})
		return
	}

	log := h.logger.With(zap.String("source", "preview"), zap.String("framework", batch.Framework))
	for _, entry := range batch.Entries {
		fields := []zap.Field{
			zap.String("console_id", entry.ID),
			zap.String("console_source", entry.Source),
			zap.String("console_timestamp", entry.Timestamp),
		}
		switch entry.Type {
		case "error":
			log.Warn(entry.Message, fields...)
		case "warning":
			log.Info(entry.Message, fields...)
		default:
			log.Debug(entry.Message, fields...)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"entries_received": len(batch.Entries),
		"timestamp":        time.Now().Unix(),
	})
}
