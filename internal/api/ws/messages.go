package ws

import (
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

// Message types
const (
	TypeCompile   = "compile"
	TypePing      = "ping"
	TypePong      = "pong"
	TypeConnected = "connected"
	TypeResult    = "result"
	TypeError     = "error"
)

// ClientMessage is sent by the preview pane
type ClientMessage struct {
	Type      string          `json:"type"`
	Seq       int64           `json:"seq"`
	Framework types.Framework `json:"framework"`
	Files     types.SourceSet `json:"files"`
}

// ServerMessage is sent to the preview pane. Result messages carry the
// outcome fields inline.
type ServerMessage struct {
	Type      string `json:"type"`
	Seq       int64  `json:"seq,omitempty"`
	Message   string `json:"message,omitempty"`
	Duration  int64  `json:"duration_ms,omitempty"`
	Timestamp int64  `json:"timestamp"`
	*types.CompileOutcome
}

// label bounds the metric label set to known message types
func label(msgType string) string {
	switch msgType {
	case TypeCompile, TypePing:
		return msgType
	default:
		return "unknown"
	}
}
