// Package ws serves the live preview stream over WebSocket.
//
// A preview pane sends its project on every edit. The handler debounces the
// input, compiles only the most recent project and drops results that were
// superseded while compiling.
//
// Message Types (Client → Server):
//   - compile: {type, seq, framework, files}
//   - ping: Keep-alive ping, answered with pong
//
// Message Types (Server → Client):
//   - connected: Stream ready
//   - result: {seq, success, html | error, warnings, duration_ms}
//   - pong: Reply to ping
//   - error: Malformed or unknown message
//
// Example Usage:
//
//	handler := ws.NewHandler(p, metrics, logger.Logger, ws.DefaultConfig())
//	router.GET("/api/preview/stream", handler.HandleConnection)
package ws
