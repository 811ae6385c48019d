// Package http provides HTTP handlers for the sandbox preview REST API.
//
// This package implements all HTTP endpoints using the Gin framework, including
// health checks, compilation, preview rendering and starter templates.
//
// Endpoints:
//   - Health: / and /health
//   - Compile service: /api/compile, /api/compile/:framework
//   - Preview: /api/preview, /api/preview/render
//   - Templates: /api/templates, /api/templates/:id, /api/frameworks
//   - Preview console: /api/logs
//   - Stats: /api/stats
//
// Compile failures are not HTTP errors: the compile and preview endpoints
// answer 200 with success:false. Only malformed or oversized requests get 4xx.
//
// Example Usage:
//
//	handlers := http.NewHandlers(p, svc, catalog, metrics, logger.Logger)
//	router.POST("/api/preview", handlers.Preview)
//	router.GET("/api/templates/:id", handlers.GetTemplate)
package http
