// Package main is the entry point for the sandbox preview backend server.
//
// The server turns multi-file browser projects (vanilla, React, Vue,
// Svelte) into single self-contained preview documents.
//
// Architecture:
//
//	Editor → Go Backend → pipeline → compile service (remote or in process)
//	                             ↘ in-process transformer (fallback)
//
// The server provides:
//   - REST API for compiling and previewing projects
//   - WebSocket preview stream with debouncing
//   - Starter templates
//   - Prometheus metrics and rate limiting
//
// Configuration:
//   - Environment variables (12-factor), optionally from .env
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -compiler http://compiler:8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
