// Package server assembles the sandbox preview HTTP server.
//
// NewServer builds every component from configuration: metrics and tracing,
// the compile service with its cache and toolchains, the remote or
// in-process compiler the pipeline consults first, the handlers and the
// preview stream. Middleware runs in this order: recovery, tracing, metrics,
// CORS, rate limiting, gzip.
//
// Usage:
//
//	srv, err := server.NewServer(cfg, logger)
//	go srv.Run()
//	...
//	srv.Shutdown(ctx)
package server
