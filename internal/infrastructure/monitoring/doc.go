/*
Package monitoring provides Prometheus metrics for the sandbox backend.

# Features

- HTTP request metrics (latency, throughput, response size)
- Pipeline runs by framework, compile path and result
- Compile service calls and circuit breaker state
- Compile cache hit ratio
- Preview stream connections and messages

Metrics live on a dedicated registry so tests can build collectors freely.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	p := pipeline.New(pipeline.WithObserver(metrics))
*/
package monitoring
