/*
Package tracing provides lightweight request tracing.

Spans are created per HTTP request and per compile, logged through zap when
finished, and propagated to the compile service with the X-Trace-ID and
X-Span-ID headers so both sides log the same trace id.

# Usage

	tracer := tracing.New("sandbox-backend", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "pipeline.compile")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
*/
package tracing
