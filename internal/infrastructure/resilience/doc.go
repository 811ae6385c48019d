/*
Package resilience provides a circuit breaker for calls to the compile service.

# Overview

When the compile service is down, the breaker fails calls immediately so the
pipeline falls back to its in-process transform without waiting on timeouts.

# Usage

	breaker := resilience.New("compile-service", resilience.CompileService(
		func(name string, from, to resilience.State) {
			logger.Warn("breaker state", zap.String("from", from.String()), zap.String("to", to.String()))
		},
	))

	outcome, err := resilience.Call(breaker, func() (types.CompileOutcome, error) {
		return client.compile(ctx, fw, set)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open

Caller cancellation (context.Canceled) does not count as a failure.
*/
package resilience
