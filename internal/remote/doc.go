// Package remote talks to a standalone compile service over HTTP.
//
// The client is resty on a retryablehttp transport, guarded by a circuit
// breaker and a token-bucket limiter. Every failure mode (transport error,
// non-2xx status, malformed payload, success:false, open breaker) is reported
// as pipeline.ErrRemoteUnavailable so the orchestrator can fall back to the
// in-process transformer.
//
// Example Usage:
//
//	client := remote.NewClient(remote.Config{BaseURL: "http://compiler:8080"})
//	p := pipeline.New(pipeline.WithRemote(client))
package remote
