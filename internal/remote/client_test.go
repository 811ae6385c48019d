package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Sandbox/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/Sandbox/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/Sandbox/backend/internal/pipeline"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

type recorder struct {
	mu      sync.Mutex
	results []string
	states  []resilience.State
}

func (r *recorder) RecordRemoteCall(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func (r *recorder) RecordBreakerState(_ string, _, to resilience.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, to)
}

func reactSet() types.SourceSet {
	return types.SourceSetFromMap(map[string]string{
		"index.html": `<div id="root"></div><script src="App.jsx"></script>`,
		"App.jsx":    "import React from 'react';\nexport default () => <p/>;",
	})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recorder) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	rec := &recorder{}
	client := NewClient(Config{
		BaseURL:  server.URL + "/",
		Timeout:  2 * time.Second,
		Retries:  0,
		Recorder: rec,
	})
	return client, rec
}

func TestCompileRemoteSuccess(t *testing.T) {
	var got types.CompileRequest
	var path, traceHeader string

	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		traceHeader = r.Header.Get(tracing.HeaderTraceID)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"html":"<html>bundled</html>","warnings":["w1"]}`))
	})

	ctx := tracing.WithRemoteParent(context.Background(), "trace-1", "span-1")
	outcome, err := client.CompileRemote(ctx, types.FrameworkReact, reactSet())
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Equal(t, "<html>bundled</html>", outcome.Document)
	assert.Equal(t, []string{"w1"}, outcome.Warnings)

	assert.Equal(t, "/api/compile/react", path)
	assert.Equal(t, "trace-1", traceHeader)
	assert.Equal(t, types.FrameworkReact, got.Framework)
	assert.Equal(t, 2, got.Files.Len())
	assert.True(t, got.Files.Has("App.jsx"))
	assert.Equal(t, []string{ResultSuccess}, rec.results)
}

func TestCompileRemoteFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		result  string
		outcome bool
	}{
		{"client error status", http.StatusBadRequest, `{"error":"bad"}`, ResultError, false},
		{"malformed json", http.StatusOK, `{"success":`, ResultError, false},
		{"neither document nor error", http.StatusOK, `{"success":false}`, ResultError, false},
		{"success without document", http.StatusOK, `{"success":true}`, ResultError, false},
		{"rejected", http.StatusOK, `{"success":false,"error":{"message":"boom","file":"App.jsx"}}`, ResultRejected, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			outcome, err := client.CompileRemote(context.Background(), types.FrameworkReact, reactSet())
			require.Error(t, err)
			assert.ErrorIs(t, err, pipeline.ErrRemoteUnavailable)
			assert.False(t, outcome.Success)
			if tt.outcome {
				require.NotNil(t, outcome.Error)
				assert.Equal(t, "App.jsx", outcome.Error.File)
			}
			assert.Equal(t, []string{tt.result}, rec.results)
		})
	}
}

func TestCompileRemoteUnreachable(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

	_, err := client.CompileRemote(context.Background(), types.FrameworkVue, reactSet())
	assert.ErrorIs(t, err, pipeline.ErrRemoteUnavailable)
}

func TestCompileRemoteHonoursContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.CompileRemote(ctx, types.FrameworkReact, reactSet())
	assert.ErrorIs(t, err, pipeline.ErrRemoteUnavailable)
	assert.Less(t, time.Since(start), time.Second)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	var hits atomic.Int32
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		_, err := client.CompileRemote(context.Background(), types.FrameworkReact, reactSet())
		require.Error(t, err)
	}
	assert.Equal(t, resilience.StateOpen, client.BreakerState())
	before := hits.Load()

	_, err := client.CompileRemote(context.Background(), types.FrameworkReact, reactSet())
	assert.ErrorIs(t, err, pipeline.ErrRemoteUnavailable)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, before, hits.Load())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, ResultBreakerOpen, rec.results[len(rec.results)-1])
	assert.Contains(t, rec.states, resilience.StateOpen)
}

func TestSetRateLimit(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost"})
	assert.Equal(t, "http://localhost", client.BaseURL())

	client.SetRateLimit(0.5)
	assert.Equal(t, 1, client.Limiter.Burst())

	client.SetRateLimit(0)
	assert.True(t, client.Limiter.Allow())
}
