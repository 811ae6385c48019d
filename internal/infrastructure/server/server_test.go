package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Sandbox/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/Sandbox/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
	"github.com/GriffinCanCode/Sandbox/backend/internal/testutil"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Logging.Development = true
	cfg.RateLimit.Enabled = false
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	srv, err := NewServer(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	gin.SetMode(gin.TestMode)
	return srv
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t, testConfig())

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/frameworks", http.StatusOK},
		{http.MethodGet, "/api/templates", http.StatusOK},
		{http.MethodGet, "/api/templates/svelte", http.StatusOK},
		{http.MethodGet, "/api/stats", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestTraceHeaderIsReturned(t *testing.T) {
	srv := newTestServer(t, testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(tracing.HeaderTraceID, "trace-from-editor")
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, "trace-from-editor", w.Header().Get(tracing.HeaderTraceID))
}

func TestPreviewThroughLocalCompileService(t *testing.T) {
	srv := newTestServer(t, testConfig())

	body, err := json.Marshal(map[string]interface{}{
		"framework": "react",
		"files": testutil.Files(t,
			"index.html", testutil.ReactIndex,
			"App.jsx", `
				import React from 'react';
				import { createRoot } from 'react-dom/client';
				function App() { return <h1>Hello</h1>; }
				createRoot(document.getElementById('root')).render(<App />);
			`,
			"style.css", "h1{color:teal}",
		),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/preview", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var outcome types.CompileOutcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	require.True(t, outcome.Success, "%+v", outcome.Error)
	assert.Contains(t, outcome.Document, "h1{color:teal}")
	assert.Contains(t, outcome.Document, "createElement")
	assert.NotContains(t, outcome.Document, "<App />")
	assert.NotContains(t, outcome.Document, `src="App.jsx"`)
}

func TestGzipOnLargeResponses(t *testing.T) {
	srv := newTestServer(t, testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/templates/react-starter", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}

func TestNewServerRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Size = -1
	_, err := NewServer(cfg, nil)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Compiler.ToolchainFile = filepath.Join(t.TempDir(), "missing.toml")
	_, err = NewServer(cfg, nil)
	assert.Error(t, err)
}

func TestNewServerLoadsToolchains(t *testing.T) {
	file := filepath.Join(t.TempDir(), "toolchains.toml")
	require.NoError(t, os.WriteFile(file, []byte(`
[toolchains.svelte]
command = "npx"
args = ["vite", "build"]
`), 0o644))

	cfg := testConfig()
	cfg.Compiler.ToolchainFile = file
	srv := newTestServer(t, cfg)
	assert.NotNil(t, srv.Pipeline())
}
