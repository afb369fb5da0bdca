// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/chess-a2a/internal/config"
	"github.com/ManuGH/chess-a2a/internal/daemon"
	"github.com/ManuGH/chess-a2a/internal/log"
)

func testConfig(t *testing.T) config.AppConfig {
	t.Helper()
	cfg := config.Defaults()
	cfg.Version = "test"
	cfg.Metrics.Enabled = false
	cfg.Tracing.Enabled = false
	cfg.Engine.Seed = 7
	cfg.Engine.TimeBudget = 50 * time.Millisecond
	cfg.Artifacts.Dir = t.TempDir()
	cfg.Artifacts.Size = 128
	return cfg
}

func sendMove(t *testing.T, h http.Handler, move string) map[string]any {
	t.Helper()
	body := `{"jsonrpc":"2.0","id":1,"method":"tasks/send","params":{"id":"t1","sessionId":"s1","message":{"role":"user","parts":[{"type":"text","text":"` + move + `"}]}}}`
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Contains(t, out, "result", rr.Body.String())
	return out["result"].(map[string]any)
}

func fileURI(t *testing.T, result map[string]any) string {
	t.Helper()
	parts := result["status"].(map[string]any)["message"].(map[string]any)["parts"].([]any)
	for _, p := range parts {
		part := p.(map[string]any)
		if part["type"] == "file" {
			return part["file"].(map[string]any)["uri"].(string)
		}
	}
	return ""
}

func TestBuildComponents_MemoryStack(t *testing.T) {
	cfg := testConfig(t)
	c, err := buildComponents(context.Background(), cfg)
	require.NoError(t, err)
	defer c.closeAll(context.Background())

	result := sendMove(t, c.api, "e4")
	assert.Equal(t, "input-required", result["status"].(map[string]any)["state"])

	uri := fileURI(t, result)
	require.NotEmpty(t, uri)
	rr := httptest.NewRecorder()
	c.api.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, uri, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))

	ready := c.health.Ready(context.Background())
	assert.True(t, ready.Ready)
	assert.Contains(t, ready.Checks, "session_store")
	assert.Contains(t, ready.Checks, "oracle")
}

func TestBuildComponents_RedisStack(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Store.Backend = "redis"
	cfg.Store.Redis.Addr = mr.Addr()
	cfg.Artifacts.Backend = "redis"
	cfg.Artifacts.Format = "svg"
	cfg.Artifacts.Cache.Backend = "redis"

	c, err := buildComponents(context.Background(), cfg)
	require.NoError(t, err)
	defer c.closeAll(context.Background())

	result := sendMove(t, c.api, "d4")
	uri := fileURI(t, result)
	require.True(t, strings.HasSuffix(uri, ".svg"), uri)

	rr := httptest.NewRecorder()
	c.api.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, uri, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/svg+xml", rr.Header().Get("Content-Type"))

	keys := mr.Keys()
	assert.NotEmpty(t, keys)
	ready := c.health.Ready(context.Background())
	assert.True(t, ready.Ready)
	assert.Contains(t, ready.Checks, "artifact_store")
	assert.Contains(t, ready.Checks, "render_cache")
}

func TestBuildComponents_ArtifactsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Artifacts.Enabled = false
	c, err := buildComponents(context.Background(), cfg)
	require.NoError(t, err)
	defer c.closeAll(context.Background())

	assert.Empty(t, fileURI(t, sendMove(t, c.api, "e4")))
	assert.Nil(t, c.blobs)
}

func TestBuildComponents_FailureClosesEarlierParts(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Backend = "redis"
	cfg.Store.Redis.Addr = "127.0.0.1:1"

	_, err := buildComponents(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session store")
}

type hookRecorder struct {
	names []string
}

func (h *hookRecorder) Start(context.Context) error    { return nil }
func (h *hookRecorder) Shutdown(context.Context) error { return nil }
func (h *hookRecorder) RegisterShutdownHook(name string, _ daemon.ShutdownHook) {
	h.names = append(h.names, name)
}

func TestComponents_HooksInCreationOrder(t *testing.T) {
	cfg := testConfig(t)
	c, err := buildComponents(context.Background(), cfg)
	require.NoError(t, err)
	defer c.closeAll(context.Background())

	rec := &hookRecorder{}
	c.registerHooks(rec)
	assert.Equal(t, []string{"telemetry", "session_store", "oracle", "artifact_store", "render_cache"}, rec.names)

	deps := c.daemonDeps(log.WithComponent("test"), cfg)
	assert.Nil(t, deps.MetricsHandler)

	cfg.Metrics.Enabled = true
	deps = c.daemonDeps(log.WithComponent("test"), cfg)
	assert.NotNil(t, deps.MetricsHandler)
	assert.Equal(t, cfg.Metrics.ListenAddr, deps.MetricsAddr)
}
