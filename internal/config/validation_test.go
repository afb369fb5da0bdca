// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/chess-a2a/internal/validate"
)

func validConfig(t *testing.T) AppConfig {
	t.Helper()
	cfg := Defaults()
	cfg.Artifacts.Dir = t.TempDir()
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Validate(validConfig(t)))
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		field  string
	}{
		{"log level", func(c *AppConfig) { c.LogLevel = "verbose" }, "logLevel"},
		{"listen addr", func(c *AppConfig) { c.API.ListenAddr = "5000" }, "api.listenAddr"},
		{"rpc path", func(c *AppConfig) { c.API.RPCPath = "rpc" }, "api.rpcPath"},
		{"base url", func(c *AppConfig) { c.API.BaseURL = "ftp://x" }, "api.baseURL"},
		{"rate limit", func(c *AppConfig) { c.API.RateLimit.RequestsPerMinute = 0 }, "api.rateLimit.requestsPerMinute"},
		{"metrics clash", func(c *AppConfig) { c.Metrics.ListenAddr = c.API.ListenAddr }, "metrics.listenAddr"},
		{"exporter", func(c *AppConfig) { c.Tracing.Enabled = true; c.Tracing.Exporter = "zipkin" }, "tracing.exporter"},
		{"sampling", func(c *AppConfig) { c.Tracing.SamplingRate = 2 }, "tracing.samplingRate"},
		{"store backend", func(c *AppConfig) { c.Store.Backend = "etcd" }, "store.backend"},
		{"store path", func(c *AppConfig) { c.Store.Backend = "sqlite" }, "store.path"},
		{"redis db", func(c *AppConfig) { c.Store.Backend = "redis"; c.Store.Redis.DB = 99 }, "store.redis.db"},
		{"engine kind", func(c *AppConfig) { c.Engine.Kind = "alphazero" }, "engine.kind"},
		{"engine url", func(c *AppConfig) { c.Engine.Kind = "http" }, "engine.url"},
		{"budget range", func(c *AppConfig) { c.Engine.TimeBudget = 0 }, "engine.timeBudget"},
		{"budget vs timeout", func(c *AppConfig) { c.Engine.TimeBudget = 30 * time.Second; c.RequestTimeout = 20 * time.Second }, "engine.timeBudget"},
		{"artifact format", func(c *AppConfig) { c.Artifacts.Format = "gif" }, "artifacts.format"},
		{"artifact size", func(c *AppConfig) { c.Artifacts.Size = 16 }, "artifacts.size"},
		{"cache backend", func(c *AppConfig) { c.Artifacts.Cache.Backend = "memcached" }, "artifacts.cache.backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)

			var verr validate.ValidationError
			require.True(t, errors.As(err, &verr))
			fields := make([]string, 0, len(verr.Errors()))
			for _, e := range verr.Errors() {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidate_DisabledSectionsSkipChecks(t *testing.T) {
	cfg := validConfig(t)
	cfg.Artifacts.Enabled = false
	cfg.Artifacts.Format = "gif"
	cfg.Metrics.Enabled = false
	cfg.Metrics.ListenAddr = ""
	assert.NoError(t, Validate(cfg))
}

func TestValidate_AccumulatesErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.LogLevel = "loud"
	cfg.Store.Backend = "etcd"
	cfg.Engine.Kind = "x"

	var verr validate.ValidationError
	require.True(t, errors.As(Validate(cfg), &verr))
	assert.GreaterOrEqual(t, len(verr.Errors()), 3)
}
