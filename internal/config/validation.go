// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"time"

	"github.com/ManuGH/chess-a2a/internal/validate"
)

// Validate checks cfg and returns every problem at once as a
// validate.ValidationError.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.LogLevel("logLevel", cfg.LogLevel)
	v.DurationRange("requestTimeout", cfg.RequestTimeout, 100*time.Millisecond, 10*time.Minute)

	validateAPI(v, cfg.API)

	if cfg.Metrics.Enabled {
		v.ListenAddr("metrics.listenAddr", cfg.Metrics.ListenAddr)
		if cfg.Metrics.ListenAddr == cfg.API.ListenAddr {
			v.AddError("metrics.listenAddr", "must differ from api.listenAddr", cfg.Metrics.ListenAddr)
		}
	}

	if cfg.Tracing.Enabled {
		v.OneOf("tracing.exporter", cfg.Tracing.Exporter, []string{"grpc", "http"})
		v.NotEmpty("tracing.endpoint", cfg.Tracing.Endpoint)
	}
	v.Fraction("tracing.samplingRate", cfg.Tracing.SamplingRate)

	validateStore(v, cfg.Store)
	validateEngine(v, cfg.Engine, cfg.RequestTimeout)
	validateArtifacts(v, cfg)

	return v.Err()
}

func validateAPI(v *validate.Validator, api APIConfig) {
	v.ListenAddr("api.listenAddr", api.ListenAddr)
	v.RoutePath("api.rpcPath", api.RPCPath)
	if api.BaseURL != "" {
		v.URL("api.baseURL", api.BaseURL, []string{"http", "https"})
	}
	if api.RateLimit.Enabled {
		v.Positive("api.rateLimit.requestsPerMinute", api.RateLimit.RequestsPerMinute)
	}
}

func validateStore(v *validate.Validator, s StoreConfig) {
	v.OneOf("store.backend", s.Backend, []string{"memory", "redis", "badger", "sqlite"})
	v.NotEmpty("store.namespace", s.Namespace)
	if s.TTL < 0 {
		v.AddError("store.ttl", "cannot be negative", s.TTL)
	}
	switch s.Backend {
	case "redis":
		v.NotEmpty("store.redis.addr", s.Redis.Addr)
		v.Range("store.redis.db", s.Redis.DB, 0, 15)
	case "badger", "sqlite":
		v.NotEmpty("store.path", s.Path)
	}
}

func validateEngine(v *validate.Validator, e EngineConfig, requestTimeout time.Duration) {
	v.OneOf("engine.kind", e.Kind, []string{"uci", "http", "random"})
	v.DurationRange("engine.timeBudget", e.TimeBudget, 10*time.Millisecond, time.Minute)
	if e.TimeBudget >= requestTimeout {
		v.AddError("engine.timeBudget", "must be shorter than requestTimeout", e.TimeBudget)
	}
	if e.RatePerSecond < 0 {
		v.AddError("engine.ratePerSecond", "cannot be negative", e.RatePerSecond)
	}
	v.NonNegative("engine.burst", e.Burst)
	v.NonNegative("engine.breakerThreshold", e.BreakerThreshold)
	switch e.Kind {
	case "uci":
		v.NotEmpty("engine.path", e.Path)
		v.Range("engine.poolSize", e.PoolSize, 1, 64)
	case "http":
		v.URL("engine.url", e.URL, []string{"http", "https"})
	}
}

func validateArtifacts(v *validate.Validator, cfg AppConfig) {
	a := cfg.Artifacts
	if !a.Enabled {
		return
	}
	v.OneOf("artifacts.format", a.Format, []string{"png", "svg"})
	v.Range("artifacts.size", a.Size, 128, 4096)
	v.OneOf("artifacts.backend", a.Backend, []string{"fs", "redis"})
	if a.Backend == "fs" {
		v.Directory("artifacts.dir", a.Dir, false)
	}
	if a.Backend == "redis" || a.Cache.Backend == "redis" {
		v.NotEmpty("store.redis.addr", cfg.Store.Redis.Addr)
	}
	if a.PublicBaseURL != "" {
		v.URL("artifacts.publicBaseURL", a.PublicBaseURL, []string{"http", "https"})
	}
	v.OneOf("artifacts.cache.backend", a.Cache.Backend, []string{"memory", "redis", "none"})
	v.NonNegative("artifacts.cache.maxEntries", a.Cache.MaxEntries)
}
