// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

// mergeEnvConfig applies CHESS_A2A_* overrides. The current value of each
// field is the default, so unset keys leave file and default values alone.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	p := func(k string) string { return EnvPrefix + k }

	cfg.LogLevel = l.envString(p("LOG_LEVEL"), cfg.LogLevel)
	cfg.LogService = l.envString(p("LOG_SERVICE"), cfg.LogService)
	cfg.RequestTimeout = l.envDuration(p("REQUEST_TIMEOUT"), cfg.RequestTimeout)

	// API
	cfg.API.ListenAddr = l.envString(p("LISTEN_ADDR"), cfg.API.ListenAddr)
	cfg.API.RPCPath = l.envString(p("RPC_PATH"), cfg.API.RPCPath)
	cfg.API.BaseURL = l.envString(p("BASE_URL"), cfg.API.BaseURL)
	cfg.API.RateLimit.Enabled = l.envBool(p("RATELIMIT_ENABLED"), cfg.API.RateLimit.Enabled)
	cfg.API.RateLimit.RequestsPerMinute = l.envInt(p("RATELIMIT_RPM"), cfg.API.RateLimit.RequestsPerMinute)
	cfg.API.RateLimit.Whitelist = l.envList(p("RATELIMIT_WHITELIST"), cfg.API.RateLimit.Whitelist)

	// Server
	cfg.Server.ReadTimeout = l.envDuration(p("SERVER_READ_TIMEOUT"), cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = l.envDuration(p("SERVER_WRITE_TIMEOUT"), cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = l.envDuration(p("SERVER_IDLE_TIMEOUT"), cfg.Server.IdleTimeout)
	cfg.Server.ShutdownTimeout = l.envDuration(p("SERVER_SHUTDOWN_TIMEOUT"), cfg.Server.ShutdownTimeout)

	// Observability
	cfg.Metrics.Enabled = l.envBool(p("METRICS_ENABLED"), cfg.Metrics.Enabled)
	cfg.Metrics.ListenAddr = l.envString(p("METRICS_LISTEN_ADDR"), cfg.Metrics.ListenAddr)
	cfg.Tracing.Enabled = l.envBool(p("TRACING_ENABLED"), cfg.Tracing.Enabled)
	cfg.Tracing.Exporter = l.envString(p("TRACING_EXPORTER"), cfg.Tracing.Exporter)
	cfg.Tracing.Endpoint = l.envString(p("TRACING_ENDPOINT"), cfg.Tracing.Endpoint)
	cfg.Tracing.SamplingRate = l.envFloat(p("TRACING_SAMPLING_RATE"), cfg.Tracing.SamplingRate)

	// Store
	cfg.Store.Backend = l.envString(p("STORE_BACKEND"), cfg.Store.Backend)
	cfg.Store.Namespace = l.envString(p("STORE_NAMESPACE"), cfg.Store.Namespace)
	cfg.Store.TTL = l.envDuration(p("STORE_TTL"), cfg.Store.TTL)
	cfg.Store.Path = l.envString(p("STORE_PATH"), cfg.Store.Path)
	cfg.Store.Redis.Addr = l.envString(p("REDIS_ADDR"), cfg.Store.Redis.Addr)
	cfg.Store.Redis.Password = l.envString(p("REDIS_PASSWORD"), cfg.Store.Redis.Password)
	cfg.Store.Redis.DB = l.envInt(p("REDIS_DB"), cfg.Store.Redis.DB)

	// Engine
	cfg.Engine.Kind = l.envString(p("ENGINE_KIND"), cfg.Engine.Kind)
	cfg.Engine.Path = l.envString(p("ENGINE_PATH"), cfg.Engine.Path)
	cfg.Engine.Args = l.envList(p("ENGINE_ARGS"), cfg.Engine.Args)
	cfg.Engine.URL = l.envString(p("ENGINE_URL"), cfg.Engine.URL)
	cfg.Engine.PoolSize = l.envInt(p("ENGINE_POOL_SIZE"), cfg.Engine.PoolSize)
	cfg.Engine.TimeBudget = l.envDuration(p("ENGINE_TIME_BUDGET"), cfg.Engine.TimeBudget)
	cfg.Engine.Grace = l.envDuration(p("ENGINE_GRACE"), cfg.Engine.Grace)
	cfg.Engine.HTTPTimeout = l.envDuration(p("ENGINE_HTTP_TIMEOUT"), cfg.Engine.HTTPTimeout)
	cfg.Engine.RatePerSecond = l.envFloat(p("ENGINE_RATE"), cfg.Engine.RatePerSecond)
	cfg.Engine.Burst = l.envInt(p("ENGINE_BURST"), cfg.Engine.Burst)
	cfg.Engine.BreakerThreshold = l.envInt(p("ENGINE_BREAKER_THRESHOLD"), cfg.Engine.BreakerThreshold)
	cfg.Engine.BreakerReset = l.envDuration(p("ENGINE_BREAKER_RESET"), cfg.Engine.BreakerReset)
	if seed := l.envInt(p("ENGINE_SEED"), 0); seed > 0 {
		cfg.Engine.Seed = uint64(seed)
	}

	// Artifacts
	cfg.Artifacts.Enabled = l.envBool(p("ARTIFACTS_ENABLED"), cfg.Artifacts.Enabled)
	cfg.Artifacts.Format = l.envString(p("ARTIFACTS_FORMAT"), cfg.Artifacts.Format)
	cfg.Artifacts.Size = l.envInt(p("ARTIFACTS_SIZE"), cfg.Artifacts.Size)
	cfg.Artifacts.Backend = l.envString(p("ARTIFACTS_BACKEND"), cfg.Artifacts.Backend)
	cfg.Artifacts.Dir = l.envString(p("ARTIFACTS_DIR"), cfg.Artifacts.Dir)
	cfg.Artifacts.TTL = l.envDuration(p("ARTIFACTS_TTL"), cfg.Artifacts.TTL)
	cfg.Artifacts.PublicBaseURL = l.envString(p("ARTIFACTS_PUBLIC_BASE_URL"), cfg.Artifacts.PublicBaseURL)
	cfg.Artifacts.Cache.Backend = l.envString(p("ARTIFACTS_CACHE_BACKEND"), cfg.Artifacts.Cache.Backend)
	cfg.Artifacts.Cache.TTL = l.envDuration(p("ARTIFACTS_CACHE_TTL"), cfg.Artifacts.Cache.TTL)
	cfg.Artifacts.Cache.MaxEntries = l.envInt(p("ARTIFACTS_CACHE_MAX_ENTRIES"), cfg.Artifacts.Cache.MaxEntries)
}
