// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// Defaults. The listen port matches the agent card examples.
const (
	DefaultListenAddr        = ":5000"
	DefaultRPCPath           = "/"
	DefaultMetricsListenAddr = ":9090"
	DefaultRequestTimeout    = 10 * time.Second
	DefaultTimeBudget        = 500 * time.Millisecond
)

// Defaults returns the configuration used when neither file nor env set a key.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel:   "info",
		LogService: "chess-a2a",
		API: APIConfig{
			ListenAddr: DefaultListenAddr,
			RPCPath:    DefaultRPCPath,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 600,
			},
		},
		Server: ServerTimeouts{
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled:    true,
			ListenAddr: DefaultMetricsListenAddr,
		},
		Tracing: TracingConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
		},
		Store: StoreConfig{
			Backend:   "memory",
			Namespace: "chess-a2a",
			Redis:     RedisConfig{Addr: "localhost:6379"},
		},
		Engine: EngineConfig{
			Kind:             "random",
			Path:             "stockfish",
			PoolSize:         1,
			TimeBudget:       DefaultTimeBudget,
			Grace:            2 * time.Second,
			HTTPTimeout:      5 * time.Second,
			RatePerSecond:    0,
			Burst:            1,
			BreakerThreshold: 3,
			BreakerReset:     30 * time.Second,
		},
		Artifacts: ArtifactsConfig{
			Enabled: true,
			Format:  "png",
			Size:    512,
			Backend: "fs",
			Dir:     "data/artifacts",
			TTL:     24 * time.Hour,
			Cache: RenderCacheConfig{
				Backend:    "memory",
				TTL:        10 * time.Minute,
				MaxEntries: 1024,
			},
		},
		RequestTimeout: DefaultRequestTimeout,
	}
}
