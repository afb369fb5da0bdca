// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// AppConfig is the resolved runtime configuration.
type AppConfig struct {
	Version    string
	LogLevel   string
	LogService string

	API       APIConfig
	Server    ServerTimeouts
	Metrics   MetricsConfig
	Tracing   TracingConfig
	Store     StoreConfig
	Engine    EngineConfig
	Artifacts ArtifactsConfig

	// RequestTimeout bounds one RPC, oracle call included.
	RequestTimeout time.Duration
}

// APIConfig configures the public listener.
type APIConfig struct {
	ListenAddr string
	RPCPath    string
	// BaseURL is advertised in the agent card; empty derives it from the request.
	BaseURL   string
	RateLimit RateLimitConfig
}

// RateLimitConfig limits requests per client IP.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	Whitelist         []string
}

// ServerTimeouts are the HTTP server timeouts.
type ServerTimeouts struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// MetricsConfig configures the Prometheus listener.
type MetricsConfig struct {
	Enabled    bool
	ListenAddr string
}

// TracingConfig configures OpenTelemetry export.
type TracingConfig struct {
	Enabled      bool
	Exporter     string
	Endpoint     string
	SamplingRate float64
}

// RedisConfig is shared by every redis-backed component.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StoreConfig selects the session store backend. The session lock is
// per process; redis and sqlite also reject stale saves by revision, so
// only they may be shared by several replicas. memory and badger are
// single-replica.
type StoreConfig struct {
	Backend   string
	Namespace string
	TTL       time.Duration
	// Path is the badger directory or sqlite file.
	Path  string
	Redis RedisConfig
}

// EngineConfig selects and tunes the move oracle.
type EngineConfig struct {
	Kind             string
	Path             string
	Args             []string
	URL              string
	PoolSize         int
	TimeBudget       time.Duration
	Grace            time.Duration
	HTTPTimeout      time.Duration
	RatePerSecond    float64
	Burst            int
	BreakerThreshold int
	BreakerReset     time.Duration
	Seed             uint64
}

// ArtifactsConfig configures board image publishing.
type ArtifactsConfig struct {
	Enabled bool
	Format  string
	Size    int
	// Backend is "fs" or "redis"; redis reuses Store.Redis.
	Backend string
	Dir     string
	TTL     time.Duration
	// PublicBaseURL prefixes artifact URLs; empty falls back to API.BaseURL.
	PublicBaseURL string
	Cache         RenderCacheConfig
}

// RenderCacheConfig configures the rendered-image cache.
type RenderCacheConfig struct {
	// Backend is "memory", "redis" or "none".
	Backend    string
	TTL        time.Duration
	MaxEntries int
}

// FileConfig represents the YAML configuration structure. Durations are
// Go duration strings such as "500ms".
type FileConfig struct {
	LogLevel       string `yaml:"logLevel,omitempty"`
	LogService     string `yaml:"logService,omitempty"`
	RequestTimeout string `yaml:"requestTimeout,omitempty"`

	API       APIFileConfig       `yaml:"api,omitempty"`
	Server    ServerFileConfig    `yaml:"server,omitempty"`
	Metrics   MetricsFileConfig   `yaml:"metrics,omitempty"`
	Tracing   TracingFileConfig   `yaml:"tracing,omitempty"`
	Store     StoreFileConfig     `yaml:"store,omitempty"`
	Engine    EngineFileConfig    `yaml:"engine,omitempty"`
	Artifacts ArtifactsFileConfig `yaml:"artifacts,omitempty"`
}

// APIFileConfig is the api section.
type APIFileConfig struct {
	ListenAddr string              `yaml:"listenAddr,omitempty"`
	RPCPath    string              `yaml:"rpcPath,omitempty"`
	BaseURL    string              `yaml:"baseURL,omitempty"`
	RateLimit  RateLimitFileConfig `yaml:"rateLimit,omitempty"`
}

// RateLimitFileConfig is the api.rateLimit section.
type RateLimitFileConfig struct {
	Enabled           *bool    `yaml:"enabled,omitempty"`
	RequestsPerMinute int      `yaml:"requestsPerMinute,omitempty"`
	Whitelist         []string `yaml:"whitelist,omitempty"`
}

// ServerFileConfig is the server section.
type ServerFileConfig struct {
	ReadTimeout     string `yaml:"readTimeout,omitempty"`
	WriteTimeout    string `yaml:"writeTimeout,omitempty"`
	IdleTimeout     string `yaml:"idleTimeout,omitempty"`
	ShutdownTimeout string `yaml:"shutdownTimeout,omitempty"`
}

// MetricsFileConfig is the metrics section.
type MetricsFileConfig struct {
	Enabled    *bool  `yaml:"enabled,omitempty"`
	ListenAddr string `yaml:"listenAddr,omitempty"`
}

// TracingFileConfig is the tracing section.
type TracingFileConfig struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
}

// StoreFileConfig is the store section.
type StoreFileConfig struct {
	Backend   string          `yaml:"backend,omitempty"`
	Namespace string          `yaml:"namespace,omitempty"`
	TTL       string          `yaml:"ttl,omitempty"`
	Path      string          `yaml:"path,omitempty"`
	Redis     RedisFileConfig `yaml:"redis,omitempty"`
}

// RedisFileConfig is the store.redis section.
type RedisFileConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       *int   `yaml:"db,omitempty"`
}

// EngineFileConfig is the engine section.
type EngineFileConfig struct {
	Kind             string   `yaml:"kind,omitempty"`
	Path             string   `yaml:"path,omitempty"`
	Args             []string `yaml:"args,omitempty"`
	URL              string   `yaml:"url,omitempty"`
	PoolSize         int      `yaml:"poolSize,omitempty"`
	TimeBudget       string   `yaml:"timeBudget,omitempty"`
	Grace            string   `yaml:"grace,omitempty"`
	HTTPTimeout      string   `yaml:"httpTimeout,omitempty"`
	RatePerSecond    *float64 `yaml:"ratePerSecond,omitempty"`
	Burst            int      `yaml:"burst,omitempty"`
	BreakerThreshold int      `yaml:"breakerThreshold,omitempty"`
	BreakerReset     string   `yaml:"breakerReset,omitempty"`
	Seed             uint64   `yaml:"seed,omitempty"`
}

// ArtifactsFileConfig is the artifacts section.
type ArtifactsFileConfig struct {
	Enabled       *bool                 `yaml:"enabled,omitempty"`
	Format        string                `yaml:"format,omitempty"`
	Size          int                   `yaml:"size,omitempty"`
	Backend       string                `yaml:"backend,omitempty"`
	Dir           string                `yaml:"dir,omitempty"`
	TTL           string                `yaml:"ttl,omitempty"`
	PublicBaseURL string                `yaml:"publicBaseURL,omitempty"`
	Cache         RenderCacheFileConfig `yaml:"cache,omitempty"`
}

// RenderCacheFileConfig is the artifacts.cache section.
type RenderCacheFileConfig struct {
	Backend    string `yaml:"backend,omitempty"`
	TTL        string `yaml:"ttl,omitempty"`
	MaxEntries int    `yaml:"maxEntries,omitempty"`
}
