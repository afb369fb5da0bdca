// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"time"
)

// mergeFileConfig overlays the set keys of src onto dst. Duration strings
// are parsed here so a typo fails the load instead of silently defaulting.
func mergeFileConfig(dst *AppConfig, src *FileConfig) error {
	setString(&dst.LogLevel, src.LogLevel)
	setString(&dst.LogService, src.LogService)

	d := durations{}
	d.set(&dst.RequestTimeout, "requestTimeout", src.RequestTimeout)

	mergeFileAPI(&dst.API, src.API)

	d.set(&dst.Server.ReadTimeout, "server.readTimeout", src.Server.ReadTimeout)
	d.set(&dst.Server.WriteTimeout, "server.writeTimeout", src.Server.WriteTimeout)
	d.set(&dst.Server.IdleTimeout, "server.idleTimeout", src.Server.IdleTimeout)
	d.set(&dst.Server.ShutdownTimeout, "server.shutdownTimeout", src.Server.ShutdownTimeout)

	setBool(&dst.Metrics.Enabled, src.Metrics.Enabled)
	setString(&dst.Metrics.ListenAddr, src.Metrics.ListenAddr)

	setBool(&dst.Tracing.Enabled, src.Tracing.Enabled)
	setString(&dst.Tracing.Exporter, src.Tracing.Exporter)
	setString(&dst.Tracing.Endpoint, src.Tracing.Endpoint)
	if src.Tracing.SamplingRate != nil {
		dst.Tracing.SamplingRate = *src.Tracing.SamplingRate
	}

	mergeFileStore(&dst.Store, src.Store, &d)
	mergeFileEngine(&dst.Engine, src.Engine, &d)
	mergeFileArtifacts(&dst.Artifacts, src.Artifacts, &d)

	return d.err
}

func mergeFileAPI(dst *APIConfig, src APIFileConfig) {
	setString(&dst.ListenAddr, src.ListenAddr)
	setString(&dst.RPCPath, src.RPCPath)
	setString(&dst.BaseURL, src.BaseURL)
	setBool(&dst.RateLimit.Enabled, src.RateLimit.Enabled)
	setInt(&dst.RateLimit.RequestsPerMinute, src.RateLimit.RequestsPerMinute)
	if len(src.RateLimit.Whitelist) > 0 {
		dst.RateLimit.Whitelist = append([]string(nil), src.RateLimit.Whitelist...)
	}
}

func mergeFileStore(dst *StoreConfig, src StoreFileConfig, d *durations) {
	setString(&dst.Backend, src.Backend)
	setString(&dst.Namespace, src.Namespace)
	d.set(&dst.TTL, "store.ttl", src.TTL)
	setString(&dst.Path, src.Path)
	setString(&dst.Redis.Addr, src.Redis.Addr)
	setString(&dst.Redis.Password, src.Redis.Password)
	if src.Redis.DB != nil {
		dst.Redis.DB = *src.Redis.DB
	}
}

func mergeFileEngine(dst *EngineConfig, src EngineFileConfig, d *durations) {
	setString(&dst.Kind, src.Kind)
	setString(&dst.Path, src.Path)
	if len(src.Args) > 0 {
		dst.Args = append([]string(nil), src.Args...)
	}
	setString(&dst.URL, src.URL)
	setInt(&dst.PoolSize, src.PoolSize)
	d.set(&dst.TimeBudget, "engine.timeBudget", src.TimeBudget)
	d.set(&dst.Grace, "engine.grace", src.Grace)
	d.set(&dst.HTTPTimeout, "engine.httpTimeout", src.HTTPTimeout)
	if src.RatePerSecond != nil {
		dst.RatePerSecond = *src.RatePerSecond
	}
	setInt(&dst.Burst, src.Burst)
	setInt(&dst.BreakerThreshold, src.BreakerThreshold)
	d.set(&dst.BreakerReset, "engine.breakerReset", src.BreakerReset)
	if src.Seed != 0 {
		dst.Seed = src.Seed
	}
}

func mergeFileArtifacts(dst *ArtifactsConfig, src ArtifactsFileConfig, d *durations) {
	setBool(&dst.Enabled, src.Enabled)
	setString(&dst.Format, src.Format)
	setInt(&dst.Size, src.Size)
	setString(&dst.Backend, src.Backend)
	setString(&dst.Dir, src.Dir)
	d.set(&dst.TTL, "artifacts.ttl", src.TTL)
	setString(&dst.PublicBaseURL, src.PublicBaseURL)
	setString(&dst.Cache.Backend, src.Cache.Backend)
	d.set(&dst.Cache.TTL, "artifacts.cache.ttl", src.Cache.TTL)
	setInt(&dst.Cache.MaxEntries, src.Cache.MaxEntries)
}

// durations parses duration strings and remembers the first failure.
type durations struct {
	err error
}

func (d *durations) set(dst *time.Duration, field, raw string) {
	if raw == "" || d.err != nil {
		return
	}
	v, err := time.ParseDuration(expandEnv(raw))
	if err != nil {
		d.err = fmt.Errorf("%s: %w", field, err)
		return
	}
	*dst = v
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = expandEnv(v)
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
