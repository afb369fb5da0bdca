// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// ServerConfig is what one http.Server listener needs. Zero timeouts
// mean no limit.
type ServerConfig struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	MaxHeaderBytes  int
	ShutdownTimeout time.Duration
}

const defaultMaxHeaderBytes = 1 << 20

// APIServerConfig returns the public listener settings. WriteTimeout is
// raised to cover a full RPC so slow oracle replies are not cut off.
func APIServerConfig(cfg AppConfig) ServerConfig {
	sc := serverConfig(cfg.API.ListenAddr, cfg.Server)
	if floor := cfg.RequestTimeout + 5*time.Second; sc.WriteTimeout > 0 && sc.WriteTimeout < floor {
		sc.WriteTimeout = floor
	}
	return sc
}

// MetricsServerConfig returns the metrics listener settings.
func MetricsServerConfig(cfg AppConfig) ServerConfig {
	return serverConfig(cfg.Metrics.ListenAddr, cfg.Server)
}

func serverConfig(addr string, t ServerTimeouts) ServerConfig {
	return ServerConfig{
		ListenAddr:      addr,
		ReadTimeout:     t.ReadTimeout,
		WriteTimeout:    t.WriteTimeout,
		IdleTimeout:     t.IdleTimeout,
		MaxHeaderBytes:  defaultMaxHeaderBytes,
		ShutdownTimeout: t.ShutdownTimeout,
	}
}
