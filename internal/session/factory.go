// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"fmt"
	"time"
)

// Config selects and tunes a backend.
type Config struct {
	Backend   string
	Namespace string
	// TTL expires idle sessions; zero keeps them until deleted.
	TTL   time.Duration
	Redis RedisConfig
	// Path is the badger directory or the sqlite file.
	Path string
}

// Open creates the configured backend wrapped with metrics.
func Open(cfg Config) (Store, error) {
	if cfg.Backend == "" {
		cfg.Backend = BackendMemory
	}

	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendMemory:
		s = NewMemoryStore(cfg.Namespace, cfg.TTL)
	case BackendRedis:
		s, err = NewRedisStore(cfg.Redis, cfg.Namespace, cfg.TTL)
	case BackendBadger:
		s, err = OpenBadgerStore(cfg.Path, cfg.Namespace, cfg.TTL)
	case BackendSQLite:
		s, err = OpenSQLiteStore(cfg.Path, cfg.Namespace, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown session store backend: %s", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return NewInstrumentedStore(s, cfg.Backend), nil
}
