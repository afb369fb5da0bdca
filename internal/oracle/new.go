// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package oracle

import (
	"fmt"
	"time"
)

// Config selects and tunes an oracle.
type Config struct {
	Kind     string
	Path     string
	Args     []string
	URL      string
	PoolSize int
	Grace    time.Duration

	// HTTPTimeout caps one remote exchange.
	HTTPTimeout time.Duration

	RatePerSecond    float64
	Burst            int
	BreakerThreshold int
	BreakerReset     time.Duration

	// Seed fixes the random oracle's choices; 0 is random.
	Seed uint64
}

// Chain is the assembled oracle plus the breaker, exposed for health checks.
type Chain struct {
	Engine
	Breaker *Breaker
}

// New builds kind's base oracle and wraps it as
// Instrumented(Breaker(Throttle(base))).
func New(cfg Config) (*Chain, error) {
	var base Oracle
	switch cfg.Kind {
	case KindUCI:
		e, err := NewUCIEngine(UCIConfig{Path: cfg.Path, Args: cfg.Args, PoolSize: cfg.PoolSize, Grace: cfg.Grace})
		if err != nil {
			return nil, err
		}
		base = e
	case KindHTTP:
		o, err := NewHTTPOracle(cfg.URL, cfg.HTTPTimeout)
		if err != nil {
			return nil, err
		}
		base = o
	case KindRandom, "":
		base = NewRandom(cfg.Seed)
		cfg.Kind = KindRandom
	default:
		return nil, fmt.Errorf("unknown oracle kind %q", cfg.Kind)
	}

	breaker := NewBreaker(NewThrottle(base, cfg.RatePerSecond, cfg.Burst), cfg.BreakerThreshold, cfg.BreakerReset)
	return &Chain{Engine: NewInstrumented(breaker, cfg.Kind), Breaker: breaker}, nil
}
