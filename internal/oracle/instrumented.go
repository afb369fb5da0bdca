// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package oracle

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ManuGH/chess-a2a/internal/log"
)

var (
	oracleRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chess_a2a_oracle_requests_total",
		Help: "Oracle move requests by kind and result",
	}, []string{"kind", "result"}) // result=ok|timeout|unavailable|error

	oracleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chess_a2a_oracle_duration_seconds",
		Help:    "Oracle move latency in seconds",
		Buckets: []float64{.01, .05, .1, .25, .5, .75, 1, 2, 5, 10},
	}, []string{"kind"})
)

// Instrumented records latency and result per oracle kind.
type Instrumented struct {
	inner Oracle
	kind  string
}

func NewInstrumented(inner Oracle, kind string) *Instrumented {
	return &Instrumented{inner: inner, kind: kind}
}

func (i *Instrumented) BestMove(ctx context.Context, fen string, budget time.Duration) (string, error) {
	start := time.Now()
	move, err := i.inner.BestMove(ctx, fen, budget)
	i.observe(ctx, start, err)
	return move, err
}

func (i *Instrumented) observe(ctx context.Context, start time.Time, err error) {
	elapsed := time.Since(start)
	result := resultLabel(err)
	oracleRequests.WithLabelValues(i.kind, result).Inc()
	oracleDuration.WithLabelValues(i.kind).Observe(elapsed.Seconds())

	if err != nil {
		logger := log.WithComponentFromContext(ctx, "oracle")
		logger.Warn().Err(err).
			Str("kind", i.kind).
			Str("result", result).
			Dur("elapsed", elapsed).
			Msg("oracle move failed")
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

func (i *Instrumented) Close() error { return closeInner(i.inner) }
