// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package oracle

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Throttle bounds the rate of searches across all sessions. Waiting is
// bounded by the request deadline; a wait that cannot finish in time is
// ErrTimeout.
type Throttle struct {
	inner   Oracle
	limiter *rate.Limiter
}

// NewThrottle allows perSecond searches with the given burst. A
// non-positive perSecond disables limiting.
func NewThrottle(inner Oracle, perSecond float64, burst int) *Throttle {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &Throttle{inner: inner, limiter: rate.NewLimiter(limit, burst)}
}

func (t *Throttle) BestMove(ctx context.Context, fen string, budget time.Duration) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return "", classify(ctx.Err())
		}
		// rate reports a wait that would outlive the deadline before it happens.
		return "", fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return t.inner.BestMove(ctx, fen, budget)
}

func (t *Throttle) Close() error { return closeInner(t.inner) }
