// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ManuGH/chess-a2a/internal/resilience"
)

// Breaker fails fast with ErrUnavailable while the inner oracle keeps
// failing. Caller cancellation does not count as a failure.
type Breaker struct {
	inner Oracle
	cb    *resilience.CircuitBreaker
}

// NewBreaker wraps inner with a circuit breaker named "oracle".
func NewBreaker(inner Oracle, threshold int, reset time.Duration, opts ...resilience.Option) *Breaker {
	opts = append([]resilience.Option{
		resilience.WithFailurePredicate(resilience.IgnoreCanceled),
		resilience.WithPanicRecovery(true),
	}, opts...)
	return &Breaker{
		inner: inner,
		cb:    resilience.NewCircuitBreaker("oracle", threshold, reset, opts...),
	}
}

func (b *Breaker) BestMove(ctx context.Context, fen string, budget time.Duration) (string, error) {
	var move string
	err := b.cb.Execute(func() error {
		var err error
		move, err = b.inner.BestMove(ctx, fen, budget)
		return err
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return move, err
}

// State reports the breaker state (closed, open, half-open).
func (b *Breaker) State() string { return b.cb.State() }

func (b *Breaker) Close() error { return closeInner(b.inner) }
