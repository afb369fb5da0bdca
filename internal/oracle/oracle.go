// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package oracle answers "best move for this position within this budget".
// Implementations talk to a local UCI engine pool, a remote engine service,
// or pick a random legal move; decorators add circuit breaking, throttling
// and metrics.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	// ErrUnavailable covers process and connection failures.
	ErrUnavailable = errors.New("oracle unavailable")
	// ErrTimeout is returned when no move arrived within the deadline.
	ErrTimeout = errors.New("oracle timeout")
)

// Oracle produces one move in UCI notation for a FEN position.
type Oracle interface {
	BestMove(ctx context.Context, fen string, budget time.Duration) (string, error)
}

// Engine is an Oracle that owns resources.
type Engine interface {
	Oracle
	io.Closer
}

// Kinds accepted by New.
const (
	KindUCI    = "uci"
	KindHTTP   = "http"
	KindRandom = "random"
)

// classify maps context errors onto ErrTimeout and leaves errors that
// already carry a sentinel alone. Everything else becomes ErrUnavailable.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrUnavailable):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}

// closeInner closes o when it owns resources.
func closeInner(o Oracle) error {
	if c, ok := o.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
