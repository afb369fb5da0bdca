// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package testutil

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/notnil/chess"
)

// FirstLegalOracle answers with the first legal move of the position in UCI
// notation. It counts calls and can be made to block or fail.
type FirstLegalOracle struct {
	calls atomic.Int32

	mu    sync.Mutex
	err   error
	delay time.Duration
}

// Calls returns the number of BestMove invocations.
func (o *FirstLegalOracle) Calls() int { return int(o.calls.Load()) }

// FailWith makes subsequent calls return err. A nil err restores normal replies.
func (o *FirstLegalOracle) FailWith(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

// Delay makes subsequent calls sleep for d or until ctx is done.
func (o *FirstLegalOracle) Delay(d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.delay = d
}

func (o *FirstLegalOracle) BestMove(ctx context.Context, fen string, _ time.Duration) (string, error) {
	o.calls.Add(1)
	o.mu.Lock()
	err, delay := o.err, o.delay
	o.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	return FirstLegalMove(fen)
}

// FirstLegalMove returns the first legal move of fen in UCI notation.
func FirstLegalMove(fen string) (string, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return "", err
	}
	g := chess.NewGame(opt)
	moves := g.ValidMoves()
	if len(moves) == 0 {
		return "", errors.New("no legal moves")
	}
	return chess.UCINotation{}.Encode(g.Position(), moves[0]), nil
}
