// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package oracle

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/notnil/chess"
)

// Random plays a uniformly random legal move. It needs no engine binary and
// serves development setups and tests.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom seeds the generator; seed 0 picks a random seed.
func NewRandom(seed uint64) *Random {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Random{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *Random) BestMove(ctx context.Context, fen string, _ time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", classify(err)
	}
	opt, err := chess.FEN(fen)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	g := chess.NewGame(opt)
	moves := g.ValidMoves()
	if len(moves) == 0 {
		return "", fmt.Errorf("%w: no legal moves in %s", ErrUnavailable, fen)
	}

	r.mu.Lock()
	m := moves[r.rng.IntN(len(moves))]
	r.mu.Unlock()
	return chess.UCINotation{}.Encode(g.Position(), m), nil
}
