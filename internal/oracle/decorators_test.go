// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package oracle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/notnil/chess"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOracle struct {
	calls atomic.Int32
	move  string
	err   error
}

func (s *stubOracle) BestMove(context.Context, string, time.Duration) (string, error) {
	s.calls.Add(1)
	return s.move, s.err
}

func TestBreaker_OpensAndFailsFast(t *testing.T) {
	inner := &stubOracle{err: ErrUnavailable}
	b := NewBreaker(inner, 2, time.Minute)

	for i := 0; i < 2; i++ {
		_, err := b.BestMove(context.Background(), startFEN, time.Millisecond)
		assert.ErrorIs(t, err, ErrUnavailable)
	}
	assert.Equal(t, "open", b.State())

	_, err := b.BestMove(context.Background(), startFEN, time.Millisecond)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(2), inner.calls.Load(), "open breaker must not reach the engine")
}

func TestBreaker_CanceledDoesNotTrip(t *testing.T) {
	inner := &stubOracle{err: classify(context.Canceled)}
	b := NewBreaker(inner, 1, time.Minute)

	_, err := b.BestMove(context.Background(), startFEN, time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "closed", b.State())
}

func TestThrottle_WaitBoundedByDeadline(t *testing.T) {
	inner := &stubOracle{move: "e7e5"}
	th := NewThrottle(inner, 0.001, 1)

	move, err := th.BestMove(context.Background(), startFEN, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "e7e5", move)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = th.BestMove(ctx, startFEN, time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestThrottle_UnlimitedWhenDisabled(t *testing.T) {
	inner := &stubOracle{move: "e7e5"}
	th := NewThrottle(inner, 0, 0)
	for i := 0; i < 50; i++ {
		_, err := th.BestMove(context.Background(), startFEN, time.Millisecond)
		require.NoError(t, err)
	}
}

func TestInstrumented_CountsResults(t *testing.T) {
	before := testutil.ToFloat64(oracleRequests.WithLabelValues("stub", "timeout"))
	i := NewInstrumented(&stubOracle{err: classify(context.DeadlineExceeded)}, "stub")
	_, err := i.BestMove(context.Background(), startFEN, time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, before+1, testutil.ToFloat64(oracleRequests.WithLabelValues("stub", "timeout")))
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))
	assert.ErrorIs(t, classify(context.DeadlineExceeded), ErrTimeout)
	assert.ErrorIs(t, classify(errors.New("broken pipe")), ErrUnavailable)
	assert.ErrorIs(t, classify(ErrTimeout), ErrTimeout)
	assert.NotErrorIs(t, classify(ErrTimeout), ErrUnavailable)
}

func TestRandom_PlaysLegalMoves(t *testing.T) {
	r := NewRandom(42)
	g := chess.NewGame()
	for i := 0; i < 40 && g.Outcome() == chess.NoOutcome; i++ {
		move, err := r.BestMove(context.Background(), g.Position().String(), 0)
		require.NoError(t, err)
		m, err := chess.UCINotation{}.Decode(g.Position(), move)
		require.NoError(t, err)
		require.NoError(t, g.Move(m), "move %s", move)
	}
}

func TestNew_Kinds(t *testing.T) {
	c, err := New(Config{Kind: KindRandom, Seed: 1})
	require.NoError(t, err)
	move, err := c.BestMove(context.Background(), startFEN, 0)
	require.NoError(t, err)
	assert.Len(t, move, 4)
	assert.Equal(t, "closed", c.Breaker.State())
	require.NoError(t, c.Close())

	_, err = New(Config{Kind: "telepathy"})
	assert.Error(t, err)
	_, err = New(Config{Kind: KindUCI})
	assert.Error(t, err)
	_, err = New(Config{Kind: KindHTTP})
	assert.Error(t, err)
}
