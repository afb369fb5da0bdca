// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClock struct {
	now time.Time
}

func (m *mockClock) Now() time.Time { return m.now }

var errBoom = errors.New("boom")

func fail() error { return errBoom }
func ok() error   { return nil }

func TestCircuitBreaker_TripsAtThreshold(t *testing.T) {
	clock := &mockClock{now: time.Now()}
	cb := NewCircuitBreaker("test", 3, 10*time.Second, WithClock(clock))

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errBoom)
	}
	assert.Equal(t, string(StateClosed), cb.State())

	assert.ErrorIs(t, cb.Execute(fail), errBoom)
	assert.Equal(t, string(StateOpen), cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called, "open breaker must not run fn")
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, time.Second, WithClock(&mockClock{now: time.Now()}))

	_ = cb.Execute(fail)
	require.NoError(t, cb.Execute(ok))
	_ = cb.Execute(fail)
	assert.Equal(t, string(StateClosed), cb.State())
}

func TestCircuitBreaker_HalfOpenProbe(t *testing.T) {
	clock := &mockClock{now: time.Now()}
	cb := NewCircuitBreaker("test", 1, 10*time.Second, WithClock(clock))

	_ = cb.Execute(fail)
	require.Equal(t, string(StateOpen), cb.State())

	clock.now = clock.now.Add(11 * time.Second)
	_ = cb.Execute(fail)
	assert.Equal(t, string(StateOpen), cb.State(), "failed probe reopens")

	assert.ErrorIs(t, cb.Execute(ok), ErrCircuitOpen)

	clock.now = clock.now.Add(11 * time.Second)
	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, string(StateClosed), cb.State())
}

func TestCircuitBreaker_FailurePredicate(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, time.Second,
		WithClock(&mockClock{now: time.Now()}),
		WithFailurePredicate(IgnoreCanceled))

	err := cb.Execute(func() error { return context.Canceled })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, string(StateClosed), cb.State())

	_ = cb.Execute(func() error { return context.DeadlineExceeded })
	assert.Equal(t, string(StateOpen), cb.State())
}

func TestCircuitBreaker_PanicRecordedAsFailure(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, time.Second, WithClock(&mockClock{now: time.Now()}), WithPanicRecovery(true))

	assert.Panics(t, func() {
		_ = cb.Execute(func() error { panic("engine crashed") })
	})
	assert.Equal(t, string(StateOpen), cb.State())
}

func TestNewCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker("test", 0, 0)
	assert.Equal(t, 3, cb.threshold)
	assert.Equal(t, 30*time.Second, cb.resetTimeout)
}

func TestCircuitBreaker_HalfOpenAdmitsSingleProbe(t *testing.T) {
	clock := &mockClock{now: time.Now()}
	cb := NewCircuitBreaker("test", 1, time.Second, WithClock(clock))
	_ = cb.Execute(fail)
	clock.now = clock.now.Add(2 * time.Second)

	inProbe := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- cb.Execute(func() error {
			close(inProbe)
			<-release
			return nil
		})
	}()

	<-inProbe
	assert.Equal(t, string(StateHalfOpen), cb.State())
	assert.ErrorIs(t, cb.Execute(ok), ErrCircuitOpen, "second caller waits for the probe")

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, string(StateClosed), cb.State())
	assert.NoError(t, cb.Execute(ok))
}

func TestCircuitBreaker_IgnoredErrorFreesProbe(t *testing.T) {
	clock := &mockClock{now: time.Now()}
	cb := NewCircuitBreaker("test", 1, time.Second, WithClock(clock), WithFailurePredicate(IgnoreCanceled))
	_ = cb.Execute(fail)
	clock.now = clock.now.Add(2 * time.Second)

	assert.ErrorIs(t, cb.Execute(func() error { return context.Canceled }), context.Canceled)
	assert.Equal(t, string(StateHalfOpen), cb.State())

	require.NoError(t, cb.Execute(ok), "slot is free for the next probe")
	assert.Equal(t, string(StateClosed), cb.State())
}

func TestCircuitBreaker_PanickingProbeFreesSlot(t *testing.T) {
	clock := &mockClock{now: time.Now()}
	cb := NewCircuitBreaker("test", 1, time.Second, WithClock(clock))
	_ = cb.Execute(fail)
	clock.now = clock.now.Add(2 * time.Second)

	assert.Panics(t, func() {
		_ = cb.Execute(func() error { panic("engine crashed") })
	})
	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, string(StateClosed), cb.State())
}
