// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/chess-a2a/internal/config"
	"github.com/ManuGH/chess-a2a/internal/log"
)

// blockingManager runs until its context ends or fail is closed.
type blockingManager struct {
	startErr error
	fail     chan struct{}

	mu            sync.Mutex
	shutdownCalls int
}

func (m *blockingManager) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-m.fail:
		return m.startErr
	}
}

func (m *blockingManager) Shutdown(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdownCalls++
	return nil
}

func (m *blockingManager) RegisterShutdownHook(string, ShutdownHook) {}

type recordingTuner struct {
	mu      sync.Mutex
	budgets []time.Duration
}

func (r *recordingTuner) SetTimeBudget(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.budgets = append(r.budgets, d)
}

func (r *recordingTuner) last() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.budgets) == 0 {
		return 0
	}
	return r.budgets[len(r.budgets)-1]
}

func newHolder(t *testing.T, body string) (*config.ConfigHolder, string) {
	t.Helper()
	t.Setenv("CHESS_A2A_ARTIFACTS_DIR", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	loader := config.NewLoader(path, "test")
	cfg, err := loader.Load()
	require.NoError(t, err)
	return config.NewConfigHolder(cfg, loader), path
}

func TestApp_Run_MissingManager(t *testing.T) {
	app := NewApp(zerolog.Nop(), nil, nil, nil)
	assert.ErrorIs(t, app.Run(context.Background()), ErrMissingManager)
}

func TestApp_Run_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	holder, _ := newHolder(t, "engine:\n  timeBudget: 500ms\n")
	app := NewApp(log.WithComponent("test"), &blockingManager{fail: make(chan struct{})}, holder, &recordingTuner{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestApp_Run_ManagerFailureShutsDown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	boom := errors.New("bind failed")
	mgr := &blockingManager{startErr: boom, fail: make(chan struct{})}
	close(mgr.fail)

	app := NewApp(log.WithComponent("test"), mgr, nil, nil)
	err := app.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, mgr.shutdownCalls)
}

func TestApp_ReloadAppliesTimeBudget(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	holder, path := newHolder(t, "engine:\n  timeBudget: 500ms\n")
	tuner := &recordingTuner{}
	app := NewApp(log.WithComponent("test"), &blockingManager{fail: make(chan struct{})}, holder, tuner)
	app.reloadSignal = nil

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// Run registers its listener asynchronously, so keep changing the
	// budget until one reload is observed.
	n := 0
	assert.Eventually(t, func() bool {
		n++
		body := fmt.Sprintf("engine:\n  timeBudget: %dms\n", 1000+n)
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			return false
		}
		if err := holder.Reload(ctx); err != nil {
			return false
		}
		return tuner.last() > time.Second
	}, 3*time.Second, 20*time.Millisecond)
}

func TestApp_ApplySkipsUnchangedBudget(t *testing.T) {
	tuner := &recordingTuner{}
	app := NewApp(zerolog.Nop(), nil, nil, tuner)

	prev := config.Defaults()
	next := prev
	next.API.ListenAddr = ":6000"
	app.apply(prev, next)
	assert.Empty(t, tuner.budgets)

	next.Engine.TimeBudget = 2 * time.Second
	app.apply(prev, next)
	assert.Equal(t, []time.Duration{2 * time.Second}, tuner.budgets)
}
