// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package oracle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ManuGH/chess-a2a/internal/log"
)

// UCIConfig configures a pool of UCI engine subprocesses.
type UCIConfig struct {
	Path     string
	Args     []string
	PoolSize int
	// Grace is added to the budget before a search counts as hung, and is
	// the SIGTERM-to-SIGKILL delay on shutdown.
	Grace time.Duration
	// Handshake bounds uci/isready at spawn time.
	Handshake time.Duration
}

const (
	defaultPoolSize  = 2
	defaultGrace     = 500 * time.Millisecond
	defaultHandshake = 5 * time.Second
)

// UCIEngine serves BestMove from a fixed-size pool of engine processes.
// Processes are spawned lazily and replaced after a failure or a hung
// search.
type UCIEngine struct {
	cfg   UCIConfig
	slots chan *uciProcess

	mu     sync.Mutex
	closed bool
	reaper sync.WaitGroup
}

// NewUCIEngine returns a pool. No process is started until the first call.
func NewUCIEngine(cfg UCIConfig) (*UCIEngine, error) {
	if cfg.Path == "" {
		return nil, errors.New("uci engine path is required")
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = defaultPoolSize
	}
	if cfg.Grace <= 0 {
		cfg.Grace = defaultGrace
	}
	if cfg.Handshake <= 0 {
		cfg.Handshake = defaultHandshake
	}

	e := &UCIEngine{cfg: cfg, slots: make(chan *uciProcess, cfg.PoolSize)}
	for i := 0; i < cfg.PoolSize; i++ {
		e.slots <- nil
	}
	return e, nil
}

func (e *UCIEngine) BestMove(ctx context.Context, fen string, budget time.Duration) (string, error) {
	if e.isClosed() {
		return "", fmt.Errorf("%w: engine pool closed", ErrUnavailable)
	}

	var p *uciProcess
	select {
	case p = <-e.slots:
	case <-ctx.Done():
		return "", classify(ctx.Err())
	}

	if p == nil {
		var err error
		p, err = startUCI(ctx, e.cfg.Path, e.cfg.Args, e.cfg.Handshake)
		if err != nil {
			e.slots <- nil
			return "", classify(err)
		}
	}

	move, healthy, err := p.bestMove(ctx, fen, budget, e.cfg.Grace)
	if healthy {
		e.slots <- p
	} else {
		logger := log.WithComponentFromContext(ctx, "oracle")
		logger.Warn().Err(err).Msg("replacing engine process")
		e.reaper.Add(1)
		go func() {
			defer e.reaper.Done()
			p.terminate(e.cfg.Grace)
		}()
		e.slots <- nil
	}
	return move, classify(err)
}

// Close waits for in-flight searches and stops every process.
func (e *UCIEngine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	var wg sync.WaitGroup
	for i := 0; i < e.cfg.PoolSize; i++ {
		p := <-e.slots
		if p == nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.terminate(e.cfg.Grace)
		}()
	}
	wg.Wait()
	e.reaper.Wait()
	return nil
}

func (e *UCIEngine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}
