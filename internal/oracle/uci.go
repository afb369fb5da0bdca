// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package oracle

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/ManuGH/chess-a2a/internal/log"
	"github.com/ManuGH/chess-a2a/internal/metrics"
	"github.com/ManuGH/chess-a2a/internal/procgroup"
)

// uciProcess is one engine subprocess speaking UCI over stdin/stdout.
type uciProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	lines  chan string
	waitCh chan error
	quit   chan struct{}

	stopOnce sync.Once
}

func startUCI(ctx context.Context, path string, args []string, handshake time.Duration) (*uciProcess, error) {
	cmd := exec.Command(path, args...)
	procgroup.Isolate(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", path, err)
	}
	metrics.AddEngineProcesses(1)

	p := &uciProcess{
		cmd:    cmd,
		stdin:  stdin,
		lines:  make(chan string, 64),
		waitCh: make(chan error, 1),
		quit:   make(chan struct{}),
	}
	go p.readLoop(stdout)

	hctx, cancel := context.WithTimeout(ctx, handshake)
	defer cancel()
	if err := p.handshake(hctx); err != nil {
		p.terminate(time.Second)
		return nil, fmt.Errorf("handshake: %w", err)
	}
	return p, nil
}

// readLoop forwards stdout lines until EOF, then reaps the process. Wait
// must not run before all reads from the pipe have finished.
func (p *uciProcess) readLoop(stdout io.Reader) {
	sc := bufio.NewScanner(stdout)
	for sc.Scan() {
		select {
		case p.lines <- sc.Text():
		case <-p.quit:
		}
	}
	close(p.lines)
	p.waitCh <- p.cmd.Wait()
	metrics.AddEngineProcesses(-1)
}

func (p *uciProcess) send(cmds ...string) error {
	for _, c := range cmds {
		if _, err := io.WriteString(p.stdin, c+"\n"); err != nil {
			return fmt.Errorf("write %q: %w", c, err)
		}
	}
	return nil
}

// expect reads lines until one starts with prefix.
func (p *uciProcess) expect(ctx context.Context, prefix string) (string, error) {
	for {
		select {
		case line, ok := <-p.lines:
			if !ok {
				return "", fmt.Errorf("engine exited while waiting for %q", prefix)
			}
			if strings.HasPrefix(line, prefix) {
				return line, nil
			}
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func (p *uciProcess) handshake(ctx context.Context) error {
	if err := p.send("uci"); err != nil {
		return err
	}
	if _, err := p.expect(ctx, "uciok"); err != nil {
		return err
	}
	if err := p.send("ucinewgame", "isready"); err != nil {
		return err
	}
	_, err := p.expect(ctx, "readyok")
	return err
}

// bestMove runs one search. healthy is false when the process must be
// replaced.
func (p *uciProcess) bestMove(ctx context.Context, fen string, budget, grace time.Duration) (move string, healthy bool, err error) {
	if err := p.send("position fen "+fen, fmt.Sprintf("go movetime %d", budget.Milliseconds())); err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	sctx, cancel := context.WithTimeout(ctx, budget+grace)
	defer cancel()

	line, err := p.expect(sctx, "bestmove")
	if err == nil {
		return parseBestMove(line)
	}
	if sctx.Err() == nil {
		// lines closed: the engine died mid-search.
		return "", false, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	// Deadline: ask the engine to stop and give it one grace period to
	// answer so the process can be reused.
	_ = p.send("stop")
	dctx, dcancel := context.WithTimeout(context.Background(), grace)
	defer dcancel()
	_, drainErr := p.expect(dctx, "bestmove")
	return "", drainErr == nil, fmt.Errorf("%w: %w", ErrTimeout, err)
}

func parseBestMove(line string) (string, bool, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[1] == "(none)" || fields[1] == "0000" {
		return "", true, fmt.Errorf("%w: engine reported no move: %q", ErrUnavailable, line)
	}
	return fields[1], true, nil
}

// terminate asks the engine to quit and escalates to SIGTERM and SIGKILL on
// the whole process group.
func (p *uciProcess) terminate(grace time.Duration) {
	p.stopOnce.Do(func() {
		_ = p.send("quit")
		_ = p.stdin.Close()
		close(p.quit)

		select {
		case <-p.waitCh:
			return
		case <-time.After(grace):
		}
		if err := procgroup.Stop(p.cmd, p.waitCh, grace); err != nil {
			logger := log.WithComponent("oracle")
			logger.Debug().Err(err).Int("pid", p.cmd.Process.Pid).Msg("engine terminated")
		}
	})
}
