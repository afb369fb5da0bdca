// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package procgroup

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/ManuGH/chess-a2a/internal/metrics"
)

// Stop signals cmd's group with SIGTERM and, if nothing arrives on exited
// within grace, with SIGKILL. exited must deliver the result of cmd.Wait;
// Stop always receives from it once so the reaping goroutine can finish,
// and returns that result. A nil or unstarted cmd returns nil.
func Stop(cmd *exec.Cmd, exited <-chan error, grace time.Duration) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	send(cmd, syscall.SIGTERM)
	select {
	case err := <-exited:
		metrics.RecordEngineExit(exitOutcome(err, false))
		return err
	case <-time.After(grace):
	}

	send(cmd, syscall.SIGKILL)
	err := <-exited
	metrics.RecordEngineExit(exitOutcome(err, true))
	return err
}

func send(cmd *exec.Cmd, sig syscall.Signal) {
	result := "sent"
	if err := Signal(cmd, sig); err != nil {
		result = "error"
		if errors.Is(err, os.ErrProcessDone) {
			result = "gone"
		}
	}
	metrics.RecordEngineSignal(sig.String(), result)
}

func exitOutcome(err error, killed bool) string {
	switch {
	case killed:
		return "killed"
	case err == nil:
		return "clean"
	default:
		return "error"
	}
}
