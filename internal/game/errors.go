// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMove is wrapped by every *InvalidMoveError.
	ErrInvalidMove = errors.New("invalid move")
	// ErrGameOver is returned for a move attempted on a concluded game.
	ErrGameOver = errors.New("game already concluded")
	// ErrOracleMove is returned when the oracle answers with a move that
	// cannot be decoded or is not legal in the position it was asked about.
	ErrOracleMove = errors.New("oracle returned an unusable move")
	// ErrCorruptRecord is returned by Restore when a stored record does not
	// replay to its own position.
	ErrCorruptRecord = errors.New("corrupt game record")
)

// InvalidMoveError carries the rejected move text and the reason.
type InvalidMoveError struct {
	Move   string
	Reason string
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid move %q: %s", e.Move, e.Reason)
}

func (e *InvalidMoveError) Unwrap() error { return ErrInvalidMove }
