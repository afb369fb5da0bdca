// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package game

import (
	"fmt"
	"math"
	"time"

	"github.com/notnil/chess"
)

// Record is the persisted form of a Session.
type Record struct {
	// Position is the FEN of the current position.
	Position string `json:"position"`
	// TimeBudget is the oracle thinking time in seconds.
	TimeBudget float64 `json:"timeBudget"`
	// Moves is the SAN move list from the initial position. Replaying it
	// restores repetition history; an empty list with a non-initial
	// Position restores from the FEN alone.
	Moves []string `json:"moves,omitempty"`
}

// Snapshot returns the persisted form of s.
func (s *Session) Snapshot() Record {
	return Record{
		Position:   s.FEN(),
		TimeBudget: s.budget.Seconds(),
		Moves:      s.Moves(),
	}
}

// Restore rebuilds a Session from a Record.
func Restore(r Record) (*Session, error) {
	budget := time.Duration(math.Round(r.TimeBudget * float64(time.Second)))
	s := New(budget)

	if len(r.Moves) == 0 {
		if r.Position == "" || r.Position == s.FEN() {
			return s, nil
		}
		opt, err := chess.FEN(r.Position)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
		}
		s.g = chess.NewGame(opt)
		return s, nil
	}

	for i, san := range r.Moves {
		m, err := (chess.AlgebraicNotation{}).Decode(s.g.Position(), san)
		if err != nil {
			return nil, fmt.Errorf("%w: move %d %q: %v", ErrCorruptRecord, i+1, san, err)
		}
		if err := s.g.Move(m); err != nil {
			return nil, fmt.Errorf("%w: move %d %q: %v", ErrCorruptRecord, i+1, san, err)
		}
	}
	if r.Position != "" && r.Position != s.FEN() {
		return nil, fmt.Errorf("%w: moves replay to %q, record says %q", ErrCorruptRecord, s.FEN(), r.Position)
	}
	return s, nil
}
