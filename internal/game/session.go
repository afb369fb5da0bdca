// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package game holds one chess game between a user (white) and the move
// oracle (black). Every mutation is validated by github.com/notnil/chess, so
// the position is always legal.
package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/notnil/chess"
)

// DefaultTimeBudget is the oracle thinking time for new sessions.
const DefaultTimeBudget = 500 * time.Millisecond

// Oracle produces one move, in UCI notation, for a FEN position.
type Oracle interface {
	BestMove(ctx context.Context, fen string, budget time.Duration) (string, error)
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(ctx context.Context, fen string, budget time.Duration) (string, error)

func (f OracleFunc) BestMove(ctx context.Context, fen string, budget time.Duration) (string, error) {
	return f(ctx, fen, budget)
}

// Session is a game plus the oracle time budget. It is not safe for
// concurrent use; callers serialise access per session id.
type Session struct {
	g      *chess.Game
	budget time.Duration
}

// New starts a game from the standard initial position. A non-positive
// budget falls back to DefaultTimeBudget.
func New(budget time.Duration) *Session {
	if budget <= 0 {
		budget = DefaultTimeBudget
	}
	return &Session{g: chess.NewGame(), budget: budget}
}

// FEN returns the current position.
func (s *Session) FEN() string { return s.g.Position().String() }

// TimeBudget returns the oracle thinking time.
func (s *Session) TimeBudget() time.Duration { return s.budget }

// Result returns the game outcome.
func (s *Session) Result() Result { return resultOf(s.g) }

// Moves returns the played half-moves in SAN, oldest first.
func (s *Session) Moves() []string {
	moves := s.g.Moves()
	if len(moves) == 0 {
		return nil
	}
	positions := s.g.Positions()
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = chess.AlgebraicNotation{}.Encode(positions[i], m)
	}
	return out
}

// DrawBoard renders the position as text, white at the bottom.
func (s *Session) DrawBoard() string {
	return strings.Trim(s.g.Position().Board().Draw(), "\n")
}

// Clone returns an independent copy.
func (s *Session) Clone() *Session {
	return &Session{g: s.g.Clone(), budget: s.budget}
}

// ApplyUserMove decodes text (SAN, then UCI) and plays it. On failure the
// position is unchanged.
func (s *Session) ApplyUserMove(text string) (Move, error) {
	if s.Result().Concluded() {
		return Move{}, ErrGameOver
	}
	normalized := NormalizeMoveText(text)
	if normalized == "" {
		return Move{}, &InvalidMoveError{Move: text, Reason: "empty move"}
	}

	pos := s.g.Position()
	m, err := decodeMove(pos, normalized)
	if err != nil {
		return Move{}, &InvalidMoveError{Move: normalized, Reason: err.Error()}
	}
	played := encodeMove(pos, m)
	if err := s.g.Move(m); err != nil {
		return Move{}, &InvalidMoveError{Move: normalized, Reason: errIllegal.Error()}
	}
	return played, nil
}

// ApplyOracleMove asks o for a move in the current position and plays it.
// Oracle failures are returned wrapped; an unusable reply is ErrOracleMove.
func (s *Session) ApplyOracleMove(ctx context.Context, o Oracle) (Move, error) {
	if s.Result().Concluded() {
		return Move{}, ErrGameOver
	}
	pos := s.g.Position()
	reply, err := o.BestMove(ctx, pos.String(), s.budget)
	if err != nil {
		return Move{}, fmt.Errorf("oracle: %w", err)
	}

	reply = strings.ToLower(strings.TrimSpace(reply))
	if !uciPattern.MatchString(reply) {
		return Move{}, fmt.Errorf("%w: %q", ErrOracleMove, reply)
	}
	decoded, err := (chess.UCINotation{}).Decode(pos, reply)
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q is not legal in %s", ErrOracleMove, reply, pos.String())
	}
	m, ok := legalMove(pos, decoded)
	if !ok {
		return Move{}, fmt.Errorf("%w: %q is not legal in %s", ErrOracleMove, reply, pos.String())
	}
	played := encodeMove(pos, m)
	if err := s.g.Move(m); err != nil {
		return Move{}, fmt.Errorf("%w: %v", ErrOracleMove, err)
	}
	return played, nil
}

// Turn is the outcome of one request: the user's half-move, the oracle's
// reply (nil when the user's move ended the game) and the resulting result.
type Turn struct {
	User   Move
	Agent  *Move
	Result Result
}

// Advance plays the user move and the oracle reply on a clone and returns
// the clone only if every step succeeded. s is never modified.
func (s *Session) Advance(ctx context.Context, userMove string, o Oracle) (*Session, Turn, error) {
	next := s.Clone()

	user, err := next.ApplyUserMove(userMove)
	if err != nil {
		return nil, Turn{}, err
	}
	turn := Turn{User: user}
	if r := next.Result(); r.Concluded() {
		turn.Result = r
		return next, turn, nil
	}

	agent, err := next.ApplyOracleMove(ctx, o)
	if err != nil {
		return nil, Turn{}, err
	}
	turn.Agent = &agent
	turn.Result = next.Result()
	return next, turn, nil
}
