// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package game

import (
	"regexp"
	"strings"

	"github.com/notnil/chess"
	"golang.org/x/text/unicode/norm"
)

var uciPattern = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][qrbn]?$`)

// Move is one half-move in both notations.
type Move struct {
	SAN string `json:"san"`
	UCI string `json:"uci"`
}

// NormalizeMoveText folds compatibility characters (full-width letters,
// ligatures) and surrounding whitespace out of client input.
func NormalizeMoveText(text string) string {
	s := strings.TrimSpace(norm.NFKC.String(text))
	// Zero-castling is common in hand-typed input.
	switch s {
	case "0-0":
		s = "O-O"
	case "0-0-0":
		s = "O-O-O"
	}
	return s
}

// decodeMove resolves text against pos, trying SAN first and UCI second.
func decodeMove(pos *chess.Position, text string) (*chess.Move, error) {
	if m, err := (chess.AlgebraicNotation{}).Decode(pos, text); err == nil {
		return m, nil
	}
	lower := strings.ToLower(text)
	if !uciPattern.MatchString(lower) {
		return nil, errNotation
	}
	m, err := (chess.UCINotation{}).Decode(pos, lower)
	if err != nil {
		return nil, errNotation
	}
	legal, ok := legalMove(pos, m)
	if !ok {
		return nil, errIllegal
	}
	return legal, nil
}

// legalMove returns the entry of pos.ValidMoves matching m. Only those
// entries carry the check and capture tags SAN encoding needs.
func legalMove(pos *chess.Position, m *chess.Move) (*chess.Move, bool) {
	for _, v := range pos.ValidMoves() {
		if v.S1() == m.S1() && v.S2() == m.S2() && v.Promo() == m.Promo() {
			return v, true
		}
	}
	return nil, false
}

func encodeMove(pos *chess.Position, m *chess.Move) Move {
	return Move{
		SAN: chess.AlgebraicNotation{}.Encode(pos, m),
		UCI: chess.UCINotation{}.Encode(pos, m),
	}
}

type reasonError string

func (e reasonError) Error() string { return string(e) }

const (
	errNotation reasonError = "not a legal move in SAN or UCI notation"
	errIllegal  reasonError = "move is not legal in the current position"
)
