// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package game

import "github.com/notnil/chess"

// Outcome is the result of a game from the protocol's point of view.
type Outcome string

const (
	OutcomeOngoing  Outcome = "ongoing"
	OutcomeWhiteWon Outcome = "white_won"
	OutcomeBlackWon Outcome = "black_won"
	OutcomeDraw     Outcome = "draw"
)

// Method names how a concluded game ended. Empty while ongoing.
type Method string

const (
	MethodNone                 Method = ""
	MethodCheckmate            Method = "checkmate"
	MethodStalemate            Method = "stalemate"
	MethodInsufficientMaterial Method = "insufficient_material"
	MethodFiftyMoveRule        Method = "fifty_move_rule"
	MethodThreefoldRepetition  Method = "threefold_repetition"
	MethodFivefoldRepetition   Method = "fivefold_repetition"
	MethodSeventyFiveMoveRule  Method = "seventy_five_move_rule"
	MethodResignation          Method = "resignation"
	MethodDrawOffer            Method = "draw_offer"
)

// Result pairs an outcome with the method that produced it.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Method  Method  `json:"method,omitempty"`
}

// Concluded reports whether no further moves can be played.
func (r Result) Concluded() bool { return r.Outcome != OutcomeOngoing }

func resultOf(g *chess.Game) Result {
	var o Outcome
	switch g.Outcome() {
	case chess.WhiteWon:
		o = OutcomeWhiteWon
	case chess.BlackWon:
		o = OutcomeBlackWon
	case chess.Draw:
		o = OutcomeDraw
	default:
		return Result{Outcome: OutcomeOngoing}
	}
	return Result{Outcome: o, Method: methodOf(g.Method())}
}

func methodOf(m chess.Method) Method {
	switch m {
	case chess.Checkmate:
		return MethodCheckmate
	case chess.Stalemate:
		return MethodStalemate
	case chess.InsufficientMaterial:
		return MethodInsufficientMaterial
	case chess.FiftyMoveRule:
		return MethodFiftyMoveRule
	case chess.ThreefoldRepetition:
		return MethodThreefoldRepetition
	case chess.FivefoldRepetition:
		return MethodFivefoldRepetition
	case chess.SeventyFiveMoveRule:
		return MethodSeventyFiveMoveRule
	case chess.Resignation:
		return MethodResignation
	case chess.DrawOffer:
		return MethodDrawOffer
	}
	return MethodNone
}
