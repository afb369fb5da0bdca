// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package dispatch

import (
	"fmt"
	"path"
	"slices"

	"github.com/ManuGH/chess-a2a/internal/a2a"
	"github.com/ManuGH/chess-a2a/internal/game"
)

// agentMessage builds the status message of a committed turn:
// the agent move (or the final result), the board as text and a data part.
func agentMessage(s *game.Session, turn game.Turn) *a2a.Message {
	headline := summary(turn.Result)
	if turn.Agent != nil {
		headline = turn.Agent.SAN
	}

	data := map[string]any{
		"fen":      s.FEN(),
		"userMove": turn.User.SAN,
		"outcome":  string(turn.Result.Outcome),
		"moves":    s.Moves(),
	}
	if turn.Agent != nil {
		data["agentMove"] = map[string]any{"san": turn.Agent.SAN, "uci": turn.Agent.UCI}
	}
	if turn.Result.Method != game.MethodNone {
		data["method"] = string(turn.Result.Method)
	}

	return a2a.NewAgentMessage(
		a2a.TextPart{Text: headline},
		a2a.TextPart{Text: s.DrawBoard()},
		a2a.DataPart{Data: data},
	)
}

func summary(r game.Result) string {
	switch r.Outcome {
	case game.OutcomeWhiteWon:
		return fmt.Sprintf("Game over: white wins by %s", r.Method)
	case game.OutcomeBlackWon:
		return fmt.Sprintf("Game over: black wins by %s", r.Method)
	case game.OutcomeDraw:
		return fmt.Sprintf("Game over: draw by %s", r.Method)
	default:
		return "Your move"
	}
}

// withHistory returns t carrying the last n messages of history, or the
// last def messages when the client did not ask. A negative def keeps the
// full stored history.
func withHistory(t a2a.Task, history []a2a.Message, n *int, def int) *a2a.Task {
	keep := len(history)
	switch {
	case n != nil:
		keep = min(max(*n, 0), keep)
	case def >= 0:
		keep = min(def, keep)
	}
	t.History = nil
	if keep > 0 {
		t.History = slices.Clone(history[len(history)-keep:])
	}
	return &t
}

func artifactName(url string) string {
	return path.Base(url)
}
