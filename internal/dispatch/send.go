// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"slices"

	"github.com/ManuGH/chess-a2a/internal/a2a"
	"github.com/ManuGH/chess-a2a/internal/game"
	"github.com/ManuGH/chess-a2a/internal/log"
	"github.com/ManuGH/chess-a2a/internal/metrics"
	"github.com/ManuGH/chess-a2a/internal/oracle"
	"github.com/ManuGH/chess-a2a/internal/session"
	"github.com/ManuGH/chess-a2a/internal/task"
	"github.com/ManuGH/chess-a2a/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// textOutputModes are the modes a client must accept to read a move reply.
var textOutputModes = []string{a2a.MimeText, a2a.MimeFEN}

func acceptsOutput(modes []string) bool {
	if len(modes) == 0 {
		return true
	}
	for _, m := range textOutputModes {
		if slices.Contains(modes, m) {
			return true
		}
	}
	return false
}

// send plays one user move and the oracle reply for a session.
//
// Order of side effects: both half-moves are computed on a copy, the session
// is saved, and only then is the board image published. A failure before the
// save leaves the stored session untouched; a publish failure after it only
// drops the file part.
func (d *Dispatcher) send(ctx context.Context, raw json.RawMessage) (any, *a2a.Error) {
	var p a2a.TaskSendParams
	if rpcErr := d.schemas.DecodeParams(a2a.MethodSend, raw, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if !acceptsOutput(p.AcceptedOutputModes) {
		return nil, a2a.NewIncompatibleContentTypesError(textOutputModes)
	}

	taskID := p.ID
	if taskID == "" {
		taskID = d.newID()
	}
	sessionID := taskID
	if p.SessionID != nil && *p.SessionID != "" {
		sessionID = *p.SessionID
	}
	ctx = log.ContextWithTaskID(log.ContextWithSessionID(ctx, sessionID), taskID)
	trace.SpanFromContext(ctx).SetAttributes(telemetry.TaskAttributes(taskID, sessionID)...)
	logger := log.WithComponentFromContext(ctx, "dispatch")

	moveText, err := p.Message.MoveText()
	if err != nil {
		return nil, a2a.NewInvalidParamsError(map[string]string{"detail": err.Error()})
	}

	lc := task.New(taskID)
	unlock, err := d.locker.Lock(ctx, sessionID)
	if err != nil {
		return nil, internalError(err, "session is busy")
	}
	defer unlock()

	rec, err := d.store.Load(ctx, sessionID)
	if err != nil {
		return nil, internalError(err, "session store unavailable")
	}
	var current *game.Session
	if rec == nil {
		current = game.New(d.TimeBudget())
		rec = &session.Record{}
		logger.Info().Str(log.FieldEvent, "session.created").Msg("new game started")
	} else if current, err = game.Restore(rec.Game); err != nil {
		return nil, internalError(err, "stored session is corrupt")
	}

	if err := lc.Start(ctx); err != nil {
		return nil, internalError(err, "task lifecycle")
	}

	next, turn, err := current.Advance(ctx, moveText, d.oracle)
	if err != nil {
		_ = lc.Fail(ctx)
		return nil, d.moveError(ctx, moveText, err)
	}
	metrics.RecordMove("user", "accepted")
	agentSAN, agentUCI := "", ""
	if turn.Agent != nil {
		agentSAN, agentUCI = turn.Agent.SAN, turn.Agent.UCI
		metrics.RecordMove("agent", "accepted")
	}
	trace.SpanFromContext(ctx).SetAttributes(
		telemetry.GameAttributes(turn.User.SAN, agentSAN, string(turn.Result.Outcome), string(turn.Result.Method))...)

	if turn.Result.Concluded() {
		err = lc.Complete(ctx)
	} else {
		err = lc.AwaitInput(ctx)
	}
	if err != nil {
		return nil, internalError(err, "task lifecycle")
	}

	now := d.now().UTC()
	reply := agentMessage(next, turn)
	t := &a2a.Task{
		ID:        taskID,
		SessionID: sessionID,
		Status: a2a.TaskStatus{
			State:     lc.State(),
			Message:   reply,
			Timestamp: now,
		},
		Transitions: lc.Transitions(),
		Metadata:    p.Metadata,
	}

	rec.Game = next.Snapshot()
	rec.AppendHistory(p.Message, *reply)
	rec.LastTask = t
	rec.UpdatedAt = now
	if err := d.store.Save(ctx, sessionID, rec); err != nil {
		if errors.Is(err, session.ErrConflict) {
			return nil, internalError(err, "session modified concurrently; retry")
		}
		return nil, internalError(err, "session store unavailable")
	}

	logger.Info().
		Str(log.FieldEvent, "move.played").
		Str(log.FieldMove, turn.User.SAN).
		Str(log.FieldAgentMove, agentUCI).
		Str(log.FieldFEN, next.FEN()).
		Str(log.FieldOutcome, string(turn.Result.Outcome)).
		Msg("turn committed")
	if turn.Result.Concluded() {
		d.recordGame(ctx, turn.Result)
	}

	if d.publisher != nil {
		d.attachArtifact(ctx, sessionID, rec, next.FEN())
	}

	return withHistory(*rec.LastTask, rec.History, p.HistoryLength, 0), nil
}

// attachArtifact publishes the board and, on success, adds the file part to
// the stored last task. Failures degrade to artifactError metadata; the
// reply never carries a file part the store does not hold.
func (d *Dispatcher) attachArtifact(ctx context.Context, sessionID string, rec *session.Record, fen string) {
	logger := log.WithComponentFromContext(ctx, "dispatch")
	committed := rec.LastTask

	url, err := d.publisher.Publish(ctx, fen)
	if err != nil {
		logger.Warn().Err(err).Msg("artifact publish failed; replying without image")
		rec.LastTask = withArtifactError(committed, err)
		return
	}

	t := *committed
	msg := *t.Status.Message
	msg.Parts = append(slices.Clone(msg.Parts), a2a.FilePart{File: a2a.FileContent{
		Name:     artifactName(url),
		MimeType: d.publisher.MimeType(),
		URI:      url,
	}})
	t.Status.Message = &msg
	rec.LastTask = &t

	if err := d.store.Save(ctx, sessionID, rec); err != nil {
		logger.Warn().Err(err).Msg("storing artifact reference failed; replying without image")
		rec.LastTask = withArtifactError(committed, err)
	}
}

func withArtifactError(t *a2a.Task, err error) *a2a.Task {
	cp := *t
	msg := *cp.Status.Message
	msg.Metadata = map[string]any{"artifactError": err.Error()}
	cp.Status.Message = &msg
	return &cp
}

// moveError maps Advance failures to protocol errors.
func (d *Dispatcher) moveError(ctx context.Context, moveText string, err error) *a2a.Error {
	var invalid *game.InvalidMoveError
	switch {
	case errors.As(err, &invalid):
		metrics.RecordMove("user", "illegal")
		return a2a.NewInvalidParamsError(map[string]string{"move": invalid.Move, "reason": invalid.Reason})
	case errors.Is(err, game.ErrGameOver):
		metrics.RecordMove("user", "illegal")
		return a2a.NewInvalidParamsError(map[string]string{"move": moveText, "reason": game.ErrGameOver.Error()})
	}

	metrics.RecordMove("agent", "error")
	switch {
	case errors.Is(err, oracle.ErrTimeout), errors.Is(err, context.DeadlineExceeded), ctx.Err() != nil:
		return a2a.NewInternalError(map[string]string{"detail": "move oracle timed out"})
	case errors.Is(err, game.ErrOracleMove):
		return internalError(err, "move oracle returned an unusable move")
	default:
		return internalError(err, "move oracle unavailable")
	}
}

// internalError hides err from the message and puts a short description in data.
func internalError(err error, detail string) *a2a.Error {
	data := map[string]string{"detail": detail}
	if errors.Is(err, context.DeadlineExceeded) {
		data["detail"] = "request timed out"
	}
	return a2a.NewInternalError(data)
}
