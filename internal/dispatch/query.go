// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package dispatch

import (
	"context"
	"encoding/json"

	"github.com/ManuGH/chess-a2a/internal/a2a"
	"github.com/ManuGH/chess-a2a/internal/log"
	"github.com/ManuGH/chess-a2a/internal/session"
)

// get returns the last task of a session. The session is addressed by
// sessionId when given, otherwise by id.
func (d *Dispatcher) get(ctx context.Context, raw json.RawMessage) (any, *a2a.Error) {
	var q a2a.TaskQueryParams
	if rpcErr := d.schemas.DecodeParams(a2a.MethodGet, raw, &q); rpcErr != nil {
		return nil, rpcErr
	}

	key := q.ID
	bySession := q.SessionID != nil && *q.SessionID != ""
	if bySession {
		key = *q.SessionID
	}
	if key == "" {
		return nil, a2a.NewTaskNotFoundError(q.ID)
	}
	ctx = log.ContextWithSessionID(ctx, key)

	rec, rpcErr := d.lastTask(ctx, key, q.ID)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if bySession && q.ID != "" && rec.LastTask.ID != q.ID {
		return nil, a2a.NewTaskNotFoundError(q.ID)
	}
	return withHistory(*rec.LastTask, rec.History, q.HistoryLength, -1), nil
}

// cancel never succeeds: a task finishes inside the request that created it,
// so any known task is already in a final or input-required state.
func (d *Dispatcher) cancel(ctx context.Context, raw json.RawMessage) (any, *a2a.Error) {
	var p a2a.TaskIDParams
	if rpcErr := d.schemas.DecodeParams(a2a.MethodCancel, raw, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if p.ID == "" {
		return nil, a2a.NewTaskNotFoundError(p.ID)
	}
	if _, rpcErr := d.lastTask(ctx, p.ID, p.ID); rpcErr != nil {
		return nil, rpcErr
	}
	return nil, a2a.NewTaskNotCancelableError(p.ID)
}

func (d *Dispatcher) lastTask(ctx context.Context, key, taskID string) (*session.Record, *a2a.Error) {
	rec, err := d.store.Load(ctx, key)
	if err != nil {
		return nil, internalError(err, "session store unavailable")
	}
	if rec == nil || rec.LastTask == nil {
		return nil, a2a.NewTaskNotFoundError(taskID)
	}
	return rec, nil
}
