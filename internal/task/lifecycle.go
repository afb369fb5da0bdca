// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package task

import (
	"context"
	"errors"

	"github.com/ManuGH/chess-a2a/internal/a2a"
	"github.com/ManuGH/chess-a2a/internal/log"
	"github.com/ManuGH/chess-a2a/internal/metrics"
)

// Event drives a task from one state to the next.
type Event string

const (
	EventStart      Event = "start"
	EventAwaitInput Event = "await_input"
	EventComplete   Event = "complete"
	EventFail       Event = "fail"
	EventCancel     Event = "cancel"
)

// Table is the complete set of legal task transitions. Terminal states have
// no outgoing edges.
func Table() []Transition[a2a.TaskState, Event] {
	return []Transition[a2a.TaskState, Event]{
		{From: a2a.TaskStateSubmitted, Event: EventStart, To: a2a.TaskStateWorking},
		{From: a2a.TaskStateSubmitted, Event: EventCancel, To: a2a.TaskStateCanceled},
		{From: a2a.TaskStateWorking, Event: EventAwaitInput, To: a2a.TaskStateInputRequired},
		{From: a2a.TaskStateWorking, Event: EventComplete, To: a2a.TaskStateCompleted},
		{From: a2a.TaskStateWorking, Event: EventFail, To: a2a.TaskStateFailed},
		{From: a2a.TaskStateWorking, Event: EventCancel, To: a2a.TaskStateCanceled},
	}
}

// Lifecycle tracks the state of a single task. Tasks are per-request, so a
// Lifecycle lives for the duration of one tasks/send.
type Lifecycle struct {
	id string
	m  *Machine[a2a.TaskState, Event]
}

// New returns a lifecycle in the submitted state.
func New(id string) *Lifecycle {
	l := &Lifecycle{id: id}
	m, err := NewMachine(a2a.TaskStateSubmitted, Table(), l.observe)
	if err != nil {
		// Table is static; a duplicate edge is a programming error.
		panic(err)
	}
	l.m = m
	return l
}

// ID returns the task id.
func (l *Lifecycle) ID() string { return l.id }

// State returns the current state.
func (l *Lifecycle) State() a2a.TaskState { return l.m.State() }

// Fire applies event. Events not defined for the current state return an
// error wrapping ErrInvalidTransition and leave the state unchanged.
func (l *Lifecycle) Fire(ctx context.Context, event Event) (a2a.TaskState, error) {
	to, err := l.m.Fire(ctx, event)
	if errors.Is(err, ErrInvalidTransition) {
		metrics.RecordTaskTransitionRejected(string(to), string(event))
		logger := log.WithComponentFromContext(ctx, "task")
		logger.Warn().
			Str(log.FieldTaskID, l.id).
			Str(log.FieldOldState, string(to)).
			Str(log.FieldEvent, string(event)).
			Msg("task event rejected")
	}
	return to, err
}

func (l *Lifecycle) Start(ctx context.Context) error {
	_, err := l.Fire(ctx, EventStart)
	return err
}

func (l *Lifecycle) AwaitInput(ctx context.Context) error {
	_, err := l.Fire(ctx, EventAwaitInput)
	return err
}

func (l *Lifecycle) Complete(ctx context.Context) error {
	_, err := l.Fire(ctx, EventComplete)
	return err
}

func (l *Lifecycle) Fail(ctx context.Context) error {
	_, err := l.Fire(ctx, EventFail)
	return err
}

func (l *Lifecycle) Cancel(ctx context.Context) error {
	_, err := l.Fire(ctx, EventCancel)
	return err
}

// Transitions returns the committed history in wire form, oldest first.
func (l *Lifecycle) Transitions() []a2a.StateTransition {
	hist := l.m.History()
	out := make([]a2a.StateTransition, 0, len(hist))
	for _, r := range hist {
		out = append(out, a2a.StateTransition{
			From:      r.From,
			To:        r.To,
			Event:     string(r.Event),
			Timestamp: r.At.UTC(),
		})
	}
	return out
}

func (l *Lifecycle) observe(ctx context.Context, r Record[a2a.TaskState, Event]) {
	metrics.RecordTaskTransition(string(r.From), string(r.To))
	logger := log.WithComponentFromContext(ctx, "task")
	logger.Debug().
		Str(log.FieldTaskID, l.id).
		Str(log.FieldOldState, string(r.From)).
		Str(log.FieldNewState, string(r.To)).
		Str(log.FieldEvent, string(r.Event)).
		Msg("task transition")
}
