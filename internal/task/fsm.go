// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package task

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ErrInvalidTransition is returned when an event is not defined for the current state.
var ErrInvalidTransition = errors.New("invalid transition")

// Transition is one edge of a Machine.
type Transition[S, E ~string] struct {
	From  S
	Event E
	To    S
}

// Record is one committed transition.
type Record[S, E ~string] struct {
	From  S
	To    S
	Event E
	At    time.Time
}

// Observer sees every committed transition, under the machine's lock.
type Observer[S, E ~string] func(ctx context.Context, r Record[S, E])

type edge[S, E ~string] struct {
	from  S
	event E
}

// Machine is a strict table-driven state machine: an event without an edge
// from the current state is an error and changes nothing.
type Machine[S, E ~string] struct {
	edges    map[edge[S, E]]S
	observer Observer[S, E]
	now      func() time.Time

	mu      sync.Mutex
	state   S
	history []Record[S, E]
}

// NewMachine builds a machine in state initial. Two edges leaving the same
// state on the same event are rejected. observer may be nil.
func NewMachine[S, E ~string](initial S, table []Transition[S, E], observer Observer[S, E]) (*Machine[S, E], error) {
	edges := make(map[edge[S, E]]S, len(table))
	for _, t := range table {
		k := edge[S, E]{t.From, t.Event}
		if to, dup := edges[k]; dup {
			return nil, fmt.Errorf("duplicate transition %s --%s--> %s and %s", t.From, t.Event, to, t.To)
		}
		edges[k] = t.To
	}
	return &Machine[S, E]{edges: edges, observer: observer, now: time.Now, state: initial}, nil
}

func (m *Machine[S, E]) State() S {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Can reports whether event is defined for the current state.
func (m *Machine[S, E]) Can(event E) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.edges[edge[S, E]{m.state, event}]
	return ok
}

// History returns the committed transitions, oldest first.
func (m *Machine[S, E]) History() []Record[S, E] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.history)
}

// Fire applies event and returns the resulting state. On error the state
// returned is the unchanged current one.
func (m *Machine[S, E]) Fire(ctx context.Context, event E) (S, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	to, ok := m.edges[edge[S, E]{m.state, event}]
	if !ok {
		return m.state, fmt.Errorf("%w: state=%s event=%s", ErrInvalidTransition, m.state, event)
	}
	r := Record[S, E]{From: m.state, To: to, Event: event, At: m.now()}
	m.state = to
	m.history = append(m.history, r)
	if m.observer != nil {
		m.observer(ctx, r)
	}
	return to, nil
}
