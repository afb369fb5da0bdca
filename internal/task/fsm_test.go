// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	st string
	ev string
)

func TestMachine_RejectsDuplicateEdges(t *testing.T) {
	_, err := NewMachine[st, ev]("a", []Transition[st, ev]{
		{From: "a", Event: "go", To: "b"},
		{From: "a", Event: "go", To: "c"},
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a --go--> b and c")
}

func TestMachine_ObserverSeesCommittedRecord(t *testing.T) {
	var seen []Record[st, ev]
	m, err := NewMachine("a", []Transition[st, ev]{
		{From: "a", Event: "go", To: "b"},
		{From: "b", Event: "go", To: "c"},
	}, func(_ context.Context, r Record[st, ev]) { seen = append(seen, r) })
	require.NoError(t, err)

	got, err := m.Fire(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, st("b"), got)
	_, err = m.Fire(context.Background(), "go")
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, st("a"), seen[0].From)
	assert.Equal(t, st("c"), seen[1].To)
	assert.Equal(t, seen, m.History())
}

func TestMachine_UnknownEventChangesNothing(t *testing.T) {
	called := false
	m, err := NewMachine("a", []Transition[st, ev]{{From: "a", Event: "go", To: "b"}},
		func(context.Context, Record[st, ev]) { called = true })
	require.NoError(t, err)

	assert.False(t, m.Can("stop"))
	got, err := m.Fire(context.Background(), "stop")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, st("a"), got)
	assert.Empty(t, m.History())
	assert.False(t, called)
}

func TestMachine_HistoryIsACopy(t *testing.T) {
	m, err := NewMachine[st, ev]("a", []Transition[st, ev]{{From: "a", Event: "go", To: "b"}}, nil)
	require.NoError(t, err)
	_, _ = m.Fire(context.Background(), "go")

	h := m.History()
	h[0].To = "z"
	assert.Equal(t, st("b"), m.History()[0].To)
}
