// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	taskTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chess_a2a_task_transitions_total",
		Help: "Committed task state transitions",
	}, []string{"from", "to"})

	taskTransitionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chess_a2a_task_transition_rejected_total",
		Help: "Task events rejected by the state machine",
	}, []string{"state", "event"})
)

// RecordTaskTransition counts a committed transition.
func RecordTaskTransition(from, to string) {
	taskTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordTaskTransitionRejected counts an event fired from a state that does not accept it.
func RecordTaskTransitionRejected(state, event string) {
	taskTransitionRejected.WithLabelValues(state, event).Inc()
}
