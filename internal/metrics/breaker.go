// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "chess_a2a_breaker_state",
		Help: "Circuit breaker state: 0 closed, 1 half-open, 2 open",
	}, []string{"name"})

	breakerTrips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chess_a2a_breaker_trips_total",
		Help: "Transitions into the open state by reason",
	}, []string{"name", "reason"}) // reason=threshold_exceeded|probe_failed
)

var breakerStateValues = map[string]float64{
	"closed":    0,
	"half-open": 1,
	"open":      2,
}

// SetBreakerState publishes a breaker's state. Unknown states are ignored.
func SetBreakerState(name, state string) {
	if v, ok := breakerStateValues[state]; ok {
		breakerState.WithLabelValues(name).Set(v)
	}
}

// RecordBreakerTrip counts one transition to open.
func RecordBreakerTrip(name, reason string) {
	breakerTrips.WithLabelValues(name, reason).Inc()
}
