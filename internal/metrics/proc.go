// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	engineSignals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chess_a2a_engine_signals_total",
		Help: "Signals sent to engine process groups during shutdown",
	}, []string{"signal", "result"}) // result=sent|gone|error

	engineExits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chess_a2a_engine_stop_exits_total",
		Help: "Engine exits observed after a stop signal",
	}, []string{"outcome"}) // outcome=clean|error|killed

	engineProcesses = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chess_a2a_engine_processes",
		Help: "Number of running engine subprocesses",
	})
)

// RecordEngineSignal counts a stop signal sent to an engine group.
func RecordEngineSignal(signal, result string) {
	engineSignals.WithLabelValues(signal, result).Inc()
}

// RecordEngineExit counts how a stopped engine went away.
func RecordEngineExit(outcome string) {
	engineExits.WithLabelValues(outcome).Inc()
}

// AddEngineProcesses adjusts the running engine gauge by delta.
func AddEngineProcesses(delta int) {
	engineProcesses.Add(float64(delta))
}
