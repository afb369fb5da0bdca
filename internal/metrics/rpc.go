// SPDX-License-Identifier: MIT
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chess_a2a_rpc_requests_total",
		Help: "JSON-RPC requests by method and result code (0 for success)",
	}, []string{"method", "code"})

	rpcDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chess_a2a_rpc_duration_seconds",
		Help:    "JSON-RPC request duration in seconds",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"method"})

	movesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chess_a2a_moves_total",
		Help: "Moves processed by side and result",
	}, []string{"side", "result"}) // side=user|agent result=accepted|illegal|error

	artifactPublishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chess_a2a_artifact_publish_total",
		Help: "Board artifact publish attempts by format and outcome",
	}, []string{"format", "outcome"}) // outcome=success|failure
)

// RecordRPC records one finished JSON-RPC call. code is 0 on success.
func RecordRPC(method string, code int, d time.Duration) {
	if method == "" {
		method = "unknown"
	}
	rpcRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	rpcDuration.WithLabelValues(method).Observe(d.Seconds())
}

// RecordMove counts a processed move.
func RecordMove(side, result string) {
	movesTotal.WithLabelValues(side, result).Inc()
}

// RecordArtifactPublish counts a publish attempt.
func RecordArtifactPublish(format string, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	artifactPublishTotal.WithLabelValues(format, outcome).Inc()
}
