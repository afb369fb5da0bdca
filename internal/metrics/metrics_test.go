// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromhttpExposure(t *testing.T) {
	RecordRPC("tasks/send", 0, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "chess_a2a_rpc_requests_total"))
}

func TestRecordRPC_UnknownMethodLabel(t *testing.T) {
	before := testutil.ToFloat64(rpcRequestsTotal.WithLabelValues("unknown", "-32600"))
	RecordRPC("", -32600, time.Millisecond)
	after := testutil.ToFloat64(rpcRequestsTotal.WithLabelValues("unknown", "-32600"))
	assert.Equal(t, before+1, after)
}

func TestSetBreakerState(t *testing.T) {
	SetBreakerState("oracle", "open")
	assert.Equal(t, 2.0, testutil.ToFloat64(breakerState.WithLabelValues("oracle")))

	SetBreakerState("oracle", "half-open")
	assert.Equal(t, 1.0, testutil.ToFloat64(breakerState.WithLabelValues("oracle")))

	SetBreakerState("oracle", "closed")
	SetBreakerState("oracle", "melted")
	assert.Equal(t, 0.0, testutil.ToFloat64(breakerState.WithLabelValues("oracle")))
}

func TestRecordBreakerTrip(t *testing.T) {
	before := testutil.ToFloat64(breakerTrips.WithLabelValues("oracle", "probe_failed"))
	RecordBreakerTrip("oracle", "probe_failed")
	assert.Equal(t, before+1, testutil.ToFloat64(breakerTrips.WithLabelValues("oracle", "probe_failed")))
}

func TestRecordTaskTransition(t *testing.T) {
	before := testutil.ToFloat64(taskTransitionsTotal.WithLabelValues("submitted", "working"))
	RecordTaskTransition("submitted", "working")
	assert.Equal(t, before+1, testutil.ToFloat64(taskTransitionsTotal.WithLabelValues("submitted", "working")))
}
