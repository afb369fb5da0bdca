// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chess_a2a_session_store_ops_total",
			Help: "Total session store operations",
		},
		[]string{"backend", "op", "result"}, // result=success/miss/error
	)
	storeLat = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chess_a2a_session_store_op_seconds",
			Help:    "Session store operation latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "op"},
	)
)

// instrumentedStore wraps any Store to capture metrics.
type instrumentedStore struct {
	inner   Store
	backend string
}

// NewInstrumentedStore records ops and latency labelled with backend.
func NewInstrumentedStore(inner Store, backend string) Store {
	return &instrumentedStore{inner: inner, backend: backend}
}

func (i *instrumentedStore) observe(op string, start time.Time, err error) {
	i.observeResult(op, start, resultOf(err))
}

func (i *instrumentedStore) observeResult(op string, start time.Time, res string) {
	storeOps.WithLabelValues(i.backend, op, res).Inc()
	storeLat.WithLabelValues(i.backend, op).Observe(time.Since(start).Seconds())
}

func resultOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (i *instrumentedStore) Save(ctx context.Context, id string, rec *Record) (err error) {
	start := time.Now()
	defer func() { i.observe("save", start, err) }()
	return i.inner.Save(ctx, id, rec)
}

func (i *instrumentedStore) Load(ctx context.Context, id string) (*Record, error) {
	start := time.Now()
	rec, err := i.inner.Load(ctx, id)
	res := resultOf(err)
	if err == nil && rec == nil {
		res = "miss"
	}
	i.observeResult("load", start, res)
	return rec, err
}

func (i *instrumentedStore) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { i.observe("delete", start, err) }()
	return i.inner.Delete(ctx, id)
}

func (i *instrumentedStore) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { i.observe("ping", start, err) }()
	return i.inner.Ping(ctx)
}

func (i *instrumentedStore) Close() error { return i.inner.Close() }
