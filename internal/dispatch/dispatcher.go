// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package dispatch turns JSON-RPC request bodies into responses: it validates
// the envelope, routes by method and orchestrates the session store, the game,
// the move oracle and the artifact publisher for tasks/send.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/chess-a2a/internal/a2a"
	"github.com/ManuGH/chess-a2a/internal/game"
	"github.com/ManuGH/chess-a2a/internal/log"
	"github.com/ManuGH/chess-a2a/internal/metrics"
	"github.com/ManuGH/chess-a2a/internal/session"
	"github.com/ManuGH/chess-a2a/internal/telemetry"
)

const instrumentationName = "github.com/ManuGH/chess-a2a/internal/dispatch"

// DefaultRequestTimeout bounds one RPC when Options leave it unset.
const DefaultRequestTimeout = 10 * time.Second

// Publisher renders a position and returns a URL for it.
type Publisher interface {
	Publish(ctx context.Context, fen string) (string, error)
	MimeType() string
}

// Options configure a Dispatcher. Zero values select defaults.
type Options struct {
	RequestTimeout time.Duration
	// TimeBudget is the oracle thinking time given to new sessions.
	TimeBudget time.Duration
	// Publisher is optional; nil disables image artifacts.
	Publisher      Publisher
	Schemas        *a2a.Schemas
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Now            func() time.Time
	NewID          func() string
}

// Dispatcher handles JSON-RPC bodies. It holds no session state across
// requests; the store is the single source of truth.
type Dispatcher struct {
	store     session.Store
	oracle    game.Oracle
	publisher Publisher
	locker    *session.KeyedLocker
	schemas   *a2a.Schemas

	timeout time.Duration
	budget  atomic.Int64

	tracer trace.Tracer
	games  metric.Int64Counter

	now   func() time.Time
	newID func() string
}

// New wires a dispatcher.
func New(store session.Store, oracle game.Oracle, opts Options) (*Dispatcher, error) {
	if store == nil {
		return nil, errors.New("dispatch: session store is required")
	}
	if oracle == nil {
		return nil, errors.New("dispatch: move oracle is required")
	}

	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	mp := opts.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	games, err := mp.Meter(instrumentationName).Int64Counter(
		"chess_a2a.games.finished",
		metric.WithDescription("Games that reached a final result, by outcome and method"),
	)
	if err != nil {
		return nil, fmt.Errorf("dispatch: create games counter: %w", err)
	}

	d := &Dispatcher{
		store:     store,
		oracle:    oracle,
		publisher: opts.Publisher,
		locker:    session.NewKeyedLocker(),
		schemas:   opts.Schemas,
		timeout:   opts.RequestTimeout,
		tracer:    tp.Tracer(instrumentationName),
		games:     games,
		now:       opts.Now,
		newID:     opts.NewID,
	}
	if d.schemas == nil {
		d.schemas = a2a.DefaultSchemas()
	}
	if d.timeout <= 0 {
		d.timeout = DefaultRequestTimeout
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.newID == nil {
		d.newID = uuid.NewString
	}
	d.SetTimeBudget(opts.TimeBudget)
	return d, nil
}

// SetTimeBudget changes the oracle budget for sessions created from now on.
// Existing sessions keep the budget they were created with.
func (d *Dispatcher) SetTimeBudget(b time.Duration) {
	if b <= 0 {
		b = game.DefaultTimeBudget
	}
	d.budget.Store(int64(b))
}

// TimeBudget returns the budget given to new sessions.
func (d *Dispatcher) TimeBudget() time.Duration {
	return time.Duration(d.budget.Load())
}

var knownMethods = map[string]bool{
	a2a.MethodSend:                true,
	a2a.MethodGet:                 true,
	a2a.MethodCancel:              true,
	a2a.MethodSendSubscribe:       true,
	a2a.MethodResubscribe:         true,
	a2a.MethodPushNotificationSet: true,
	a2a.MethodPushNotificationGet: true,
}

// metricMethod keeps label cardinality closed.
func metricMethod(method string) string {
	if knownMethods[method] {
		return method
	}
	return "unknown"
}

// Handle processes one request body and always returns an envelope carrying
// exactly one of result or error. Panics become InternalError.
func (d *Dispatcher) Handle(ctx context.Context, body []byte) (resp *a2a.Response) {
	start := d.now()
	var (
		id     json.RawMessage
		method string
	)

	defer func() {
		if r := recover(); r != nil {
			logger := log.WithComponentFromContext(ctx, "dispatch")
			logger.Error().
				Str(log.FieldMethod, method).
				Interface("panic", r).
				Msg("panic while handling rpc")
			resp = a2a.NewErrorResponse(id, a2a.NewInternalError(map[string]string{"detail": "unexpected failure"}))
		}
		code := 0
		if resp.Error != nil {
			code = resp.Error.Code
		}
		metrics.RecordRPC(metricMethod(method), code, time.Since(start))
	}()

	req, reqID, rpcErr := d.schemas.DecodeRequest(body)
	id = reqID
	if rpcErr != nil {
		d.logRPCError(ctx, "", rpcErr)
		return a2a.NewErrorResponse(id, rpcErr)
	}
	method = req.Method

	ctx, span := d.tracer.Start(ctx, "rpc "+metricMethod(method),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(telemetry.RPCAttributes(metricMethod(method))...),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	result, rpcErr := d.route(ctx, req)
	if rpcErr != nil {
		kind, _ := a2a.Lookup(rpcErr.Code)
		span.SetAttributes(telemetry.ErrorAttributes(rpcErr.Code, kind.Name)...)
		span.SetStatus(codes.Error, rpcErr.Message)
		d.logRPCError(ctx, method, rpcErr)
		return a2a.NewErrorResponse(id, rpcErr)
	}
	return a2a.NewResultResponse(id, result)
}

func (d *Dispatcher) route(ctx context.Context, req *a2a.Request) (any, *a2a.Error) {
	switch req.Method {
	case a2a.MethodSend:
		return d.send(ctx, req.Params)
	case a2a.MethodGet:
		return d.get(ctx, req.Params)
	case a2a.MethodCancel:
		return d.cancel(ctx, req.Params)
	case a2a.MethodPushNotificationSet, a2a.MethodPushNotificationGet:
		return nil, a2a.NewPushNotificationNotSupportedError()
	case a2a.MethodSendSubscribe, a2a.MethodResubscribe:
		return nil, a2a.NewUnsupportedOperationError(req.Method)
	default:
		return nil, a2a.NewMethodNotFoundError(req.Method)
	}
}

func (d *Dispatcher) logRPCError(ctx context.Context, method string, rpcErr *a2a.Error) {
	logger := log.WithComponentFromContext(ctx, "dispatch")
	evt := logger.Warn()
	if rpcErr.Code == a2a.CodeInternalError {
		evt = logger.Error()
	}
	evt.Str(log.FieldMethod, method).
		Int(log.FieldErrorCode, rpcErr.Code).
		Interface("data", rpcErr.Data).
		Msg("rpc failed")
}

func (d *Dispatcher) recordGame(ctx context.Context, r game.Result) {
	d.games.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", string(r.Outcome)),
		attribute.String("method", string(r.Method)),
	))
}
