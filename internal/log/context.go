// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// correlation holds the ids a request picks up on its way from the HTTP
// edge to the game session. It is copied on every change so a context
// never observes a later sibling's ids.
type correlation struct {
	requestID string
	sessionID string
	taskID    string
}

type correlationKey struct{}

func correlationFrom(ctx context.Context) correlation {
	if ctx == nil {
		return correlation{}
	}
	c, _ := ctx.Value(correlationKey{}).(correlation)
	return c
}

func withCorrelation(ctx context.Context, update func(*correlation)) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	c := correlationFrom(ctx)
	update(&c)
	return context.WithValue(ctx, correlationKey{}, c)
}

// ContextWithRequestID records the HTTP request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return withCorrelation(ctx, func(c *correlation) { c.requestID = id })
}

// ContextWithSessionID records the game session (A2A context id).
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return withCorrelation(ctx, func(c *correlation) { c.sessionID = id })
}

// ContextWithTaskID records the task a move request produced.
func ContextWithTaskID(ctx context.Context, id string) context.Context {
	return withCorrelation(ctx, func(c *correlation) { c.taskID = id })
}

func RequestIDFromContext(ctx context.Context) string { return correlationFrom(ctx).requestID }
func SessionIDFromContext(ctx context.Context) string { return correlationFrom(ctx).sessionID }
func TaskIDFromContext(ctx context.Context) string    { return correlationFrom(ctx).taskID }

// WithContext adds the correlation ids and, when a span is recording, the
// trace and span ids carried by ctx. Empty ids are left out.
func WithContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	if ctx == nil {
		return logger
	}
	c := correlationFrom(ctx)
	sc := trace.SpanContextFromContext(ctx)
	if c == (correlation{}) && !sc.IsValid() {
		return logger
	}

	b := logger.With()
	for _, f := range [...]struct{ key, val string }{
		{FieldRequestID, c.requestID},
		{FieldSessionID, c.sessionID},
		{FieldTaskID, c.taskID},
	} {
		if f.val != "" {
			b = b.Str(f.key, f.val)
		}
	}
	if sc.IsValid() {
		b = b.Str(FieldTraceID, sc.TraceID().String()).Str(FieldSpanID, sc.SpanID().String())
	}
	return b.Logger()
}

// WithComponentFromContext is WithContext applied to WithComponent(component).
func WithComponentFromContext(ctx context.Context, component string) zerolog.Logger {
	return WithContext(ctx, WithComponent(component))
}
