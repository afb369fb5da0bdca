// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestCorrelationIDs(t *testing.T) {
	//nolint:staticcheck // nil context is tolerated on purpose
	ctx := ContextWithSessionID(nil, "game-1")
	ctx = ContextWithTaskID(ctx, "task-1")

	assert.Equal(t, "game-1", SessionIDFromContext(ctx))
	assert.Equal(t, "task-1", TaskIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(ctx))

	//nolint:staticcheck
	assert.Empty(t, RequestIDFromContext(nil))
	assert.Empty(t, SessionIDFromContext(context.Background()))
}

func TestCorrelationIDs_ChildDoesNotLeakToParent(t *testing.T) {
	parent := ContextWithRequestID(context.Background(), "req-1")
	child := ContextWithSessionID(parent, "game-2")

	assert.Empty(t, SessionIDFromContext(parent))
	assert.Equal(t, "req-1", RequestIDFromContext(child))
	assert.Equal(t, "game-2", SessionIDFromContext(child))
}

func TestWithContext_Fields(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sampled := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	tests := []struct {
		name   string
		ctx    context.Context
		want   map[string]string
		absent []string
	}{
		{
			name:   "request and session",
			ctx:    ContextWithSessionID(ContextWithRequestID(context.Background(), "req-123"), "game-1"),
			want:   map[string]string{FieldRequestID: "req-123", FieldSessionID: "game-1"},
			absent: []string{FieldTaskID, FieldTraceID},
		},
		{
			name:   "span only",
			ctx:    sampled,
			want:   map[string]string{FieldTraceID: "4bf92f3577b34da6a3ce929d0e0e4736", FieldSpanID: "00f067aa0ba902b7"},
			absent: []string{FieldRequestID},
		},
		{
			name:   "nothing to add",
			ctx:    context.Background(),
			absent: []string{FieldRequestID, FieldSessionID, FieldTaskID, FieldTraceID},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := WithContext(tt.ctx, zerolog.New(&buf))
			logger.Info().Msg("move applied")

			entry := decodeLine(t, &buf)
			for k, v := range tt.want {
				assert.Equal(t, v, entry[k], k)
			}
			for _, k := range tt.absent {
				assert.NotContains(t, entry, k)
			}
		})
	}
}

func TestWithComponentFromContext(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf, Level: "info"})
	defer Configure(Config{})

	ctx := ContextWithTaskID(context.Background(), "task-9")
	logger := WithComponentFromContext(ctx, "dispatch")
	logger.Info().Msg("task completed")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "dispatch", entry[FieldComponent])
	assert.Equal(t, "task-9", entry[FieldTaskID])
}
