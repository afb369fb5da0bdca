// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{ServiceName: "chess-a2a", ExporterType: ExporterGRPC})
	require.NoError(t, err)
	assert.Nil(t, p.sdk)

	_, span := p.TracerProvider().Tracer("test").Start(context.Background(), "move")
	assert.False(t, span.IsRecording())
	span.End()

	_, span = otel.Tracer("test").Start(context.Background(), "move")
	assert.False(t, span.IsRecording(), "global provider is the noop one")
	span.End()
}

func TestNewProvider_InvalidExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Enabled: true, ServiceName: "chess-a2a", ExporterType: "kafka"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported exporter type: kafka")
}

func TestNewProvider_EnabledRecordsAndShutsDown(t *testing.T) {
	t.Cleanup(func() { _, _ = NewProvider(context.Background(), Config{}) })

	// The exporters connect lazily, so an unreachable endpoint is fine here.
	p, err := NewProvider(context.Background(), Config{
		Enabled:      true,
		ServiceName:  "chess-a2a",
		ExporterType: ExporterHTTP,
		Endpoint:     "127.0.0.1:1",
		SamplingRate: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, p.sdk)

	_, span := p.TracerProvider().Tracer("test").Start(context.Background(), "move")
	assert.True(t, span.IsRecording())
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = p.Shutdown(ctx) // export to a closed port may fail; it must return
}

func TestSamplerFor(t *testing.T) {
	for rate, want := range map[float64]string{
		1:   "AlwaysOnSampler",
		2:   "AlwaysOnSampler",
		0:   "AlwaysOffSampler",
		-1:  "AlwaysOffSampler",
		0.5: "TraceIDRatioBased",
	} {
		assert.Contains(t, samplerFor(rate).Description(), want, rate)
	}
}

func TestProvider_ShutdownNoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, (&Provider{}).Shutdown(ctx))
}
