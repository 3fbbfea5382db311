package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitTracerDisabledIsNoOp(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracerRegistersGlobalProvider(t *testing.T) {
	// Unreachable endpoint: the batch exporter connects lazily, so init
	// still succeeds.
	shutdown, err := InitTracer(context.Background(), Config{
		ServiceName:    "catalog-test",
		ServiceVersion: "0.0.1",
		Environment:    "test",
		OTLPEndpoint:   "127.0.0.1:0",
		SampleRate:     1.0,
		Enabled:        true,
	})
	require.NoError(t, err)
	defer shutdown(context.Background()) //nolint:errcheck

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok, "global provider should be the SDK provider")
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample(), samplerFor(1.0))
	assert.Equal(t, sdktrace.AlwaysSample(), samplerFor(1.5))
	assert.Equal(t, sdktrace.NeverSample(), samplerFor(0))
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.25), samplerFor(0.25))
}

func TestTracerStartsSpans(t *testing.T) {
	tracer := Tracer("catalog-test")
	require.NotNil(t, tracer)

	_, span := tracer.Start(context.Background(), "op")
	span.End()
}
