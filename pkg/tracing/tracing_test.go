package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"relay/internal/config"
)

func TestInit_Disabled(t *testing.T) {
	tp, err := Init(config.TracingConfig{Enabled: false}, "")
	require.NoError(t, err)
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		typ  string
		want string
	}{
		{typ: "always_off", want: "AlwaysOffSampler"},
		{typ: "always_on", want: "AlwaysOnSampler"},
		{typ: "", want: "AlwaysOnSampler"},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			assert.Equal(t, tt.want, createSampler(config.SamplerConfig{Type: tt.typ}).Description())
		})
	}
}

func TestAnnotateSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	ctx, span := tp.Tracer("test").Start(context.Background(), "receive")
	AnnotateSpan(ctx, "1717171717171-abc12", "stored", "")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsString()
	}
	assert.Equal(t, "1717171717171-abc12", attrs["relay.correlation_id"])
	assert.Equal(t, "stored", attrs["relay.outcome"])
	assert.NotContains(t, attrs, "relay.reason")

	// No active span: no panic.
	AnnotateSpan(context.Background(), "x", "y", "z")
}
