package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestInitTracing_Disabled(t *testing.T) {
	tp, err := InitTracing(context.Background(), TracingConfig{Enabled: false})
	require.NoError(t, err)
	defer tp.Shutdown(context.Background())

	assert.NotNil(t, tp.Tracer())
}

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.Equal(t, "stellarforge-mock", cfg.ServiceName)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.5).Description(), "TraceIDRatioBased")
}

func TestStartRegisterSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	_, span := StartRegisterSpan(context.Background(), tp.Tracer("test"), RegisterSpanAttributes{
		Name:       "Vega",
		RA:         18.6,
		Dec:        38.78,
		ObservedBy: "Lick",
	})
	RecordStatus(span, 400)
	RecordError(span, errors.New("ra out of range"), "invalid_input_error")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	got := spans[0]

	assert.Equal(t, "stellarforge.register_star", got.Name())
	assert.Equal(t, trace.SpanKindClient, got.SpanKind())
	assert.Equal(t, codes.Error, got.Status().Code)

	values := make(map[string]any)
	for _, kv := range got.Attributes() {
		values[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, "Vega", values["stellarforge.star.name"])
	assert.Equal(t, 18.6, values["stellarforge.star.ra"])
	assert.Equal(t, int64(400), values["http.response.status_code"])
	assert.Equal(t, "invalid_input_error", values["stellarforge.error.kind"])
	require.Len(t, got.Events(), 1)
}

func TestStartRegisterSpan_NilTracer(t *testing.T) {
	_, span := StartRegisterSpan(context.Background(), nil, RegisterSpanAttributes{Name: "x"})
	RecordStarID(span, "SF-1000-1000")
	span.End()
}

func TestInitTracing_Protocols(t *testing.T) {
	for _, protocol := range []string{ProtocolGRPC, ProtocolHTTP} {
		t.Run(protocol, func(t *testing.T) {
			// Exporters connect lazily, so no collector is needed here.
			tp, err := InitTracing(context.Background(), TracingConfig{
				Enabled:     true,
				Protocol:    protocol,
				Endpoint:    "127.0.0.1:1",
				ServiceName: "test",
				SampleRate:  1,
				Insecure:    true,
			})
			require.NoError(t, err)
			assert.NotNil(t, tp.Tracer())

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			_ = tp.Shutdown(ctx)
		})
	}
}

func TestInitTracing_UnknownProtocol(t *testing.T) {
	_, err := InitTracing(context.Background(), TracingConfig{Enabled: true, Protocol: "zipkin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zipkin")
}
