// Package observability provides OpenTelemetry tracing and request ID
// utilities shared by the SDK client and the mock server.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used by StellarForge.
const TracerName = "github.com/stellarforge/stellarforge-go"

// Span attribute keys.
const (
	AttrStarName       = attribute.Key("stellarforge.star.name")
	AttrStarID         = attribute.Key("stellarforge.star.id")
	AttrStarRA         = attribute.Key("stellarforge.star.ra")
	AttrStarDec        = attribute.Key("stellarforge.star.dec")
	AttrObservedBy     = attribute.Key("stellarforge.star.observed_by")
	AttrHTTPStatusCode = attribute.Key("http.response.status_code")
	AttrErrorKind      = attribute.Key("stellarforge.error.kind")
)

// OTLP exporter protocols.
const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http"
)

// TracingConfig contains configuration for OpenTelemetry tracing.
type TracingConfig struct {
	Enabled     bool
	Protocol    string  // "grpc" (default) or "http"
	Endpoint    string  // OTLP endpoint (e.g., "localhost:4317")
	ServiceName string  // Service name for traces
	SampleRate  float64 // Sampling rate (0.0 to 1.0)
	Insecure    bool    // Use insecure connection (no TLS)
}

// DefaultTracingConfig returns sensible defaults.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		Enabled:     false,
		Protocol:    ProtocolGRPC,
		Endpoint:    "localhost:4317",
		ServiceName: "stellarforge-mock",
		SampleRate:  1.0,
		Insecure:    true,
	}
}

// TracerProvider wraps the OpenTelemetry tracer provider.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// InitTracing initializes OpenTelemetry tracing with an OTLP exporter.
// When disabled it returns the global (no-op by default) tracer.
func InitTracing(ctx context.Context, cfg TracingConfig) (*TracerProvider, error) {
	if !cfg.Enabled {
		return &TracerProvider{
			tracer: otel.Tracer(TracerName),
		}, nil
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(cfg.SampleRate)),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &TracerProvider{
		provider: provider,
		tracer:   provider.Tracer(TracerName),
	}, nil
}

func newExporter(ctx context.Context, cfg TracingConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Protocol {
	case "", ProtocolGRPC:
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptracegrpc.New(ctx, opts...)
	case ProtocolHTTP:
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unknown tracing protocol %q", cfg.Protocol)
	}
}

func samplerFor(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0.0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	}
}

// Tracer returns the tracer instance.
func (tp *TracerProvider) Tracer() trace.Tracer {
	return tp.tracer
}

// Shutdown flushes and stops the tracer provider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider != nil {
		return tp.provider.Shutdown(ctx)
	}
	return nil
}

// RegisterSpanAttributes describes a register call.
type RegisterSpanAttributes struct {
	Name       string
	RA         float64
	Dec        float64
	ObservedBy string
}

// StartRegisterSpan starts a client span for a star registration.
func StartRegisterSpan(ctx context.Context, tracer trace.Tracer, attrs RegisterSpanAttributes) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return tracer.Start(ctx, "stellarforge.register_star",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			AttrStarName.String(attrs.Name),
			AttrStarRA.Float64(attrs.RA),
			AttrStarDec.Float64(attrs.Dec),
			AttrObservedBy.String(attrs.ObservedBy),
		),
	)
}

// RecordStatus records the HTTP status returned by the endpoint.
func RecordStatus(span trace.Span, statusCode int) {
	span.SetAttributes(AttrHTTPStatusCode.Int(statusCode))
}

// RecordStarID records the identifier assigned to a registered star.
func RecordStarID(span trace.Span, id string) {
	span.SetAttributes(AttrStarID.String(id))
}

// RecordError records an error and its kind on a span.
func RecordError(span trace.Span, err error, kind string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if kind != "" {
		span.SetAttributes(AttrErrorKind.String(kind))
	}
}
