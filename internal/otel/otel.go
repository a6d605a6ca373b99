package otel

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// InitializeTracer installs a global tracer provider exporting over OTLP/gRPC.
// It returns a nil provider when no collector endpoint is configured.
func InitializeTracer(ctx context.Context, serviceName string) (*sdktrace.TracerProvider, error) {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		// Silently disable tracing
		return nil, nil
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(attribute.String("service.name", serviceName)),
	)
	if err != nil {
		return nil, err
	}

	exporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp, nil
}

func Shutdown(ctx context.Context, tp *sdktrace.TracerProvider) {
	if tp == nil {
		return
	}
	tp.Shutdown(ctx)
}

// TraceContextFromContext serializes the span in ctx as a W3C traceparent value.
func TraceContextFromContext(ctx context.Context) string {
	var tc propagation.TraceContext
	carrier := make(propagation.MapCarrier)
	tc.Inject(ctx, carrier)
	return carrier.Get("traceparent")
}

func ContextFromTraceContext(ctx context.Context, traceContext string) context.Context {
	if traceContext == "" {
		return ctx
	}
	var tc propagation.TraceContext
	carrier := make(propagation.MapCarrier)
	carrier.Set("traceparent", traceContext)
	return tc.Extract(ctx, carrier)
}
