package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"grantlint/internal/shared/version"
)

// Tracer is the process-wide tracer. Without InitTracing it resolves
// to the global no-op provider, so span calls stay safe everywhere.
var Tracer trace.Tracer = otel.Tracer("grantlint")

// InitTracing wires an OTLP gRPC exporter at endpoint and returns a
// shutdown func. Callers skip this entirely when no endpoint is
// configured.
func InitTracing(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter for %q: %w", endpoint, err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)
	Tracer = provider.Tracer("grantlint/" + version.Version)

	return provider.Shutdown, nil
}
