// Package tracing configures OpenTelemetry for the platform's three
// services. Export is a stdout span exporter through the global tracer
// provider — the deployment story here is a single host, not a
// collector pipeline.
package tracing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// Config names the service and environment stamped on every span.
type Config struct {
	ServiceName string
	Environment string
}

var tracer trace.Tracer

// InitTracer installs the global tracer provider and returns its
// shutdown function. Set OTEL_TRACES_EXPORTER=none to disable span
// export entirely; spans are still created and propagated, nothing is
// written.
func InitTracer(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	if cfg.ServiceName == "" {
		return nil, errors.New("tracing: ServiceName is required")
	}

	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.DeploymentEnvironmentKey.String(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tracing: build resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.Environment)),
	}
	if os.Getenv("OTEL_TRACES_EXPORTER") != "none" {
		exporter, err := stdouttrace.New()
		if err != nil {
			return nil, fmt.Errorf("tracing: init stdout exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	tracer = tp.Tracer(cfg.ServiceName)

	return tp.Shutdown, nil
}

// StartSpan opens a span on the platform tracer. Before InitTracer has
// run it falls back to the global (no-op) tracer, so code under test
// can call through it freely.
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if tracer == nil {
		return otel.Tracer("lobbyforge").Start(ctx, name)
	}
	return tracer.Start(ctx, name)
}

// sampler keeps every span in development; elsewhere it honors
// OTEL_TRACES_SAMPLER_ARG as a parent-based trace-id ratio, defaulting
// to sampling everything.
func sampler(env string) sdktrace.Sampler {
	if env == "development" {
		return sdktrace.AlwaysSample()
	}
	ratio := 1.0
	if v := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil && r >= 0 && r <= 1 {
			ratio = r
		}
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}
