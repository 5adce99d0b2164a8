package common

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	metric2 "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// InitInstrumentation setups otel
func InitInstrumentation(serviceName, serviceVersion, serviceEnvironment, exporterEndpoint string) (func(ctx context.Context), error) {

	res, err := resource.Merge(resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
			semconv.DeploymentEnvironmentName(serviceEnvironment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to merge otel resource: %w", err)
	}

	// Metric exporter
	metricExporter, err := otlpmetricgrpc.New(
		context.Background(),
		otlpmetricgrpc.WithInsecure(),
		otlpmetricgrpc.WithEndpoint(exporterEndpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	// A run lasts seconds, Shutdown flushes whatever the reader did not export yet.
	metricPeriodicReader := metric.NewPeriodicReader(metricExporter, metric.WithInterval(10*time.Second))

	metricsProvider := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metricPeriodicReader),
	)

	otel.SetMeterProvider(metricsProvider)

	err = createCustomMeters(serviceName, serviceVersion, serviceEnvironment)
	if err != nil {
		_ = metricsProvider.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create custom meters: %w", err)
	}

	// Trace exporter
	traceExporter, err := otlptracegrpc.New(
		context.Background(),
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(exporterEndpoint),
	)
	if err != nil {
		_ = metricsProvider.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	traceProvider := trace.NewTracerProvider(
		trace.WithBatcher(traceExporter),
		trace.WithResource(res),
	)

	otel.SetTracerProvider(traceProvider)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) {
		_ = traceProvider.Shutdown(ctx)
		_ = metricsProvider.Shutdown(ctx)
	}, nil
}

// TMDBRequestsTotalIncr increases in 1 a metric for tracking TMDB calls by endpoint and status code.
// It is a no-op until InitInstrumentation is called.
var TMDBRequestsTotalIncr = func(ctx context.Context, endpoint string, statusCode int) {}

// ScenarioResultsTotalIncr increases in 1 a metric for tracking scenario outcomes.
// It is a no-op until InitInstrumentation is called.
var ScenarioResultsTotalIncr = func(ctx context.Context, scenario, outcome string) {}

func createCustomMeters(serviceName, serviceVersion, serviceEnvironment string) error {
	meter := otel.Meter(serviceName)

	tmdbRequestsTotal, err := meter.Int64Counter("tmdb_requests_total")
	if err != nil {
		return fmt.Errorf("failed to create custom meter: %w", err)
	}
	TMDBRequestsTotalIncr = func(ctx context.Context, endpoint string, statusCode int) {
		tmdbRequestsTotal.Add(ctx, 1, metric2.WithAttributes(
			attribute.String(string(semconv.DeploymentEnvironmentNameKey), serviceEnvironment),
			attribute.String(string(semconv.ServiceVersionKey), serviceVersion),
			attribute.String("endpoint", endpoint),
			attribute.String("status", strconv.Itoa(statusCode)),
		))
	}

	scenarioResultsTotal, err := meter.Int64Counter("scenario_results_total")
	if err != nil {
		return fmt.Errorf("failed to create custom meter: %w", err)
	}
	ScenarioResultsTotalIncr = func(ctx context.Context, scenario, outcome string) {
		scenarioResultsTotal.Add(ctx, 1, metric2.WithAttributes(
			attribute.String(string(semconv.DeploymentEnvironmentNameKey), serviceEnvironment),
			attribute.String(string(semconv.ServiceVersionKey), serviceVersion),
			attribute.String("scenario", scenario),
			attribute.String("outcome", outcome),
		))
	}

	return nil
}
