package common

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

var (
	// Log is the app global logger, it discards everything until InitLogger is called.
	Log = slog.New(slog.DiscardHandler)
)

// InitLogger initializes the app global logger.
// Records go to stdout, and are also exported over OTLP when exporterEndpoint is not empty.
func InitLogger(serviceName, serviceVersion, serviceEnvironment, exporterEndpoint string, level slog.Level) (func(ctx context.Context) error, error) {

	stdoutHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	if exporterEndpoint == "" {
		Log = slog.New(stdoutHandler)
		return func(context.Context) error { return nil }, nil
	}

	logExporter, err := otlploggrpc.New(context.Background(),
		otlploggrpc.WithEndpoint(exporterEndpoint),
		otlploggrpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("failed to otlploggrpc.New: %w", err)
	}

	lp := log.NewLoggerProvider(
		log.WithProcessor(
			log.NewBatchProcessor(logExporter),
		),
		log.WithResource(resource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
			semconv.DeploymentEnvironmentNameKey.String(serviceEnvironment))),
	)

	var slogHandler slog.Handler = slogmulti.
		Pipe(minLevel(level)).
		Handler(otelslog.NewHandler("github.com/ogero/tmdb-contract",
			otelslog.WithLoggerProvider(lp)))

	// Local runs keep the console output next to the export.
	if serviceEnvironment == "lcl" || serviceEnvironment == "dk" {
		slogHandler = slogmulti.Fanout(
			slogHandler,
			stdoutHandler,
		)
	}

	Log = slog.New(slogHandler)

	return lp.Shutdown, nil
}

// minLevel drops records below level, otelslog exports every level it is handed.
func minLevel(level slog.Leveler) slogmulti.Middleware {
	return slogmulti.NewEnabledInlineMiddleware(func(ctx context.Context, l slog.Level, next func(context.Context, slog.Level) bool) bool {
		return l >= level.Level() && next(ctx, l)
	})
}
