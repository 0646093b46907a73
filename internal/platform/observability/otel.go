package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PreethamDesoden/chaos-resilient-platform/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	LogsPath      = "/otlp/v1/logs"
	TracesPath    = "/otlp/v1/traces"
	ExportTimeout = 30 * time.Second
	MaxQueueSize  = 2048
)

// SetupLoggingSDK initializes OpenTelemetry logging for the named service.
func SetupLoggingSDK(ctx context.Context, serviceName string, obs config.Observability) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error
	var currentErr error

	shutdown = func(context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}

	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	logExporter, errExporter := otlploghttp.New(ctx,
		otlploghttp.WithEndpoint(obs.OtelEndpoint),
		otlploghttp.WithURLPath(LogsPath),
		otlploghttp.WithHeaders(authHeaders(obs)),
	)
	if errExporter != nil {
		currentErr = errors.Join(currentErr, fmt.Errorf("OTLP log exporter: %w", errExporter))
	}

	if errExporter == nil {
		logProcessor := sdklog.NewBatchProcessor(logExporter,
			sdklog.WithExportTimeout(ExportTimeout),
			sdklog.WithMaxQueueSize(MaxQueueSize),
		)

		loggerProvider := sdklog.NewLoggerProvider(
			sdklog.WithProcessor(logProcessor),
			sdklog.WithResource(res),
		)

		global.SetLoggerProvider(loggerProvider)
		shutdownFuncs = append(shutdownFuncs, loggerProvider.Shutdown)
	}

	return shutdown, currentErr
}

// SetupTracingSDK initializes OpenTelemetry tracing for the named service.
// W3C trace context and baggage propagate on every outbound HTTP call, so
// the reserve and notify spans line up under one trace across services.
func SetupTracingSDK(ctx context.Context, serviceName string, obs config.Observability) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error
	var currentErr error

	shutdown = func(context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}

	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	traceExporter, errExporter := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(obs.OtelEndpoint),
		otlptracehttp.WithURLPath(TracesPath),
		otlptracehttp.WithHeaders(authHeaders(obs)),
	)
	if errExporter != nil {
		currentErr = errors.Join(currentErr, fmt.Errorf("OTLP trace exporter: %w", errExporter))
	}

	if errExporter == nil {
		traceProcessor := sdktrace.NewBatchSpanProcessor(traceExporter,
			sdktrace.WithExportTimeout(ExportTimeout),
			sdktrace.WithMaxQueueSize(MaxQueueSize),
		)

		tracerProvider := sdktrace.NewTracerProvider(
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
			sdktrace.WithResource(res),
			sdktrace.WithSpanProcessor(traceProcessor),
		)

		otel.SetTracerProvider(tracerProvider)
		shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
	}

	return shutdown, currentErr
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(config.ServiceVersion),
		),
	)
}

func authHeaders(obs config.Observability) map[string]string {
	if obs.OtelAuthHeader == "" {
		return nil
	}
	return map[string]string{"Authorization": obs.OtelAuthHeader}
}
