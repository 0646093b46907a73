package observability

import (
	"context"
	"errors"
	"os"

	"github.com/PreethamDesoden/chaos-resilient-platform/internal/config"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the service logger: a JSON console core, teed with the
// OpenTelemetry bridge when telemetry export is enabled.
func NewLogger(serviceName string, withOtelBridge bool) *zap.Logger {
	consoleEncoderConfig := zap.NewProductionEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(consoleEncoderConfig),
		zapcore.Lock(os.Stdout),
		zap.InfoLevel,
	)

	core := consoleCore
	if withOtelBridge {
		otelZapCore := otelzap.NewCore(serviceName+".manual",
			otelzap.WithLoggerProvider(global.GetLoggerProvider()),
		)
		core = zapcore.NewTee(otelZapCore, consoleCore)
	}

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service.name", serviceName)),
	)
}

// Init wires up logging and tracing for a service. Without an OTLP endpoint
// the services run with a local-only logger and the no-op tracer provider;
// exporter setup errors are logged and do not abort startup.
func Init(ctx context.Context, serviceName string, obs config.Observability) (*zap.Logger, func(context.Context) error, error) {
	if obs.OtelEndpoint == "" {
		logger := NewLogger(serviceName, false)
		return logger, func(context.Context) error { return nil }, nil
	}

	bootstrap := NewLogger(serviceName, false)

	logShutdown, err := SetupLoggingSDK(ctx, serviceName, obs)
	if err != nil {
		bootstrap.Error("Failed to setup OpenTelemetry logging", zap.Error(err))
	}

	traceShutdown, err := SetupTracingSDK(ctx, serviceName, obs)
	if err != nil {
		bootstrap.Error("Failed to setup OpenTelemetry tracing", zap.Error(err))
	}

	logger := NewLogger(serviceName, true)

	shutdown := func(ctx context.Context) error {
		var err error
		if traceShutdown != nil {
			err = errors.Join(err, traceShutdown(ctx))
		}
		if logShutdown != nil {
			err = errors.Join(err, logShutdown(ctx))
		}
		return err
	}

	return logger, shutdown, nil
}
