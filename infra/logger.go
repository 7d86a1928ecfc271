package infra

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/bqtran/filevault/config"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// LoggerClient carries the process-wide slog logger plus the OpenTelemetry
// providers backing it. When no OTLP endpoint is configured it degrades to
// plain text logging on stdout and the providers stay nil.
type LoggerClient struct {
	logger         *slog.Logger
	loggerProvider *sdklog.LoggerProvider
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
}

func InitLoggerClient(cfg *config.EnvConfig) *LoggerClient {
	if cfg.Grafana.OTLPEndpoint == "" {
		log.Println("No OTLP endpoint configured, logging to stdout")
		return NewConsoleLoggerClient()
	}

	ctx := context.Background()

	res, err := sdkresource.New(ctx,
		sdkresource.WithAttributes(
			semconv.ServiceName(cfg.Grafana.ServiceName),
			attribute.String("deployment.environment", cfg.Environment.Mode),
			attribute.String("service.group", cfg.Environment.Group),
		),
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to build telemetry resource: %v", err))
	}

	logExporter, err := otlploghttp.New(ctx,
		otlploghttp.WithEndpoint(cfg.Grafana.OTLPEndpoint),
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize OTLP log exporter: %v", err))
	}
	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)

	metricExporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(cfg.Grafana.OTLPEndpoint),
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize OTLP metric exporter: %v", err))
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMeterProvider(meterProvider)); err != nil {
		log.Printf("Warning: failed to start runtime instrumentation: %v", err)
	}

	traceExporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Grafana.OTLPEndpoint),
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize OTLP trace exporter: %v", err))
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)

	logger := otelslog.NewLogger(cfg.Grafana.ServiceName,
		otelslog.WithLoggerProvider(loggerProvider),
	)

	log.Println("Telemetry initialized, exporting to", cfg.Grafana.OTLPEndpoint)

	return &LoggerClient{
		logger:         logger,
		loggerProvider: loggerProvider,
		meterProvider:  meterProvider,
		tracerProvider: tracerProvider,
	}
}

// NewConsoleLoggerClient returns a logger that writes text to stdout only.
// Used when telemetry is not configured and by tests.
func NewConsoleLoggerClient() *LoggerClient {
	return &LoggerClient{
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}
}

func (l *LoggerClient) InfoWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.logger.InfoContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) WarningWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.logger.WarnContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{}) {
	if err != nil {
		l.logger.ErrorContext(ctx, fmt.Sprintf(format, args...), slog.Any("error", err))
		return
	}
	l.logger.ErrorContext(ctx, fmt.Sprintf(format, args...))
}

// Shutdown flushes buffered telemetry. Safe to call on a console-only client.
func (l *LoggerClient) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var firstErr error
	if l.tracerProvider != nil {
		if err := l.tracerProvider.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if l.meterProvider != nil {
		if err := l.meterProvider.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if l.loggerProvider != nil {
		if err := l.loggerProvider.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
