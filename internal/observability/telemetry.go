package observability

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const (
	ServiceName    = "chat-api"
	ServiceVersion = "1.0.0"

	instrumentationName = "github.com/pagukapadiya/chatgpt-clone-fullstack"
)

// Telemetry bundles the tracer and the chat instruments.
type Telemetry struct {
	Tracer trace.Tracer

	// Messages counts stored messages, labelled by role.
	Messages metric.Int64Counter
	// SessionsCreated counts StartNewChat calls.
	SessionsCreated metric.Int64Counter
	// ResponseDuration is the wall time of ProcessQuestion in milliseconds.
	ResponseDuration metric.Float64Histogram
}

// NewTelemetry creates the chat instruments on the given providers.
func NewTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) (*Telemetry, error) {
	meter := mp.Meter(instrumentationName)

	messages, err := meter.Int64Counter("chat.messages",
		metric.WithDescription("Messages appended to sessions"))
	if err != nil {
		return nil, fmt.Errorf("create messages counter: %w", err)
	}

	sessions, err := meter.Int64Counter("chat.sessions.created",
		metric.WithDescription("Chat sessions started"))
	if err != nil {
		return nil, fmt.Errorf("create sessions counter: %w", err)
	}

	duration, err := meter.Float64Histogram("chat.response.duration_ms",
		metric.WithDescription("Time to answer a question"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	return &Telemetry{
		Tracer:           tp.Tracer(instrumentationName),
		Messages:         messages,
		SessionsCreated:  sessions,
		ResponseDuration: duration,
	}, nil
}

// NoopTelemetry records nothing. Used when telemetry is disabled and in tests.
func NoopTelemetry() *Telemetry {
	t, err := NewTelemetry(tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider())
	if err != nil {
		// noop instruments never fail
		panic(err)
	}
	return t
}

// InitTelemetry installs global tracer and meter providers that export to rotating files in
// dir. The returned cleanup flushes and closes both exporters.
func InitTelemetry(ctx context.Context, dir string) (*Telemetry, func(), error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}

	traceFile := rotatingFile(filepath.Join(dir, "chat_traces.log"))
	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(traceFile))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	metricsFile := rotatingFile(filepath.Join(dir, "chat_metrics.log"))
	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(metricsFile))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(10*time.Second)),
		),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	tel, err := NewTelemetry(tp, mp)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log := Logger()
		if err := tp.Shutdown(ctx); err != nil {
			log.Error("failed to shutdown tracer provider", "error", err)
		}
		if err := mp.Shutdown(ctx); err != nil {
			log.Error("failed to shutdown meter provider", "error", err)
		}
		if err := traceFile.Close(); err != nil {
			log.Error("failed to close trace file", "error", err)
		}
		if err := metricsFile.Close(); err != nil {
			log.Error("failed to close metrics file", "error", err)
		}
	}

	return tel, cleanup, nil
}

func rotatingFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
}
