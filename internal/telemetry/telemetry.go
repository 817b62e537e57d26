// Package telemetry configures OpenTelemetry tracing for folco.
//
// Tracing is opt-in: with no endpoint configured, Setup installs nothing and
// spans created through the global provider are no-ops.
package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/logging"
)

// ShutdownFunc flushes pending spans and stops the exporter.
type ShutdownFunc func(context.Context) error

// Config selects where traces go.
type Config struct {
	// ServiceName is reported as service.name.
	ServiceName string

	// ServiceVersion is reported as service.version.
	ServiceVersion string

	// Endpoint is the OTLP/HTTP traces URL. Empty disables tracing.
	Endpoint string

	// Headers are sent with every export request, e.g. for auth.
	Headers map[string]string
}

// Enabled reports whether cfg would install an exporter.
func (c Config) Enabled() bool {
	return c.Endpoint != ""
}

// Setup installs a global tracer provider exporting to cfg.Endpoint.
// The returned shutdown function is never nil and should be deferred.
func Setup(ctx context.Context, cfg Config, logger *slog.Logger) (ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }
	if logger == nil {
		logger = slog.Default()
	}

	if !cfg.Enabled() {
		logger.Debug("tracing disabled")
		return noop, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(cfg.Endpoint)}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return noop, errors.Wrap(err, "creating OTLP exporter")
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return noop, errors.Wrap(err, "building trace resource")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	logger.Info("tracing enabled",
		"endpoint", logging.MaskURL(cfg.Endpoint),
		"headers", logging.MaskHeaders(cfg.Headers),
	)
	return tp.Shutdown, nil
}
