package telemetry

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	exporterDialTimeout  = time.Second * 3
	metricExportInterval = time.Second * 5
)

// ExporterConfig points both signals at one OTLP collector. Splitting
// traces and metrics across collectors has never come up, so the config
// doesn't allow it.
type ExporterConfig struct {
	// Endpoint is the collector URL, e.g. "http://localhost:4318".
	Endpoint string `json:"endpoint"`
	// Protocol is "http" or "grpc". Empty means http, which is what
	// the local collector setups expose.
	Protocol string            `json:"protocol"`
	Headers  map[string]string `json:"headers"`
}

type Config struct {
	Otlp ExporterConfig `json:"otlp"`
}

func (c ExporterConfig) usesGrpc() bool {
	return strings.EqualFold(c.Protocol, "grpc")
}

func (c ExporterConfig) logInit(signal string) {
	protocol := "http"
	if c.usesGrpc() {
		protocol = "grpc"
	}
	slog.Info(
		"otlp exporter initialized",
		"signal", signal,
		"protocol", protocol,
		"endpoint", c.Endpoint,
		"headers", len(c.Headers) > 0,
	)
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newTraceProvider(ctx context.Context, r *resource.Resource, config Config) (*trace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterDialTimeout)
	defer cancel()

	var exporter trace.SpanExporter
	var err error
	if config.Otlp.usesGrpc() {
		exporter, err = otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(config.Otlp.Endpoint),
			otlptracegrpc.WithHeaders(config.Otlp.Headers),
		)
	} else {
		exporter, err = otlptracehttp.New(
			ctx,
			otlptracehttp.WithEndpointURL(config.Otlp.Endpoint),
			otlptracehttp.WithHeaders(config.Otlp.Headers),
		)
	}
	if err != nil {
		return nil, err
	}
	config.Otlp.logInit("traces")

	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
	), nil
}

func newMetricProvider(ctx context.Context, r *resource.Resource, config Config) (*metric.MeterProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterDialTimeout)
	defer cancel()

	var exporter metric.Exporter
	var err error
	if config.Otlp.usesGrpc() {
		exporter, err = otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(config.Otlp.Endpoint),
			otlpmetricgrpc.WithHeaders(config.Otlp.Headers),
		)
	} else {
		exporter, err = otlpmetrichttp.New(
			ctx,
			otlpmetrichttp.WithEndpointURL(config.Otlp.Endpoint),
			otlpmetrichttp.WithHeaders(config.Otlp.Headers),
		)
	}
	if err != nil {
		return nil, err
	}
	config.Otlp.logInit("metrics")

	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(metricExportInterval))),
		metric.WithResource(r),
	), nil
}
