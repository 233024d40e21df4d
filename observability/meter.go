package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/modkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment.
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "0.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it globally.
// The returned provider should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Resolution outcomes recorded by ContainerMetrics.
const (
	OutcomeCached      = "cached"
	OutcomeConstructed = "constructed"
	OutcomeAlias       = "alias"
	OutcomeAbsent      = "absent"
	OutcomeError       = "error"
)

// ContainerMetrics holds the instruments recorded by the injector and the
// lifecycle manager. A nil *ContainerMetrics records nothing.
type ContainerMetrics struct {
	resolutionTotal    metric.Int64Counter
	resolutionDuration metric.Float64Histogram
	hookTotal          metric.Int64Counter
	hookDuration       metric.Float64Histogram
	errorTotal         metric.Int64Counter
}

// NewContainerMetrics creates the container instruments on the given meter.
func NewContainerMetrics(meter metric.Meter) (*ContainerMetrics, error) {
	resolutionTotal, err := meter.Int64Counter("di.resolution.total",
		metric.WithDescription("Total number of provider resolutions by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating di.resolution.total counter: %w", err)
	}

	resolutionDuration, err := meter.Float64Histogram("di.resolution.duration",
		metric.WithDescription("Duration of provider resolutions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating di.resolution.duration histogram: %w", err)
	}

	hookTotal, err := meter.Int64Counter("lifecycle.hook.total",
		metric.WithDescription("Total number of lifecycle hook invocations by phase and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating lifecycle.hook.total counter: %w", err)
	}

	hookDuration, err := meter.Float64Histogram("lifecycle.hook.duration",
		metric.WithDescription("Duration of lifecycle hooks in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating lifecycle.hook.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("container.error.total",
		metric.WithDescription("Total container errors by code and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating container.error.total counter: %w", err)
	}

	return &ContainerMetrics{
		resolutionTotal:    resolutionTotal,
		resolutionDuration: resolutionDuration,
		hookTotal:          hookTotal,
		hookDuration:       hookDuration,
		errorTotal:         errorTotal,
	}, nil
}

// RecordResolution records a single resolution of a token.
func (m *ContainerMetrics) RecordResolution(ctx context.Context, token, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.resolutionTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("token", token),
		attribute.String("outcome", outcome),
	))
	m.resolutionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordHook records a lifecycle hook invocation.
func (m *ContainerMetrics) RecordHook(ctx context.Context, phase, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.hookTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("phase", phase),
		attribute.String("status", status),
	))
	m.hookDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("phase", phase),
	))
}

// RecordError records a container error by code and component.
func (m *ContainerMetrics) RecordError(ctx context.Context, code, component string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}
