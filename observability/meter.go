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

	"github.com/kbukum/foundation/logger"
)

// Metric names.
const (
	MetricResolveTotal = "foundation.resolve.total"
	MetricFaultTotal   = "foundation.fault.total"
)

// Resolution outcomes.
const (
	OutcomeSelected = "selected"
	OutcomeFallback = "fallback"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
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
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it globally.
// The returned provider should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
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

	readerOpts := []sdkmetric.PeriodicReaderOption{}
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

// RegistryMetrics holds the instruments recorded by the provider registry.
// A nil *RegistryMetrics is valid and records nothing.
type RegistryMetrics struct {
	resolveTotal metric.Int64Counter
	faultTotal   metric.Int64Counter
}

// NewRegistryMetrics creates registry instruments on the given meter.
func NewRegistryMetrics(meter metric.Meter) (*RegistryMetrics, error) {
	resolveTotal, err := meter.Int64Counter(MetricResolveTotal,
		metric.WithDescription("Provider manager resolutions by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricResolveTotal, err)
	}

	faultTotal, err := meter.Int64Counter(MetricFaultTotal,
		metric.WithDescription("Faults swallowed by the provider registry by operation and code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricFaultTotal, err)
	}

	return &RegistryMetrics{
		resolveTotal: resolveTotal,
		faultTotal:   faultTotal,
	}, nil
}

// RecordResolve records the outcome of the one-time manager resolution.
func (m *RegistryMetrics) RecordResolve(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.resolveTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordFault records a swallowed fault.
func (m *RegistryMetrics) RecordFault(ctx context.Context, operation, code string) {
	if m == nil {
		return
	}
	m.faultTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("code", code),
	))
}
