// Package observability provides OpenTelemetry tracing and metrics for the
// foundation registry.
//
// Exporters are opt-in. Without InitTracer/InitMeter the global otel
// providers are no-ops and instrumentation costs nothing.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
// Registry metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewRegistryMetrics(observability.Meter(observability.InstrumentationName))
//	reg := foundation.New(discovery.Default(), foundation.WithMetrics(metrics))
package observability
