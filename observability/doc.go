// Package observability wires OpenTelemetry tracing and metrics into the
// container.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("chat-api"))
//	defer tp.Shutdown(ctx)
//
// Every resolution emits a "di.resolve" span and every lifecycle hook a
// "lifecycle.hook" span through StartOperation.
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, &cfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewContainerMetrics(observability.Meter(observability.InstrumentationName))
//
// A nil *ContainerMetrics is valid and records nothing.
//
// Health:
//
//	report := observability.NewReport("chat-api", appID)
//	report.Add(checker.CheckHealth(ctx))
package observability
