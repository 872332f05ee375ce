// Package observability wires OpenTelemetry tracing and metrics for stream
// pipelines.
//
// Setup:
//
//	shutdown, err := observability.Setup(ctx, &cfg.Telemetry)
//	defer shutdown(ctx)
//
// Metrics:
//
//	metrics, err := observability.NewMetrics(observability.Meter("etl"))
//	p = p.WithOptions(interpreter.WithMetrics(metrics))
//
// Each terminal pipeline run opens a "pipeline.run" span through StartRun and
// records stream.run.duration when it ends.
package observability
