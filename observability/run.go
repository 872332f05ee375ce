package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/fusekit/errors"
)

// Run status values.
const (
	StatusOK        = "ok"
	StatusError     = "error"
	StatusCancelled = "cancelled"
)

// Run tracks one pipeline run: a span plus the run duration metric.
type Run struct {
	Pipeline string
	RunID    string
	Start    time.Time
	Metrics  *Metrics

	span trace.Span
}

// StartRun opens a pipeline.run span. metrics may be nil.
func StartRun(ctx context.Context, pipeline, runID string, metrics *Metrics) (context.Context, *Run) {
	ctx, span := StartSpan(ctx, SpanPipelineRun, trace.WithAttributes(
		attribute.String(AttrPipeline, pipeline),
		attribute.String(AttrRunID, runID),
	))
	return ctx, &Run{
		Pipeline: pipeline,
		RunID:    runID,
		Start:    time.Now(),
		Metrics:  metrics,
		span:     span,
	}
}

// End closes the span and records the run duration. elements is the number
// of elements the run delivered.
func (r *Run) End(ctx context.Context, status string, elements int, err error) {
	duration := time.Since(r.Start)

	if err != nil {
		r.span.RecordError(err)
		r.span.SetStatus(codes.Error, err.Error())
		r.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
		if appErr, ok := errors.AsAppError(err); ok {
			r.span.SetAttributes(attribute.String(AttrErrorCode, string(appErr.Code)))
		}
	}
	r.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int(AttrElements, elements),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	r.span.End()

	if r.Metrics != nil {
		r.Metrics.RecordRun(ctx, r.Pipeline, status, duration)
	}
}

// Duration returns the time elapsed since the run started.
func (r *Run) Duration() time.Duration {
	return time.Since(r.Start)
}
