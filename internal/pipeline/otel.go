package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "claimsight.pipeline"

// Tracer instruments pipeline runs with OpenTelemetry spans: one span
// per run and one child span per analysis stage.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a pipeline tracer backed by the global provider.
func NewTracer() *Tracer {
	return &Tracer{tracer: otel.Tracer(tracerName)}
}

// StartRun opens the root span for a pipeline run.
func (t *Tracer) StartRun(ctx context.Context, runID string, claimCount int) (context.Context, trace.Span) {
	if t == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return t.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.run_id", runID),
			attribute.Int("pipeline.claim_count", claimCount),
		),
	)
}

// StartStage opens a span for one analysis stage.
func (t *Tracer) StartStage(ctx context.Context, runID, stage string) (context.Context, trace.Span) {
	if t == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return t.tracer.Start(ctx, "pipeline.stage."+stage,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.run_id", runID),
			attribute.String("pipeline.stage", stage),
		),
	)
}

// EndStage closes a stage span with its outcome.
func (t *Tracer) EndStage(span trace.Span, duration time.Duration, err error) {
	if t == nil {
		return
	}
	span.SetAttributes(attribute.Float64("pipeline.stage.duration_seconds", duration.Seconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "stage completed")
	}
	span.End()
}
