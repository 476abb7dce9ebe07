package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "asteritime"

// StartTransitionSpan starts a span for a task status transition.
func StartTransitionSpan(ctx context.Context, taskID int64, from, to string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "transition",
		trace.WithAttributes(
			attribute.Int64("task.id", taskID),
			attribute.String("transition.from", from),
			attribute.String("transition.to", to),
		),
	)
}

// StartReconcileSpan starts a span for one reconciliation pass.
func StartReconcileSpan(ctx context.Context, taskCount int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "reconcile",
		trace.WithAttributes(
			attribute.Int("reconcile.task_count", taskCount),
		),
	)
}
