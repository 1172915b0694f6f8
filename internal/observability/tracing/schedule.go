package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const scheduleTracerName = "github.com/daymark-app/milestone-scheduling/internal/service/schedule"

func ScheduleTracer() trace.Tracer {
	return otel.Tracer(scheduleTracerName)
}

func StartSchedulePassSpan(ctx context.Context, eventID string, anchor time.Time) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule.pass",
		trace.WithAttributes(
			attribute.String("event_id", eventID),
			attribute.String("event.anchor", anchor.Format(time.RFC3339)),
		),
	)
}

func StartCancelAllSpan(ctx context.Context, eventID string) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule.cancel_all",
		trace.WithAttributes(
			attribute.String("event_id", eventID),
		),
	)
}

func StartBookingSpan(ctx context.Context, eventID, candidateID string) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule.book",
		trace.WithAttributes(
			attribute.String("event_id", eventID),
			attribute.String("candidate_id", candidateID),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordSchedulePassResult(span trace.Span, generated, deduplicated, truncated, booked int, err error) {
	span.SetAttributes(
		attribute.Int("pass.generated_count", generated),
		attribute.Int("pass.deduplicated_count", deduplicated),
		attribute.Int("pass.truncated_count", truncated),
		attribute.Int("pass.booked_count", booked),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

func RecordCancelAllResult(span trace.Span, cancelled, failed int, err error) {
	span.SetAttributes(
		attribute.Int("cancel.cancelled_count", cancelled),
		attribute.Int("cancel.failed_count", failed),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
