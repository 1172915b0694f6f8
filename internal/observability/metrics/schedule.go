package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	scheduleMeterName = "schedule.service"
)

type ScheduleMetrics struct {
	passesTotal         metric.Int64Counter
	candidatesGenerated metric.Int64Counter
	bookingsTotal       metric.Int64Counter
	cancellationsTotal  metric.Int64Counter
	passDuration        metric.Float64Histogram
	kindDistribution    metric.Int64Counter
}

func NewScheduleMetrics() (*ScheduleMetrics, error) {
	meter := otel.Meter(scheduleMeterName)

	passesTotal, err := meter.Int64Counter(
		"schedule_passes_total",
		metric.WithDescription("Total number of scheduling passes"),
		metric.WithUnit("{pass}"),
	)
	if err != nil {
		return nil, err
	}

	candidatesGenerated, err := meter.Int64Counter(
		"schedule_candidates_generated_total",
		metric.WithDescription("Total number of milestone candidates generated"),
		metric.WithUnit("{candidate}"),
	)
	if err != nil {
		return nil, err
	}

	bookingsTotal, err := meter.Int64Counter(
		"schedule_bookings_total",
		metric.WithDescription("Total number of booking attempts against the notification backend"),
		metric.WithUnit("{booking}"),
	)
	if err != nil {
		return nil, err
	}

	cancellationsTotal, err := meter.Int64Counter(
		"schedule_cancellations_total",
		metric.WithDescription("Total number of cancellation attempts against the notification backend"),
		metric.WithUnit("{cancellation}"),
	)
	if err != nil {
		return nil, err
	}

	passDuration, err := meter.Float64Histogram(
		"schedule_pass_duration_seconds",
		metric.WithDescription("Scheduling pass duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
		),
	)
	if err != nil {
		return nil, err
	}

	kindDistribution, err := meter.Int64Counter(
		"schedule_kind_distribution_total",
		metric.WithDescription("Distribution of booked milestones across kinds"),
		metric.WithUnit("{booking}"),
	)
	if err != nil {
		return nil, err
	}

	return &ScheduleMetrics{
		passesTotal:         passesTotal,
		candidatesGenerated: candidatesGenerated,
		bookingsTotal:       bookingsTotal,
		cancellationsTotal:  cancellationsTotal,
		passDuration:        passDuration,
		kindDistribution:    kindDistribution,
	}, nil
}

func (m *ScheduleMetrics) RecordPass(ctx context.Context, outcome string) {
	m.passesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *ScheduleMetrics) RecordCandidatesGenerated(ctx context.Context, count int) {
	m.candidatesGenerated.Add(ctx, int64(count))
}

func (m *ScheduleMetrics) RecordBooking(ctx context.Context, outcome string) {
	m.bookingsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *ScheduleMetrics) RecordCancellation(ctx context.Context, outcome string) {
	m.cancellationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *ScheduleMetrics) RecordPassDuration(ctx context.Context, duration time.Duration) {
	m.passDuration.Record(ctx, duration.Seconds())
}

func (m *ScheduleMetrics) RecordKindBooked(ctx context.Context, kind string) {
	m.kindDistribution.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
	))
}
