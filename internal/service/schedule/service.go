package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/daymark-app/milestone-scheduling/internal/domain"
	"github.com/daymark-app/milestone-scheduling/internal/infra/notifier"
	"github.com/daymark-app/milestone-scheduling/internal/observability/metrics"
	"github.com/daymark-app/milestone-scheduling/internal/observability/tracing"
	"github.com/daymark-app/milestone-scheduling/internal/service/dedupe"
	"github.com/daymark-app/milestone-scheduling/internal/service/milestone"
)

const DefaultBudget = 60

// Service runs the scheduling pass for one event at a time: ask the backend
// for permission, clear the event's previous bookings, then book the nearest
// milestones up to the budget. The backend's pending list stays authoritative
// for cancellation; the booking repository is bookkeeping only.
type Service struct {
	notifier     notifier.Notifier
	generator    *milestone.Generator
	deduplicator *dedupe.Deduplicator
	bookingRepo  domain.BookingRepository
	passRecorder domain.SchedulePassRecorder
	metrics      *metrics.ScheduleMetrics
	budget       int
}

func NewService(
	n notifier.Notifier,
	generator *milestone.Generator,
	deduplicator *dedupe.Deduplicator,
	bookingRepo domain.BookingRepository,
	passRecorder domain.SchedulePassRecorder,
	scheduleMetrics *metrics.ScheduleMetrics,
	budget int,
) *Service {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Service{
		notifier:     n,
		generator:    generator,
		deduplicator: deduplicator,
		bookingRepo:  bookingRepo,
		passRecorder: passRecorder,
		metrics:      scheduleMetrics,
		budget:       budget,
	}
}

// ScheduleForEvent replaces whatever is booked for the event with a fresh
// pass over its milestones. Permission is queried anew on every call; a
// denial still clears stale bookings but books nothing. The only failure that
// aborts the pass is being unable to list pending bookings, because blind
// booking on top of unknown state would duplicate notifications.
func (s *Service) ScheduleForEvent(ctx context.Context, event *domain.Event) (*Result, error) {
	startedAt := time.Now().UTC()

	ctx, span := tracing.StartSchedulePassSpan(ctx, event.ID, event.AnchorDate)
	defer span.End()

	result := &Result{
		PassID:  uuid.NewString(),
		EventID: event.ID,
	}

	granted, err := s.notifier.RequestPermission(ctx)
	if err != nil {
		slog.WarnContext(ctx, "permission probe failed, treating as denied",
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)
		granted = false
	}
	result.PermissionGranted = granted

	cancelled, cancelFailures, err := s.cancelPending(ctx, event.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list pending bookings, aborting scheduling pass",
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)
		s.recordPass(ctx, result, startedAt, true)
		s.recordPassMetrics(ctx, "aborted", startedAt)
		tracing.RecordSchedulePassResult(span, 0, 0, 0, 0, err)
		return result, fmt.Errorf("failed to list pending bookings: %w", err)
	}
	result.CancelledCount = cancelled
	result.CancelFailures = cancelFailures

	if !granted {
		slog.InfoContext(ctx, "notification permission denied, nothing booked",
			slog.String("event_id", event.ID),
			slog.Int("cancelled_count", cancelled),
		)
		s.clearBookingIndex(ctx, event.ID)
		s.recordPass(ctx, result, startedAt, false)
		s.recordPassMetrics(ctx, "permission_denied", startedAt)
		tracing.RecordSchedulePassResult(span, 0, 0, 0, 0, nil)
		return result, nil
	}

	now := time.Now().UTC()
	candidates := s.generator.Generate(event.AnchorDate, event.Title, event.IsTimeCapsule, now)
	result.GeneratedCount = len(candidates)
	if s.metrics != nil {
		s.metrics.RecordCandidatesGenerated(ctx, len(candidates))
	}

	deduplicated := s.deduplicator.Deduplicate(candidates)
	result.DeduplicatedCount = len(candidates) - len(deduplicated)

	// Deduplicate returns candidates sorted by trigger time, so the first
	// budget entries are exactly the soonest milestones.
	truncated := deduplicated
	if len(truncated) > s.budget {
		result.TruncatedCount = len(truncated) - s.budget
		truncated = truncated[:s.budget]
	}

	slog.DebugContext(ctx, "milestone candidates prepared",
		slog.String("event_id", event.ID),
		slog.Int("generated", result.GeneratedCount),
		slog.Int("deduplicated", result.DeduplicatedCount),
		slog.Int("truncated", result.TruncatedCount),
		slog.Int("to_book", len(truncated)),
	)

	bookings := make([]domain.BookingRecord, 0, len(truncated))
	for _, candidate := range truncated {
		record, err := s.book(ctx, event.ID, candidate, now)
		if err != nil {
			result.BookFailures++
			if s.metrics != nil {
				s.metrics.RecordBooking(ctx, "failed")
			}
			continue
		}
		if record == nil {
			continue
		}
		bookings = append(bookings, *record)
		result.BookedCount++
		if s.metrics != nil {
			s.metrics.RecordBooking(ctx, "success")
			s.metrics.RecordKindBooked(ctx, candidate.Kind.String())
		}
	}
	result.Bookings = bookings

	if err := s.bookingRepo.ReplaceBookings(ctx, event.ID, bookings); err != nil {
		slog.WarnContext(ctx, "failed to record bookings",
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)
	}

	slog.InfoContext(ctx, "scheduling pass completed",
		slog.String("event_id", event.ID),
		slog.String("pass_id", result.PassID),
		slog.Int("cancelled_count", result.CancelledCount),
		slog.Int("booked_count", result.BookedCount),
		slog.Int("book_failures", result.BookFailures),
	)

	s.recordPass(ctx, result, startedAt, false)
	s.recordPassMetrics(ctx, "success", startedAt)
	tracing.RecordSchedulePassResult(span,
		result.GeneratedCount, result.DeduplicatedCount, result.TruncatedCount, result.BookedCount, nil)

	return result, nil
}

// CancelForEvent removes every pending booking tagged with the event and
// clears the booking index. Used when an event is deleted.
func (s *Service) CancelForEvent(ctx context.Context, eventID string) (*CancelResult, error) {
	ctx, span := tracing.StartCancelAllSpan(ctx, eventID)
	defer span.End()

	cancelled, failures, err := s.cancelPending(ctx, eventID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list pending bookings for cancellation",
			slog.String("event_id", eventID),
			slog.String("error", err.Error()),
		)
		tracing.RecordCancelAllResult(span, 0, 0, err)
		return nil, fmt.Errorf("failed to list pending bookings: %w", err)
	}

	s.clearBookingIndex(ctx, eventID)

	slog.InfoContext(ctx, "cancelled bookings for event",
		slog.String("event_id", eventID),
		slog.Int("cancelled_count", cancelled),
		slog.Int("cancel_failures", failures),
	)

	tracing.RecordCancelAllResult(span, cancelled, failures, nil)

	return &CancelResult{
		EventID:        eventID,
		CancelledCount: cancelled,
		CancelFailures: failures,
	}, nil
}

// Preview returns the next milestones for the event without touching the
// backend: pure generation and dedup, truncated to limit.
func (s *Service) Preview(event *domain.Event, limit int) []domain.MilestoneCandidate {
	now := time.Now().UTC()
	candidates := s.deduplicator.Deduplicate(
		s.generator.Generate(event.AnchorDate, event.Title, event.IsTimeCapsule, now))
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func (s *Service) cancelPending(ctx context.Context, eventID string) (cancelled, failures int, err error) {
	pending, err := s.notifier.ListPending(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, p := range pending {
		if p.EventID != eventID {
			continue
		}
		if err := s.notifier.Cancel(ctx, p.ID); err != nil {
			slog.WarnContext(ctx, "failed to cancel booking",
				slog.String("event_id", eventID),
				slog.String("notification_id", p.ID),
				slog.String("error", err.Error()),
			)
			failures++
			if s.metrics != nil {
				s.metrics.RecordCancellation(ctx, "failed")
			}
			continue
		}
		cancelled++
		if s.metrics != nil {
			s.metrics.RecordCancellation(ctx, "success")
		}
	}

	return cancelled, failures, nil
}

func (s *Service) book(ctx context.Context, eventID string, candidate domain.MilestoneCandidate, now time.Time) (*domain.BookingRecord, error) {
	// Generation already filtered to the strict future, but the pass takes
	// real time; a milestone that slipped into the past meanwhile is dropped
	// rather than booked for immediate firing.
	if !candidate.TriggerTime.After(now) {
		slog.DebugContext(ctx, "skipping candidate that is no longer in the future",
			slog.String("event_id", eventID),
			slog.String("candidate_id", candidate.ID),
			slog.Time("trigger_time", candidate.TriggerTime),
		)
		return nil, nil
	}

	ctx, span := tracing.StartBookingSpan(ctx, eventID, candidate.ID)
	defer span.End()

	resp, err := s.notifier.Schedule(ctx, &notifier.ScheduleRequest{
		EventID:     eventID,
		CandidateID: candidate.ID,
		Kind:        candidate.Kind.String(),
		Title:       candidate.Title,
		Body:        candidate.Body,
		TriggerTime: candidate.TriggerTime,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to book milestone",
			slog.String("event_id", eventID),
			slog.String("candidate_id", candidate.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	record := domain.NewBookingRecord(resp.ID, eventID, candidate.ID, candidate.Kind, candidate.TriggerTime)
	return &record, nil
}

func (s *Service) clearBookingIndex(ctx context.Context, eventID string) {
	if err := s.bookingRepo.DeleteBookings(ctx, eventID); err != nil {
		slog.WarnContext(ctx, "failed to clear booking index",
			slog.String("event_id", eventID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) recordPass(ctx context.Context, result *Result, startedAt time.Time, aborted bool) {
	if s.passRecorder == nil {
		return
	}

	record := domain.SchedulePassRecord{
		PassID:            result.PassID,
		EventID:           result.EventID,
		StartedAt:         startedAt,
		GeneratedCount:    result.GeneratedCount,
		DeduplicatedCount: result.DeduplicatedCount,
		TruncatedCount:    result.TruncatedCount,
		BookedCount:       result.BookedCount,
		CancelledCount:    result.CancelledCount,
		CancelFailures:    result.CancelFailures,
		BookFailures:      result.BookFailures,
		PermissionGranted: result.PermissionGranted,
		Aborted:           aborted,
	}

	if err := s.passRecorder.RecordPass(ctx, record); err != nil {
		slog.WarnContext(ctx, "failed to record scheduling pass",
			slog.String("pass_id", result.PassID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) recordPassMetrics(ctx context.Context, outcome string, startedAt time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordPass(ctx, outcome)
	s.metrics.RecordPassDuration(ctx, time.Since(startedAt))
}
