package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/daymark-app/milestone-scheduling/internal/domain"
	"github.com/daymark-app/milestone-scheduling/internal/service/schedule"
)

// Service owns the event lifecycle. Persistence comes first on every write;
// the scheduling pass runs afterwards as a best-effort side effect, so a
// flaky notification backend can never fail an event operation.
type Service struct {
	eventRepo domain.EventRepository
	scheduler *schedule.Service
}

func NewService(eventRepo domain.EventRepository, scheduler *schedule.Service) *Service {
	return &Service{
		eventRepo: eventRepo,
		scheduler: scheduler,
	}
}

func (s *Service) Create(ctx context.Context, title string, anchorDate time.Time, isTimeCapsule bool) (*domain.Event, error) {
	if anchorDate.IsZero() {
		return nil, domain.ErrInvalidAnchor
	}

	event := domain.NewEvent(uuid.NewString(), title, anchorDate, isTimeCapsule)

	if err := s.eventRepo.SaveEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}

	slog.InfoContext(ctx, "event created",
		slog.String("event_id", event.ID),
		slog.Time("anchor_date", event.AnchorDate),
		slog.Bool("is_time_capsule", event.IsTimeCapsule),
	)

	s.reschedule(ctx, event)

	return event, nil
}

func (s *Service) Update(ctx context.Context, id, title string, anchorDate time.Time, isTimeCapsule bool) (*domain.Event, error) {
	if anchorDate.IsZero() {
		return nil, domain.ErrInvalidAnchor
	}

	event, err := s.eventRepo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	event.Title = title
	event.AnchorDate = anchorDate
	event.IsTimeCapsule = isTimeCapsule
	event.UpdatedAt = time.Now().UTC()

	if err := s.eventRepo.SaveEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}

	slog.InfoContext(ctx, "event updated",
		slog.String("event_id", event.ID),
		slog.Time("anchor_date", event.AnchorDate),
	)

	s.reschedule(ctx, event)

	return event, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.eventRepo.GetEvent(ctx, id); err != nil {
		return err
	}

	if err := s.eventRepo.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	slog.InfoContext(ctx, "event deleted",
		slog.String("event_id", id),
	)

	if _, err := s.scheduler.CancelForEvent(ctx, id); err != nil {
		slog.WarnContext(ctx, "failed to cancel bookings for deleted event",
			slog.String("event_id", id),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.eventRepo.GetEvent(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*domain.Event, error) {
	return s.eventRepo.ListEvents(ctx)
}

// Reschedule re-runs the scheduling pass for one event. The app calls this
// after a permission grant, when previously denied passes booked nothing.
func (s *Service) Reschedule(ctx context.Context, id string) (*schedule.Result, error) {
	event, err := s.eventRepo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.scheduler.ScheduleForEvent(ctx, event)
}

// PreviewMilestones returns the next limit milestones for an event without
// touching the notification backend.
func (s *Service) PreviewMilestones(ctx context.Context, id string, limit int) ([]domain.MilestoneCandidate, error) {
	event, err := s.eventRepo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.scheduler.Preview(event, limit), nil
}

func (s *Service) reschedule(ctx context.Context, event *domain.Event) {
	if _, err := s.scheduler.ScheduleForEvent(ctx, event); err != nil {
		slog.WarnContext(ctx, "scheduling pass failed, event saved without bookings",
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)
	}
}
