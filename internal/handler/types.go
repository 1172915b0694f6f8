package handler

import (
	"time"

	"github.com/daymark-app/milestone-scheduling/internal/domain"
	"github.com/daymark-app/milestone-scheduling/internal/service/schedule"
)

type eventRequest struct {
	Title         string `json:"title" binding:"required,max=200"`
	AnchorDate    string `json:"anchor_date" binding:"required,rfc3339"`
	IsTimeCapsule bool   `json:"is_time_capsule"`
}

type eventResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	AnchorDate    time.Time `json:"anchor_date"`
	IsTimeCapsule bool      `json:"is_time_capsule"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
	Count  int             `json:"count"`
}

type milestoneItem struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Magnitude   int       `json:"magnitude"`
	TriggerTime time.Time `json:"trigger_time"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
}

type milestonesResponse struct {
	EventID    string          `json:"event_id"`
	Milestones []milestoneItem `json:"milestones"`
	Count      int             `json:"count"`
}

type scheduleResultResponse struct {
	PassID            string `json:"pass_id"`
	EventID           string `json:"event_id"`
	PermissionGranted bool   `json:"permission_granted"`
	GeneratedCount    int    `json:"generated_count"`
	CancelledCount    int    `json:"cancelled_count"`
	BookedCount       int    `json:"booked_count"`
	BookFailures      int    `json:"book_failures"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func toEventResponse(event *domain.Event) eventResponse {
	return eventResponse{
		ID:            event.ID,
		Title:         event.Title,
		AnchorDate:    event.AnchorDate,
		IsTimeCapsule: event.IsTimeCapsule,
		CreatedAt:     event.CreatedAt,
		UpdatedAt:     event.UpdatedAt,
	}
}

func toMilestoneItems(candidates []domain.MilestoneCandidate) []milestoneItem {
	items := make([]milestoneItem, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, milestoneItem{
			ID:          c.ID,
			Kind:        c.Kind.String(),
			Magnitude:   c.Magnitude,
			TriggerTime: c.TriggerTime,
			Title:       c.Title,
			Body:        c.Body,
		})
	}
	return items
}

func toScheduleResultResponse(result *schedule.Result) scheduleResultResponse {
	return scheduleResultResponse{
		PassID:            result.PassID,
		EventID:           result.EventID,
		PermissionGranted: result.PermissionGranted,
		GeneratedCount:    result.GeneratedCount,
		CancelledCount:    result.CancelledCount,
		BookedCount:       result.BookedCount,
		BookFailures:      result.BookFailures,
	}
}
