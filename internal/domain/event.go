package domain

import (
	"time"
)

// Event is a tracked special day. The anchor date is the fixed instant all
// milestones are computed relative to.
type Event struct {
	ID            string
	Title         string
	AnchorDate    time.Time
	IsTimeCapsule bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewEvent(id, title string, anchorDate time.Time, isTimeCapsule bool) *Event {
	now := time.Now().UTC()
	return &Event{
		ID:            id,
		Title:         title,
		AnchorDate:    anchorDate,
		IsTimeCapsule: isTimeCapsule,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
