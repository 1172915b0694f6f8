package domain

import (
	"time"
)

// BookingRecord is the bookkeeping entry kept for one booked notification.
// The backend's own pending list stays authoritative for cancellation; these
// records exist for observability and fast per-event counts.
type BookingRecord struct {
	BackendID   string
	EventID     string
	CandidateID string
	Kind        Kind
	TriggerTime time.Time
	BookedAt    time.Time
}

func NewBookingRecord(backendID, eventID, candidateID string, kind Kind, triggerTime time.Time) BookingRecord {
	return BookingRecord{
		BackendID:   backendID,
		EventID:     eventID,
		CandidateID: candidateID,
		Kind:        kind,
		TriggerTime: triggerTime,
		BookedAt:    time.Now().UTC(),
	}
}
