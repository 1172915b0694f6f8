package schedule

import (
	"github.com/daymark-app/milestone-scheduling/internal/domain"
)

// Result summarizes one scheduling pass for a single event.
type Result struct {
	PassID            string
	EventID           string
	PermissionGranted bool
	GeneratedCount    int
	DeduplicatedCount int
	TruncatedCount    int
	CancelledCount    int
	CancelFailures    int
	BookedCount       int
	BookFailures      int
	Bookings          []domain.BookingRecord
}

// CancelResult summarizes removal of every pending booking for an event.
type CancelResult struct {
	EventID        string
	CancelledCount int
	CancelFailures int
}
