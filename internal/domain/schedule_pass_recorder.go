package domain

import (
	"context"
	"time"
)

type SchedulePassRecord struct {
	PassID            string
	EventID           string
	StartedAt         time.Time
	GeneratedCount    int
	DeduplicatedCount int
	TruncatedCount    int
	BookedCount       int
	CancelledCount    int
	CancelFailures    int
	BookFailures      int
	PermissionGranted bool
	Aborted           bool
}

type SchedulePassRecorder interface {
	RecordPass(ctx context.Context, record SchedulePassRecord) error
	Flush(ctx context.Context) error
	Close() error
}
