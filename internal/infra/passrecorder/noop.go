package passrecorder

import (
	"context"

	"github.com/daymark-app/milestone-scheduling/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.SchedulePassRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordPass(_ context.Context, _ domain.SchedulePassRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
