package repository

import (
	"context"
	"testing"
	"time"

	"github.com/daymark-app/milestone-scheduling/internal/domain"
	"github.com/daymark-app/milestone-scheduling/internal/testutil"
)

func TestReplaceAndGetBookingsSuccess(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewBookingRepository(client)

	now := time.Now().UTC().Truncate(time.Millisecond)
	eventID := "event-bookings-001"

	records := []domain.BookingRecord{
		{
			BackendID:   "backend-001",
			EventID:     eventID,
			CandidateID: "minutes-100",
			Kind:        domain.KindMinutes,
			TriggerTime: now.Add(100 * time.Minute),
			BookedAt:    now,
		},
		{
			BackendID:   "backend-002",
			EventID:     eventID,
			CandidateID: "weeks-1",
			Kind:        domain.KindWeeks,
			TriggerTime: now.Add(7 * 24 * time.Hour),
			BookedAt:    now,
		},
	}

	if err := repo.ReplaceBookings(ctx, eventID, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	retrieved, err := repo.GetBookings(ctx, eventID)
	if err != nil {
		t.Fatalf("failed to get bookings: %v", err)
	}

	if len(retrieved) != len(records) {
		t.Fatalf("expected %d bookings, got %d", len(records), len(retrieved))
	}

	for i, rec := range retrieved {
		if rec.BackendID != records[i].BackendID {
			t.Errorf("expected BackendID %s, got %s", records[i].BackendID, rec.BackendID)
		}
		if rec.CandidateID != records[i].CandidateID {
			t.Errorf("expected CandidateID %s, got %s", records[i].CandidateID, rec.CandidateID)
		}
		if rec.Kind != records[i].Kind {
			t.Errorf("expected Kind %s, got %s", records[i].Kind, rec.Kind)
		}
		if !rec.TriggerTime.Equal(records[i].TriggerTime) {
			t.Errorf("expected TriggerTime %v, got %v", records[i].TriggerTime, rec.TriggerTime)
		}
	}
}

func TestReplaceBookingsOverwritesPreviousPass(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewBookingRepository(client)

	now := time.Now().UTC().Truncate(time.Millisecond)
	eventID := "event-bookings-002"

	first := []domain.BookingRecord{
		{BackendID: "backend-old-1", EventID: eventID, CandidateID: "hours-10", Kind: domain.KindHours, TriggerTime: now.Add(10 * time.Hour), BookedAt: now},
		{BackendID: "backend-old-2", EventID: eventID, CandidateID: "hours-50", Kind: domain.KindHours, TriggerTime: now.Add(50 * time.Hour), BookedAt: now},
		{BackendID: "backend-old-3", EventID: eventID, CandidateID: "hours-100", Kind: domain.KindHours, TriggerTime: now.Add(100 * time.Hour), BookedAt: now},
	}
	if err := repo.ReplaceBookings(ctx, eventID, first); err != nil {
		t.Fatalf("failed to save first pass: %v", err)
	}

	second := []domain.BookingRecord{
		{BackendID: "backend-new-1", EventID: eventID, CandidateID: "months-1", Kind: domain.KindMonthsOrYears, TriggerTime: now.AddDate(0, 1, 0), BookedAt: now},
	}
	if err := repo.ReplaceBookings(ctx, eventID, second); err != nil {
		t.Fatalf("failed to save second pass: %v", err)
	}

	retrieved, err := repo.GetBookings(ctx, eventID)
	if err != nil {
		t.Fatalf("failed to get bookings: %v", err)
	}

	if len(retrieved) != 1 {
		t.Fatalf("expected 1 booking after replace, got %d", len(retrieved))
	}
	if retrieved[0].BackendID != "backend-new-1" {
		t.Errorf("expected BackendID backend-new-1, got %s", retrieved[0].BackendID)
	}
}

func TestGetBookingsError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewBookingRepository(client)

	_, err := repo.GetBookings(ctx, "event-no-bookings")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err != domain.ErrBookingsNotFound {
		t.Errorf("expected error %v, got %v", domain.ErrBookingsNotFound, err)
	}
}

func TestCountBookingsSuccess(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewBookingRepository(client)

	now := time.Now().UTC().Truncate(time.Millisecond)
	eventID := "event-bookings-003"

	records := []domain.BookingRecord{
		{BackendID: "backend-a", EventID: eventID, CandidateID: "weeks-1", Kind: domain.KindWeeks, TriggerTime: now.Add(7 * 24 * time.Hour), BookedAt: now},
		{BackendID: "backend-b", EventID: eventID, CandidateID: "weeks-2", Kind: domain.KindWeeks, TriggerTime: now.Add(14 * 24 * time.Hour), BookedAt: now},
	}
	if err := repo.ReplaceBookings(ctx, eventID, records); err != nil {
		t.Fatalf("failed to save bookings: %v", err)
	}

	tests := []struct {
		name     string
		eventID  string
		expected int
	}{
		{
			name:     "existing bookings",
			eventID:  eventID,
			expected: 2,
		},
		{
			name:     "missing bookings return zero",
			eventID:  "event-unknown",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := repo.CountBookings(ctx, tt.eventID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if count != tt.expected {
				t.Errorf("expected count %d, got %d", tt.expected, count)
			}
		})
	}
}

func TestDeleteBookingsSuccess(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewBookingRepository(client)

	now := time.Now().UTC().Truncate(time.Millisecond)
	eventID := "event-bookings-004"

	records := []domain.BookingRecord{
		{BackendID: "backend-x", EventID: eventID, CandidateID: "capsule_unlock-0", Kind: domain.KindCapsuleUnlock, TriggerTime: now.AddDate(1, 0, 0), BookedAt: now},
	}
	if err := repo.ReplaceBookings(ctx, eventID, records); err != nil {
		t.Fatalf("failed to save bookings: %v", err)
	}

	if err := repo.DeleteBookings(ctx, eventID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := repo.GetBookings(ctx, eventID)
	if err != domain.ErrBookingsNotFound {
		t.Errorf("expected ErrBookingsNotFound after delete, got %v", err)
	}

	if err := repo.DeleteBookings(ctx, eventID); err != nil {
		t.Errorf("expected no error on repeated delete, got %v", err)
	}
}
