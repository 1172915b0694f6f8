package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/daymark-app/milestone-scheduling/internal/domain"
)

const (
	bookingsKeyPrefix = "milestone:bookings:"

	// The farthest milestone sits about a century out, but the recorded set
	// is rewritten on every scheduling pass, so a generous rolling TTL keeps
	// orphaned records from accumulating after an event is gone.
	bookingsTTL = 400 * 24 * time.Hour
)

type bookingRecord struct {
	BackendID   string    `json:"backend_id"`
	EventID     string    `json:"event_id"`
	CandidateID string    `json:"candidate_id"`
	Kind        string    `json:"kind"`
	TriggerTime time.Time `json:"trigger_time"`
	BookedAt    time.Time `json:"booked_at"`
}

type bookingSetRecord struct {
	EventID  string          `json:"event_id"`
	Bookings []bookingRecord `json:"bookings"`
	SavedAt  time.Time       `json:"saved_at"`
}

type bookingRepository struct {
	client *redis.Client
}

func NewBookingRepository(client *redis.Client) domain.BookingRepository {
	return &bookingRepository{
		client: client,
	}
}

func (r *bookingRepository) ReplaceBookings(ctx context.Context, eventID string, records []domain.BookingRecord) error {
	key := bookingsKeyPrefix + eventID

	bookings := make([]bookingRecord, 0, len(records))
	for _, rec := range records {
		bookings = append(bookings, bookingRecord{
			BackendID:   rec.BackendID,
			EventID:     rec.EventID,
			CandidateID: rec.CandidateID,
			Kind:        rec.Kind.String(),
			TriggerTime: rec.TriggerTime,
			BookedAt:    rec.BookedAt,
		})
	}

	data, err := json.Marshal(bookingSetRecord{
		EventID:  eventID,
		Bookings: bookings,
		SavedAt:  time.Now().UTC(),
	})
	if err != nil {
		return ErrInvalidBookingData
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.Set(ctx, key, data, bookingsTTL)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *bookingRepository) GetBookings(ctx context.Context, eventID string) ([]domain.BookingRecord, error) {
	key := bookingsKeyPrefix + eventID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrBookingsNotFound
		}
		return nil, err
	}

	var record bookingSetRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidBookingData
	}

	records := make([]domain.BookingRecord, 0, len(record.Bookings))
	for _, b := range record.Bookings {
		records = append(records, domain.BookingRecord{
			BackendID:   b.BackendID,
			EventID:     b.EventID,
			CandidateID: b.CandidateID,
			Kind:        domain.Kind(b.Kind),
			TriggerTime: b.TriggerTime,
			BookedAt:    b.BookedAt,
		})
	}

	return records, nil
}

func (r *bookingRepository) CountBookings(ctx context.Context, eventID string) (int, error) {
	records, err := r.GetBookings(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrBookingsNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return len(records), nil
}

func (r *bookingRepository) DeleteBookings(ctx context.Context, eventID string) error {
	key := bookingsKeyPrefix + eventID
	return r.client.Del(ctx, key).Err()
}
