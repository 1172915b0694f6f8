package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/daymark-app/milestone-scheduling/internal/domain"
)

const eventKeyPrefix = "milestone:event:"

type eventRecord struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	AnchorDate    time.Time `json:"anchor_date"`
	IsTimeCapsule bool      `json:"is_time_capsule"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type eventRepository struct {
	client *redis.Client
}

func NewEventRepository(client *redis.Client) domain.EventRepository {
	return &eventRepository{
		client: client,
	}
}

func (r *eventRepository) SaveEvent(ctx context.Context, event *domain.Event) error {
	if event == nil {
		return ErrInvalidEventData
	}

	key := eventKeyPrefix + event.ID

	record := eventRecord{
		ID:            event.ID,
		Title:         event.Title,
		AnchorDate:    event.AnchorDate,
		IsTimeCapsule: event.IsTimeCapsule,
		CreatedAt:     event.CreatedAt,
		UpdatedAt:     event.UpdatedAt,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return ErrInvalidEventData
	}

	// Events have no natural expiry; they live until deleted.
	return r.client.Set(ctx, key, data, 0).Err()
}

func (r *eventRepository) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	key := eventKeyPrefix + id

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}

	var record eventRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidEventData
	}

	return &domain.Event{
		ID:            record.ID,
		Title:         record.Title,
		AnchorDate:    record.AnchorDate,
		IsTimeCapsule: record.IsTimeCapsule,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}, nil
}

func (r *eventRepository) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	pattern := eventKeyPrefix + "*"
	events := make([]*domain.Event, 0)

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		id := iter.Val()[len(eventKeyPrefix):]

		event, err := r.GetEvent(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrEventNotFound) {
				continue
			}
			return nil, err
		}
		events = append(events, event)
	}

	if err := iter.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) DeleteEvent(ctx context.Context, id string) error {
	key := eventKeyPrefix + id
	return r.client.Del(ctx, key).Err()
}
