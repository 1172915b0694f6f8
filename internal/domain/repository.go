package domain

import "context"

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=domain

type EventRepository interface {
	SaveEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

type BookingRepository interface {
	// ReplaceBookings atomically swaps the recorded bookings for an event
	// with the bookings of the latest scheduling pass.
	ReplaceBookings(ctx context.Context, eventID string, records []BookingRecord) error
	GetBookings(ctx context.Context, eventID string) ([]BookingRecord, error)
	CountBookings(ctx context.Context, eventID string) (int, error)
	DeleteBookings(ctx context.Context, eventID string) error
}
