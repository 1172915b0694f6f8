package notifier

import "context"

//go:generate mockgen -source=notifier.go -destination=mock.go -package=notifier

// Notifier is the platform notification backend: the one external capability
// the scheduler drives. Implementations persist one-shot notifications and
// fire them at their trigger instant on their own; nothing in this process
// delivers anything.
type Notifier interface {
	// RequestPermission reports whether the backend will accept bookings
	// right now. It is queried fresh at the start of every scheduling pass.
	RequestPermission(ctx context.Context) (bool, error)
	// ListPending returns every booking currently held by the backend.
	ListPending(ctx context.Context) ([]PendingNotification, error)
	// Cancel removes a booking. Canceling an already-fired or already-removed
	// id is not an error.
	Cancel(ctx context.Context, id string) error
	// Schedule books a one-shot notification and returns its backend id.
	Schedule(ctx context.Context, req *ScheduleRequest) (*ScheduleResponse, error)
}
