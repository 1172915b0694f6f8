package notifier

import "time"

// PendingNotification is one booking held by the backend. EventID and Kind
// come from the payload attached at booking time and drive
// cancel-all-for-event lookups.
type PendingNotification struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Kind        string    `json:"kind"`
	TriggerTime time.Time `json:"trigger_time"`
}

type ScheduleRequest struct {
	EventID     string    `json:"event_id"`
	CandidateID string    `json:"candidate_id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	TriggerTime time.Time `json:"trigger_time"`
}

type ScheduleResponse struct {
	ID          string    `json:"id"`
	TriggerTime time.Time `json:"trigger_time"`
	CreatedAt   time.Time `json:"created_at"`
}

// Gateway wire types for the JSON/HTTP notification gateway.

type GatewayPermissionResponse struct {
	Granted bool `json:"granted"`
}

type GatewayPendingResponse struct {
	Notifications []PendingNotification `json:"notifications"`
	Count         int                   `json:"count"`
}

type GatewayScheduleResponse struct {
	ID          string `json:"id"`
	TriggerTime string `json:"trigger_time"`
	CreatedAt   string `json:"created_at"`
}
