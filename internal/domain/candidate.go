package domain

import (
	"time"
)

// MilestoneCandidate is one potential notification produced for a single
// scheduling pass. Candidates are transient: each is either dropped (dedup
// loser, over budget) or booked through the notification backend.
type MilestoneCandidate struct {
	// ID is deterministic for a given cadence and magnitude ("hours-1000"),
	// so repeated passes over the same event regenerate identical ids.
	ID          string
	Kind        Kind
	Magnitude   int
	TriggerTime time.Time
	Title       string
	Body        string
}

func (c MilestoneCandidate) TriggerKey() int64 {
	return c.TriggerTime.UnixMilli()
}

// Outranks reports whether c should survive a same-instant collision with
// other. Generation emits at most one candidate per cadence per instant, so
// ties within a kind cannot occur.
func (c MilestoneCandidate) Outranks(other MilestoneCandidate) bool {
	return c.Kind.Outranks(other.Kind)
}
