package dedupe

import (
	"sort"

	"github.com/daymark-app/milestone-scheduling/internal/domain"
)

// Deduplicator collapses candidates that share an exact trigger instant.
// Instants are compared at millisecond precision with no fuzzy windowing: a
// milestone that is simultaneously "1 year", "52 weeks" and "8760 hours"
// should surface once, under its most meaningful framing.
type Deduplicator struct{}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Deduplicate keeps exactly one candidate per trigger instant, the one whose
// kind ranks highest in the significance order. The result is sorted
// ascending by trigger time.
func (d *Deduplicator) Deduplicate(candidates []domain.MilestoneCandidate) []domain.MilestoneCandidate {
	if len(candidates) == 0 {
		return nil
	}

	survivors := make(map[int64]domain.MilestoneCandidate, len(candidates))
	for _, c := range candidates {
		key := c.TriggerKey()
		current, ok := survivors[key]
		if !ok || c.Outranks(current) {
			survivors[key] = c
		}
	}

	out := make([]domain.MilestoneCandidate, 0, len(survivors))
	for _, c := range survivors {
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].TriggerTime.Before(out[j].TriggerTime)
	})

	return out
}
