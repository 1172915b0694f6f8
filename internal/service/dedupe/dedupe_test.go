package dedupe

import (
	"testing"
	"time"

	"github.com/daymark-app/milestone-scheduling/internal/domain"
	"github.com/daymark-app/milestone-scheduling/internal/service/milestone"
)

func candidate(id string, kind domain.Kind, trigger time.Time) domain.MilestoneCandidate {
	return domain.MilestoneCandidate{
		ID:          id,
		Kind:        kind,
		TriggerTime: trigger,
	}
}

func TestDeduplicateEmptyInput(t *testing.T) {
	d := NewDeduplicator()

	if got := d.Deduplicate(nil); len(got) != 0 {
		t.Errorf("Deduplicate(nil) returned %d candidates, want 0", len(got))
	}
	if got := d.Deduplicate([]domain.MilestoneCandidate{}); len(got) != 0 {
		t.Errorf("Deduplicate(empty) returned %d candidates, want 0", len(got))
	}
}

func TestDeduplicateCollisionPriority(t *testing.T) {
	at := time.Date(2027, time.June, 1, 9, 0, 0, 0, time.UTC)
	later := at.Add(time.Hour)

	tests := []struct {
		name   string
		in     []domain.MilestoneCandidate
		wantID string
	}{
		{
			name: "months outrank weeks",
			in: []domain.MilestoneCandidate{
				candidate("weeks-52", domain.KindWeeks, at),
				candidate("months-12", domain.KindMonthsOrYears, at),
			},
			wantID: "months-12",
		},
		{
			name: "weeks outrank hours",
			in: []domain.MilestoneCandidate{
				candidate("hours-8760", domain.KindHours, at),
				candidate("weeks-52", domain.KindWeeks, at),
			},
			wantID: "weeks-52",
		},
		{
			name: "hours outrank minutes",
			in: []domain.MilestoneCandidate{
				candidate("minutes-60000", domain.KindMinutes, at),
				candidate("hours-1000", domain.KindHours, at),
			},
			wantID: "hours-1000",
		},
		{
			name: "capsule unlock wins any collision",
			in: []domain.MilestoneCandidate{
				candidate("minutes-100", domain.KindMinutes, at),
				candidate("weeks-1", domain.KindWeeks, at),
				candidate("months-12", domain.KindMonthsOrYears, at),
				candidate("capsule-unlock", domain.KindCapsuleUnlock, at),
			},
			wantID: "capsule-unlock",
		},
		{
			name: "order of arrival does not matter",
			in: []domain.MilestoneCandidate{
				candidate("months-12", domain.KindMonthsOrYears, at),
				candidate("weeks-52", domain.KindWeeks, at),
			},
			wantID: "months-12",
		},
	}

	d := NewDeduplicator()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Deduplicate(tt.in)
			if len(got) != 1 {
				t.Fatalf("survivors = %d, want 1", len(got))
			}
			if got[0].ID != tt.wantID {
				t.Errorf("survivor = %s, want %s", got[0].ID, tt.wantID)
			}
		})
	}

	// Candidates on distinct instants are untouched.
	got := d.Deduplicate([]domain.MilestoneCandidate{
		candidate("weeks-1", domain.KindWeeks, at),
		candidate("weeks-2", domain.KindWeeks, later),
	})
	if len(got) != 2 {
		t.Fatalf("survivors = %d, want 2", len(got))
	}
}

func TestDeduplicateSortsChronologically(t *testing.T) {
	base := time.Date(2027, time.June, 1, 9, 0, 0, 0, time.UTC)
	in := []domain.MilestoneCandidate{
		candidate("weeks-3", domain.KindWeeks, base.AddDate(0, 0, 21)),
		candidate("weeks-1", domain.KindWeeks, base.AddDate(0, 0, 7)),
		candidate("weeks-2", domain.KindWeeks, base.AddDate(0, 0, 14)),
	}

	got := NewDeduplicator().Deduplicate(in)

	for i := 1; i < len(got); i++ {
		if !got[i-1].TriggerTime.Before(got[i].TriggerTime) {
			t.Fatalf("result not sorted at index %d: %v >= %v", i, got[i-1].TriggerTime, got[i].TriggerTime)
		}
	}
}

func TestDeduplicateGeneratedCandidatesHaveUniqueInstants(t *testing.T) {
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	anchor := time.Date(2026, time.August, 1, 9, 0, 0, 0, time.UTC)

	candidates := milestone.NewGenerator().Generate(anchor, "Adopted Miso", true, now)
	got := NewDeduplicator().Deduplicate(candidates)

	seen := make(map[int64]string, len(got))
	for _, c := range got {
		if prev, ok := seen[c.TriggerKey()]; ok {
			t.Fatalf("candidates %s and %s share trigger instant %v", prev, c.ID, c.TriggerTime)
		}
		seen[c.TriggerKey()] = c.ID
	}
}
