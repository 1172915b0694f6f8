package milestone

import (
	"testing"
	"time"

	"github.com/daymark-app/milestone-scheduling/internal/domain"
)

func findCandidate(candidates []domain.MilestoneCandidate, id string) (domain.MilestoneCandidate, bool) {
	for _, c := range candidates {
		if c.ID == id {
			return c, true
		}
	}
	return domain.MilestoneCandidate{}, false
}

func TestGenerateMonthEndClamp(t *testing.T) {
	tests := []struct {
		name    string
		anchor  time.Time
		monthID string
		want    time.Time
	}{
		{
			name:    "Jan 31 plus one month clamps to Feb 28 in a non-leap year",
			anchor:  time.Date(2025, time.January, 31, 10, 30, 0, 0, time.UTC),
			monthID: "months-1",
			want:    time.Date(2025, time.February, 28, 10, 30, 0, 0, time.UTC),
		},
		{
			name:    "Jan 31 plus one month clamps to Feb 29 in a leap year",
			anchor:  time.Date(2024, time.January, 31, 10, 30, 0, 0, time.UTC),
			monthID: "months-1",
			want:    time.Date(2024, time.February, 29, 10, 30, 0, 0, time.UTC),
		},
		{
			name:    "May 31 plus one month clamps to Jun 30",
			anchor:  time.Date(2025, time.May, 31, 9, 0, 0, 0, time.UTC),
			monthID: "months-1",
			want:    time.Date(2025, time.June, 30, 9, 0, 0, 0, time.UTC),
		},
		{
			name:    "Mar 15 plus one month needs no clamp",
			anchor:  time.Date(2025, time.March, 15, 9, 0, 0, 0, time.UTC),
			monthID: "months-1",
			want:    time.Date(2025, time.April, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			name:    "Feb 29 anchor plus a year clamps to Feb 28",
			anchor:  time.Date(2024, time.February, 29, 9, 0, 0, 0, time.UTC),
			monthID: "months-12",
			want:    time.Date(2025, time.February, 28, 9, 0, 0, 0, time.UTC),
		},
	}

	g := NewGenerator()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := g.Generate(tt.anchor, "Moved in", false, tt.anchor)

			c, ok := findCandidate(candidates, tt.monthID)
			if !ok {
				t.Fatalf("candidate %s not generated", tt.monthID)
			}
			if !c.TriggerTime.Equal(tt.want) {
				t.Errorf("trigger time = %v, want %v", c.TriggerTime, tt.want)
			}
			if c.Kind != domain.KindMonthsOrYears {
				t.Errorf("kind = %s, want %s", c.Kind, domain.KindMonthsOrYears)
			}
		})
	}
}

func TestGenerateAllCandidatesStrictlyFuture(t *testing.T) {
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)

	anchors := []struct {
		name   string
		anchor time.Time
	}{
		{"anchor decades in the past", time.Date(1994, time.March, 3, 8, 15, 0, 0, time.UTC)},
		{"anchor earlier the same day", now.Add(-5 * time.Hour)},
		{"anchor in the future", now.Add(72 * time.Hour)},
	}

	g := NewGenerator()

	for _, tt := range anchors {
		t.Run(tt.name, func(t *testing.T) {
			candidates := g.Generate(tt.anchor, "Birthday", true, now)

			for _, c := range candidates {
				if !c.TriggerTime.After(now) {
					t.Fatalf("candidate %s triggers at %v, not strictly after now %v", c.ID, c.TriggerTime, now)
				}
			}
		})
	}
}

func TestGenerateHundredMinuteBoundary(t *testing.T) {
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	g := NewGenerator()

	// Anchor whose 100-minute mark passed one second ago.
	past := g.Generate(now.Add(-100*time.Minute-time.Second), "Launch", false, now)
	if _, ok := findCandidate(past, "minutes-100"); ok {
		t.Error("minutes-100 generated even though its trigger already passed")
	}

	// Anchor whose 100-minute mark lands one second from now.
	future := g.Generate(now.Add(-100*time.Minute+time.Second), "Launch", false, now)
	c, ok := findCandidate(future, "minutes-100")
	if !ok {
		t.Fatal("minutes-100 missing for an anchor whose mark is still ahead")
	}
	if want := now.Add(time.Second); !c.TriggerTime.Equal(want) {
		t.Errorf("trigger time = %v, want %v", c.TriggerTime, want)
	}
}

func TestGenerateCapsuleUnlock(t *testing.T) {
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	anchor := now.Add(48 * time.Hour)
	g := NewGenerator()

	candidates := g.Generate(anchor, "Letter to myself", true, now)

	unlocks := 0
	for _, c := range candidates {
		if c.Kind == domain.KindCapsuleUnlock {
			unlocks++
			if !c.TriggerTime.Equal(anchor) {
				t.Errorf("unlock trigger = %v, want the anchor %v", c.TriggerTime, anchor)
			}
		}
	}
	if unlocks != 1 {
		t.Fatalf("unlock candidates = %d, want exactly 1", unlocks)
	}

	// No unlock for plain events or once the anchor has passed.
	for _, c := range g.Generate(anchor, "Letter to myself", false, now) {
		if c.Kind == domain.KindCapsuleUnlock {
			t.Error("unlock generated for a non-capsule event")
		}
	}
	for _, c := range g.Generate(now.Add(-time.Hour), "Letter to myself", true, now) {
		if c.Kind == domain.KindCapsuleUnlock {
			t.Error("unlock generated for an anchor already in the past")
		}
	}
}

func TestGenerateLadderCoverage(t *testing.T) {
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	g := NewGenerator()

	candidates := g.Generate(now, "Adopted Miso", false, now)

	var minuteCount, hourCount, weekCount, monthCount int
	for _, c := range candidates {
		switch c.Kind {
		case domain.KindMinutes:
			minuteCount++
			if c.Magnitude != firstMinuteMilestone && c.Magnitude%minuteStep != 0 {
				t.Errorf("unexpected minute magnitude %d", c.Magnitude)
			}
			if c.Magnitude > maxMinuteMagnitude {
				t.Errorf("minute magnitude %d exceeds ladder bound", c.Magnitude)
			}
		case domain.KindHours:
			hourCount++
			if c.Magnitude > maxHourMagnitude {
				t.Errorf("hour magnitude %d exceeds ladder bound", c.Magnitude)
			}
		case domain.KindWeeks:
			weekCount++
		case domain.KindMonthsOrYears:
			monthCount++
		}
	}

	if want := maxMinuteMagnitude/minuteStep + 1; minuteCount != want {
		t.Errorf("minute candidates = %d, want %d", minuteCount, want)
	}
	if want := maxHourMagnitude/hourStep + len(earlyHourMilestones); hourCount != want {
		t.Errorf("hour candidates = %d, want %d", hourCount, want)
	}
	if weekCount != maxWeekMagnitude {
		t.Errorf("week candidates = %d, want %d", weekCount, maxWeekMagnitude)
	}
	if monthCount != maxMonthMagnitude {
		t.Errorf("month candidates = %d, want %d", monthCount, maxMonthMagnitude)
	}
}

func TestGenerateSkipsElapsedMagnitudes(t *testing.T) {
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	anchor := now.AddDate(-10, 0, 0)
	g := NewGenerator()

	candidates := g.Generate(anchor, "Graduated", false, now)

	elapsedHours := int(now.Sub(anchor) / time.Hour)
	for _, c := range candidates {
		if c.Kind == domain.KindHours && c.Magnitude <= elapsedHours {
			t.Errorf("hour magnitude %d already elapsed (%d hours since anchor)", c.Magnitude, elapsedHours)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	anchor := time.Date(2020, time.June, 1, 9, 0, 0, 0, time.UTC)
	g := NewGenerator()

	first := g.Generate(anchor, "Wedding", true, now)
	second := g.Generate(anchor, "Wedding", true, now)

	if len(first) != len(second) {
		t.Fatalf("candidate counts differ between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || !first[i].TriggerTime.Equal(second[i].TriggerTime) {
			t.Fatalf("candidate %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
