package milestone

import (
	"fmt"
	"time"

	"github.com/daymark-app/milestone-scheduling/internal/domain"
)

// Cadence bounds cover roughly one hundred years from the anchor date.
const (
	firstMinuteMilestone = 100
	minuteStep           = 1000
	maxMinuteMagnitude   = 52_560_000

	hourStep         = 1000
	maxHourMagnitude = 876_000

	maxWeekMagnitude  = 5217
	maxMonthMagnitude = 1200
)

// earlyHourMilestones are the hour marks worth celebrating before the
// every-thousand ladder begins.
var earlyHourMilestones = [...]int{10, 50, 100, 500}

const (
	milestoneTitle = "Milestone"
	capsuleTitle   = "Time capsule"
)

// Generator produces milestone candidates for a single event. It is pure
// computation: no I/O, no failure modes. Callers are responsible for passing
// a valid anchor instant.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns one candidate per milestone across all cadences whose
// trigger instant is strictly after now. Past milestones are never
// constructed; the comparison against now is the generation-time guard that
// keeps a past trigger from ever reaching the booking step.
func (g *Generator) Generate(anchor time.Time, title string, isTimeCapsule bool, now time.Time) []domain.MilestoneCandidate {
	elapsed := now.Sub(anchor) // negative while the anchor is still ahead

	out := make([]domain.MilestoneCandidate, 0, estimateRemaining(elapsed))

	if isTimeCapsule && anchor.After(now) {
		out = append(out, domain.MilestoneCandidate{
			ID:          "capsule-unlock",
			Kind:        domain.KindCapsuleUnlock,
			Magnitude:   0,
			TriggerTime: anchor,
			Title:       capsuleTitle,
			Body:        fmt.Sprintf("Your time capsule %q is ready to open!", title),
		})
	}

	out = g.appendMinutes(out, anchor, title, now, elapsed)
	out = g.appendHours(out, anchor, title, now, elapsed)
	out = g.appendWeeks(out, anchor, title, now, elapsed)
	out = g.appendMonths(out, anchor, title, now)

	return out
}

func (g *Generator) appendMinutes(out []domain.MilestoneCandidate, anchor time.Time, title string, now time.Time, elapsed time.Duration) []domain.MilestoneCandidate {
	if t := anchor.Add(firstMinuteMilestone * time.Minute); t.After(now) {
		out = append(out, minuteCandidate(firstMinuteMilestone, t, title))
	}

	// Skip directly past magnitudes that already elapsed instead of walking
	// fifty thousand past entries on old anchors.
	start := 1
	if elapsed > 0 {
		start = int(elapsed/time.Minute)/minuteStep + 1
	}

	for k := start; k*minuteStep <= maxMinuteMagnitude; k++ {
		magnitude := k * minuteStep
		t := anchor.Add(time.Duration(magnitude) * time.Minute)
		if !t.After(now) {
			continue
		}
		out = append(out, minuteCandidate(magnitude, t, title))
	}

	return out
}

func (g *Generator) appendHours(out []domain.MilestoneCandidate, anchor time.Time, title string, now time.Time, elapsed time.Duration) []domain.MilestoneCandidate {
	for _, magnitude := range earlyHourMilestones {
		t := anchor.Add(time.Duration(magnitude) * time.Hour)
		if t.After(now) {
			out = append(out, hourCandidate(magnitude, t, title))
		}
	}

	start := 1
	if elapsed > 0 {
		start = int(elapsed/time.Hour)/hourStep + 1
	}

	for k := start; k*hourStep <= maxHourMagnitude; k++ {
		magnitude := k * hourStep
		t := anchor.Add(time.Duration(magnitude) * time.Hour)
		if !t.After(now) {
			continue
		}
		out = append(out, hourCandidate(magnitude, t, title))
	}

	return out
}

func (g *Generator) appendWeeks(out []domain.MilestoneCandidate, anchor time.Time, title string, now time.Time, elapsed time.Duration) []domain.MilestoneCandidate {
	start := 1
	if elapsed > 0 {
		start = int(elapsed / (7 * 24 * time.Hour))
		if start < 1 {
			start = 1
		}
	}

	for w := start; w <= maxWeekMagnitude; w++ {
		t := anchor.AddDate(0, 0, 7*w)
		if !t.After(now) {
			continue
		}
		out = append(out, domain.MilestoneCandidate{
			ID:          fmt.Sprintf("weeks-%d", w),
			Kind:        domain.KindWeeks,
			Magnitude:   w,
			TriggerTime: t,
			Title:       milestoneTitle,
			Body:        fmt.Sprintf("%s passed since %s.", weekLabel(w), title),
		})
	}

	return out
}

func (g *Generator) appendMonths(out []domain.MilestoneCandidate, anchor time.Time, title string, now time.Time) []domain.MilestoneCandidate {
	for m := 1; m <= maxMonthMagnitude; m++ {
		t := addMonthsClamped(anchor, m)
		if !t.After(now) {
			continue
		}
		out = append(out, domain.MilestoneCandidate{
			ID:          fmt.Sprintf("months-%d", m),
			Kind:        domain.KindMonthsOrYears,
			Magnitude:   m,
			TriggerTime: t,
			Title:       milestoneTitle,
			Body:        fmt.Sprintf("%s since %s.", monthLabel(m), title),
		})
	}

	return out
}

// addMonthsClamped increments the month field and, when the target month is
// too short to hold the anchor's day-of-month, clamps to the last day of the
// intended month instead of rolling into the next one (Jan 31 + 1 month is
// Feb 28/29, never Mar 2/3).
func addMonthsClamped(anchor time.Time, months int) time.Time {
	t := anchor.AddDate(0, months, 0)
	if t.Day() != anchor.Day() {
		t = time.Date(t.Year(), t.Month(), 0,
			anchor.Hour(), anchor.Minute(), anchor.Second(), anchor.Nanosecond(), anchor.Location())
	}
	return t
}

func minuteCandidate(magnitude int, t time.Time, title string) domain.MilestoneCandidate {
	return domain.MilestoneCandidate{
		ID:          fmt.Sprintf("minutes-%d", magnitude),
		Kind:        domain.KindMinutes,
		Magnitude:   magnitude,
		TriggerTime: t,
		Title:       milestoneTitle,
		Body:        fmt.Sprintf("%s Minutes passed since %s.", formatCount(magnitude), title),
	}
}

func hourCandidate(magnitude int, t time.Time, title string) domain.MilestoneCandidate {
	return domain.MilestoneCandidate{
		ID:          fmt.Sprintf("hours-%d", magnitude),
		Kind:        domain.KindHours,
		Magnitude:   magnitude,
		TriggerTime: t,
		Title:       milestoneTitle,
		Body:        fmt.Sprintf("%s Hours passed since %s.", formatCount(magnitude), title),
	}
}

// estimateRemaining pre-sizes the candidate slice so generation never grows
// it through repeated reallocation on fresh anchors.
func estimateRemaining(elapsed time.Duration) int {
	elapsedMinutes := 0
	if elapsed > 0 {
		elapsedMinutes = int(elapsed / time.Minute)
	}

	n := 2 // capsule unlock + the 100-minute mark

	if remaining := maxMinuteMagnitude/minuteStep - elapsedMinutes/minuteStep; remaining > 0 {
		n += remaining
	}
	if remaining := maxHourMagnitude/hourStep - elapsedMinutes/60/hourStep; remaining > 0 {
		n += remaining + len(earlyHourMilestones)
	}
	if remaining := maxWeekMagnitude - elapsedMinutes/(7*24*60); remaining > 0 {
		n += remaining
	}
	if remaining := maxMonthMagnitude - elapsedMinutes/(30*24*60); remaining > 0 {
		n += remaining
	}

	return n
}
