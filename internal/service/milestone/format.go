package milestone

import (
	"fmt"
	"strconv"
)

// formatCount renders large minute/hour magnitudes the way the app displays
// them: 1000 -> "1k", 2500000 -> "2.5M". Values below a thousand stay plain.
func formatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return trimFloat(float64(n)/1_000_000) + "M"
	case n >= 1000:
		return trimFloat(float64(n)/1000) + "k"
	default:
		return strconv.Itoa(n)
	}
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func weekLabel(weeks int) string {
	if weeks == 1 {
		return "1 Week"
	}
	return fmt.Sprintf("%d Weeks", weeks)
}

// monthLabel phrases a month magnitude the way the app does: exact multiples
// of twelve read as whole years complete, everything else as a year/month
// breakdown.
func monthLabel(months int) string {
	years := months / 12
	rem := months % 12

	if rem == 0 {
		return fmt.Sprintf("%s complete", yearPart(years))
	}

	monthPart := fmt.Sprintf("%d Months", rem)
	if rem == 1 {
		monthPart = "1 Month"
	}

	if years == 0 {
		return monthPart + " completed"
	}
	return fmt.Sprintf("%s %s completed", yearPart(years), monthPart)
}

func yearPart(years int) string {
	if years == 1 {
		return "1 Year"
	}
	return fmt.Sprintf("%d Years", years)
}
