package domain

// Kind classifies a milestone candidate by the cadence that produced it.
type Kind string

const (
	KindCapsuleUnlock Kind = "capsule_unlock"
	KindMonthsOrYears Kind = "months_or_years"
	KindWeeks         Kind = "weeks"
	KindHours         Kind = "hours"
	KindMinutes       Kind = "minutes"
)

// kindPriority is the significance order used when candidates collide on the
// same trigger instant. Higher wins.
var kindPriority = map[Kind]int{
	KindMinutes:       0,
	KindHours:         1,
	KindWeeks:         2,
	KindMonthsOrYears: 3,
	KindCapsuleUnlock: 4,
}

func (k Kind) String() string {
	return string(k)
}

// Priority returns the dedup rank of the kind. Unknown kinds rank lowest.
func (k Kind) Priority() int {
	return kindPriority[k]
}

// Outranks reports whether k wins a trigger-instant collision against other.
func (k Kind) Outranks(other Kind) bool {
	return k.Priority() > other.Priority()
}
