package policy

import (
	"fmt"
	"time"
)

// MessageFor maps a weekday to the advisory attendance-policy caption shown
// alongside the check-in action. This is display text only; enforcement
// lives in the geofence evaluator and the backend.
func MessageFor(day time.Weekday) string {
	switch day {
	case time.Friday:
		return "Friday: check in from anywhere"
	case time.Saturday:
		return "Saturday: on-site check-in only"
	case time.Sunday:
		return "Sunday: no attendance required"
	default:
		return "Mon-Thu: check in within the office radius"
	}
}

// Cutoff is the time of day after which a check-in counts as late.
type Cutoff struct {
	Hour   int
	Minute int
}

// ParseCutoff parses a "HH:MM" configuration value.
func ParseCutoff(s string) (Cutoff, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Cutoff{}, fmt.Errorf("invalid cutoff %q: %w", s, err)
	}
	return Cutoff{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// ArrivalStatus classifies a check-in relative to the cutoff. Display only;
// the backend's isLate/lateMinutes fields remain authoritative when present.
type ArrivalStatus struct {
	IsLate      bool
	LateMinutes int
}

// ClassifyArrival compares the check-in instant to the cutoff on the same
// calendar day, in the check-in's own location.
func ClassifyArrival(clockIn time.Time, cutoff Cutoff) ArrivalStatus {
	limit := time.Date(clockIn.Year(), clockIn.Month(), clockIn.Day(),
		cutoff.Hour, cutoff.Minute, 0, 0, clockIn.Location())

	if !clockIn.After(limit) {
		return ArrivalStatus{}
	}

	minutes := int(clockIn.Sub(limit).Minutes())
	return ArrivalStatus{IsLate: true, LateMinutes: minutes}
}

// FormatDistance renders a distance for user-facing messages, rounded to
// whole meters.
func FormatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1fkm", meters/1000)
	}
	return fmt.Sprintf("%.0fm", meters)
}
