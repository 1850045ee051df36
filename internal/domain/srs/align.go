package srs

import "time"

// DefaultDayCutoff is the time of day (UTC) at which a logical study day ends.
const DefaultDayCutoff = 7 * time.Hour

// snapDelay places aligned due dates just after the cutoff so that they land
// inside the new logical day rather than on its boundary.
const snapDelay = time.Minute

// DayBoundary groups timestamps into logical days that start at Cutoff.
//
// Without alignment, a card reviewed a few minutes later each day would drift
// slowly across the day boundary and jump between daily buckets.
type DayBoundary struct {
	Cutoff time.Duration
}

// NewDayBoundary returns a boundary whose days start at cutoff past midnight UTC.
func NewDayBoundary(cutoff time.Duration) DayBoundary {
	return DayBoundary{Cutoff: cutoff}
}

// EndOfDay returns the first cutoff strictly after now.
func (b DayBoundary) EndOfDay(now time.Time) time.Time {
	return b.startOfDay(now).AddDate(0, 0, 1)
}

// StartOfDay returns the cutoff that opened the logical day containing t.
func (b DayBoundary) StartOfDay(t time.Time) time.Time {
	return b.startOfDay(t)
}

// Date returns the calendar date of the logical day containing t.
func (b DayBoundary) Date(t time.Time) string {
	return t.UTC().Add(-b.Cutoff).Format(time.DateOnly)
}

// Align normalises a candidate due date computed at now.
//
// Candidates before the next cutoff are kept as is. Later candidates are moved
// to just after the cutoff of their own logical day, which never pushes them
// later than computed.
func (b DayBoundary) Align(now, candidate time.Time) time.Time {
	if candidate.Before(b.EndOfDay(now)) {
		return candidate
	}

	c := candidate.UTC()
	snapped := midnight(c).Add(b.Cutoff + snapDelay)
	if snapped.After(c) {
		snapped = snapped.AddDate(0, 0, -1)
	}
	return snapped
}

func (b DayBoundary) startOfDay(t time.Time) time.Time {
	return midnight(t.UTC().Add(-b.Cutoff)).Add(b.Cutoff)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
