package clock

import "time"

// DayLayout is the format of calendar-day strings.
const DayLayout = "2006-01-02"

// DayString returns the calendar day of t in loc.
func DayString(t time.Time, loc *time.Location) string {
	return t.In(orUTC(loc)).Format(DayLayout)
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	loc = orUTC(loc)
	n := t.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween counts calendar-day boundaries crossed from from to to in loc.
// DST transitions do not affect the result.
func DaysBetween(from, to time.Time, loc *time.Location) int {
	loc = orUTC(loc)
	f := from.In(loc)
	t := to.In(loc)
	fd := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC)
	td := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(td.Sub(fd).Hours() / 24)
}

// DayTracker turns a stream of observed clock values into day-boundary events.
// The day string is recomputed only when the observed time changes.
type DayTracker struct {
	loc      *time.Location
	lastSeen time.Time
	day      string
}

// NewDayTracker creates a tracker for calendar days in loc.
func NewDayTracker(loc *time.Location) *DayTracker {
	return &DayTracker{loc: orUTC(loc)}
}

// Location returns the tracker's calendar location.
func (t *DayTracker) Location() *time.Location { return t.loc }

// Observe records now and returns its day string. crossed reports whether the
// day differs from the previously observed one; the first observation always
// counts as a crossing.
func (t *DayTracker) Observe(now time.Time) (day string, crossed bool) {
	if t.day != "" && now.Equal(t.lastSeen) {
		return t.day, false
	}
	t.lastSeen = now

	day = DayString(now, t.loc)
	crossed = day != t.day
	t.day = day
	return day, crossed
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
