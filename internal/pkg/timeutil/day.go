package timeutil

import (
	"errors"
	"time"
)

// DateLayout is the wire format for calendar days.
const DateLayout = "2006-01-02"

var ErrEndBeforeStart = errors.New("end date is before start date")

// ParseDay parses a "YYYY-MM-DD" value as local midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, s, loc)
}

// StartOfDay normalizes t to midnight of its calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// UTCDay maps t to UTC midnight of the same calendar date, independent of the
// zone t carries. Day arithmetic is done on these values so DST shifts never
// change a difference.
func UTCDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return UTCDay(a).Equal(UTCDay(b))
}

// DaysInclusive counts calendar days in [start, end].
func DaysInclusive(start, end time.Time) (int, error) {
	s, e := UTCDay(start), UTCDay(end)
	if e.Before(s) {
		return 0, ErrEndBeforeStart
	}
	return int(e.Sub(s)/(24*time.Hour)) + 1, nil
}

// WithinDays reports whether day lies in the inclusive calendar range [start, end].
func WithinDays(day, start, end time.Time) bool {
	d := UTCDay(day)
	return !d.Before(UTCDay(start)) && !d.After(UTCDay(end))
}

// RangesIntersect reports whether two inclusive calendar ranges share a day.
func RangesIntersect(startA, endA, startB, endB time.Time) bool {
	return !UTCDay(startA).After(UTCDay(endB)) && !UTCDay(startB).After(UTCDay(endA))
}

// MonthsSpanned counts the calendar months touched by [start, end].
func MonthsSpanned(start, end time.Time) int {
	s, e := UTCDay(start), UTCDay(end)
	if e.Before(s) {
		return 0
	}
	return (e.Year()-s.Year())*12 + int(e.Month()) - int(s.Month()) + 1
}
