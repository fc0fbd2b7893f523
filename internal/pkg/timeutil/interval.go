package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the length of a wall-clock day.
const MinutesPerDay = 24 * 60

// ToMinutes converts an "HH:MM" wall-clock value into minutes since midnight,
// always in [0, MinutesPerDay). Missing or malformed parts count as 0.
func ToMinutes(hhmm string) int {
	parts := strings.SplitN(strings.TrimSpace(hhmm), ":", 2)

	hours, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
	minutes := 0
	if len(parts) > 1 {
		minutes, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}

	total := (hours*60 + minutes) % MinutesPerDay
	if total < 0 {
		total += MinutesPerDay
	}
	return total
}

// FormatMinutes renders minutes since midnight as "HH:MM".
func FormatMinutes(m int) string {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// IsClock reports whether s is a well-formed "HH:MM" value.
func IsClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return false
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return false
	}
	return true
}

// span returns the day-relative interval for start/end minutes. An end before
// its start crosses midnight. Equal values are an empty interval.
func span(start, end int) (int, int) {
	if end < start {
		end += MinutesPerDay
	}
	return start, end
}

// OverlapsMinutes reports whether [startA,endA) and [startB,endB) share at
// least one minute. Touching boundaries and empty intervals never overlap.
// Each interval is placed on the day its own start falls on, so a shift that
// crosses midnight is not compared against the early hours of the next day:
// 22:00-02:00 and 01:00-03:00 do not overlap.
func OverlapsMinutes(startA, endA, startB, endB int) bool {
	sa, ea := span(startA, endA)
	sb, eb := span(startB, endB)
	if sa == ea || sb == eb {
		return false
	}
	return sa < eb && sb < ea
}

// Overlaps is OverlapsMinutes over "HH:MM" values.
func Overlaps(startA, endA, startB, endB string) bool {
	return OverlapsMinutes(ToMinutes(startA), ToMinutes(endA), ToMinutes(startB), ToMinutes(endB))
}

// DurationMinutes returns the length of the shift from start to end, wrapping
// past midnight when end is before start.
func DurationMinutes(start, end string) int {
	s, e := span(ToMinutes(start), ToMinutes(end))
	return e - s
}
