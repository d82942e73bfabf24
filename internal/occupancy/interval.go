package occupancy

import (
	"errors"
	"fmt"
	"time"
)

// ErrBadDate is returned when a date string is not a valid YYYY-MM-DD
// calendar date.
var ErrBadDate = errors.New("invalid date")

// ErrBadClock is returned when a time-of-day string is not a valid HH:MM
// 24-hour value, or when an interval's start lies after its end.
var ErrBadClock = errors.New("invalid time")

// ParseDate validates an ISO 8601 calendar date and returns it as a
// time.Time in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	return t.UTC(), nil
}

// DayOfWeek resolves a date string to its weekday name ("Monday" …
// "Sunday"), which is how availability slots recur.
func DayOfWeek(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.Weekday().String(), nil
}

// parseClock converts "HH:MM" into a minute-of-day offset.  HH:MM strings
// compare the same lexicographically and numerically, but minutes keep the
// overlap arithmetic obvious.  time.Parse alone is too lenient here: it
// accepts single-digit hours like "9:30", so the two-digit shape is checked
// first.
func parseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// interval is a half-open [start, end) range in minutes from midnight.
type interval struct {
	start int
	end   int
}

// parseInterval validates an HH:MM pair and returns it as minute offsets.
// Inverted ranges (start after end) are data corruption and rejected;
// zero-length ranges (start == end) are tolerated here because the overlap
// rule makes them match nothing.
func parseInterval(startHHMM, endHHMM string) (interval, error) {
	start, err := parseClock(startHHMM)
	if err != nil {
		return interval{}, err
	}
	end, err := parseClock(endHHMM)
	if err != nil {
		return interval{}, err
	}
	if start > end {
		return interval{}, fmt.Errorf("%w: start %s after end %s", ErrBadClock, startHHMM, endHHMM)
	}
	return interval{start: start, end: end}, nil
}

// ValidateClockRange checks an HH:MM pair the way booking and slot writes
// need it: both boundaries well-formed and start strictly before end.
func ValidateClockRange(startHHMM, endHHMM string) error {
	iv, err := parseInterval(startHHMM, endHHMM)
	if err != nil {
		return err
	}
	if iv.start == iv.end {
		return fmt.Errorf("%w: empty range %s-%s", ErrBadClock, startHHMM, endHHMM)
	}
	return nil
}

// overlaps reports whether two half-open intervals intersect.  Both
// inequalities are strict, so an interval ending exactly where the other
// starts does not overlap it, and a zero-length interval overlaps nothing.
// This is the rule everything else in the package is built on: it covers
// partial overlap, containment in either direction and exact equality of
// bounds, not merely identical (start, end) pairs.
func overlaps(a, b interval) bool {
	if a.start >= a.end || b.start >= b.end {
		return false
	}
	return b.start < a.end && b.end > a.start
}
