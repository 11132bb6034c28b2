// file: internals/helpers/timeslot/timeslot.go
package timeslot

import (
	"fmt"
	"strings"
	"time"
)

// Time-of-day values travel as "HH:MM" strings (what the DTOs accept and the
// columns store); days of week follow ISO-8601 (1 = Monday .. 7 = Sunday).

// Minutes converts "HH:MM" to minutes since midnight.
func Minutes(hhmm string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(hhmm))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (want HH:MM): %w", hhmm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidRange reports whether both times parse and start < end.
func ValidRange(start, end string) bool {
	s, err := Minutes(start)
	if err != nil {
		return false
	}
	e, err := Minutes(end)
	if err != nil {
		return false
	}
	return s < e
}

// Overlaps reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
// Boundary touching (aEnd == bStart) is not an overlap.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	as, err := Minutes(aStart)
	if err != nil {
		return false
	}
	ae, err := Minutes(aEnd)
	if err != nil {
		return false
	}
	bs, err := Minutes(bStart)
	if err != nil {
		return false
	}
	be, err := Minutes(bEnd)
	if err != nil {
		return false
	}
	return as < be && ae > bs
}

// ISOWeekday maps time.Weekday (Sunday = 0) to ISO-8601 (Monday = 1 .. Sunday = 7).
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// DateOnly truncates t to a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey renders a date as its map key form.
func DateKey(t time.Time) string { return t.Format("2006-01-02") }
