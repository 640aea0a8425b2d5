package datemath

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date wire format used in subjects, notes and reports.
const DateLayout = "2006-01-02"

// parseLayouts are tried in order by ParseDate. Timestamps keep the calendar
// date as written in their own offset.
var parseLayouts = []string{
	DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddCalendarMonths adds n calendar months to t, clamping the day to the last
// day of the target month. Jan 31 + 1 month is Feb 28 (or 29), never Mar 3.
func AddCalendarMonths(t time.Time, n int) time.Time {
	monthIndex := int(t.Month()) - 1 + n
	year := t.Year() + floorDiv(monthIndex, 12)
	month := time.Month(floorMod(monthIndex, 12) + 1)

	day := t.Day()
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseDate parses date-only and timestamp strings into a UTC calendar date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.IsZero() || t.Year() <= 1 {
				return time.Time{}, false
			}
			return DateOnly(t), true
		}
	}
	return time.Time{}, false
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SameDay reports whether a and b fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
