// Package timeutil provides calendar-day utilities for streak tracking and
// due-date handling. Streaks count consecutive *calendar days* in the school's
// timezone, not 24-hour windows, so all day math goes through this package.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// DefaultTimezone is the school's timezone. CodeCourse classrooms are run out
// of Maine, so America/New_York is the reference for "today".
const DefaultTimezone = "America/New_York"

// SchoolTZ is the timezone used for all calendar-day calculations.
// Falls back to UTC if the zone database is unavailable.
var SchoolTZ = loadSchoolTZ()

func loadSchoolTZ() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Now returns the current time in the school timezone.
func Now() time.Time {
	return time.Now().In(SchoolTZ)
}

// Today returns the start of the current calendar day in the school timezone.
func Today() time.Time {
	return StartOfDay(Now())
}

// StartOfDay returns the start of the day (00:00:00) in the school timezone.
func StartOfDay(t time.Time) time.Time {
	local := t.In(SchoolTZ)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, SchoolTZ)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	al, bl := a.In(SchoolTZ), b.In(SchoolTZ)
	return al.Year() == bl.Year() && al.Month() == bl.Month() && al.Day() == bl.Day()
}

// IsNextDay reports whether b falls on the calendar day immediately after a.
func IsNextDay(a, b time.Time) bool {
	return SameDay(a.AddDate(0, 0, 1), b)
}

// DaysBetween returns the number of whole calendar days from a to b.
// Negative if b is before a.
func DaysBetween(a, b time.Time) int {
	start := StartOfDay(a)
	end := StartOfDay(b)
	return int(end.Sub(start).Hours() / 24)
}

// DayKey returns a stable YYYY-MM-DD key for the day t falls on.
// Used for cache keys and the users.last_active_date column.
func DayKey(t time.Time) string {
	return t.In(SchoolTZ).Format("2006-01-02")
}

// ParseDayKey parses a YYYY-MM-DD key back into the start of that day.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", key, SchoolTZ)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: invalid day key %q: %w", key, err)
	}
	return t, nil
}

// FormatRelativeDay renders a timestamp as "Today", "Yesterday", or a short
// date. Used by feed views so recent entries read naturally.
func FormatRelativeDay(t time.Time) string {
	now := Now()
	local := t.In(SchoolTZ)
	switch {
	case SameDay(local, now):
		return "Today"
	case IsNextDay(local, now):
		return "Yesterday"
	case local.Year() == now.Year():
		return local.Format("Jan 2")
	default:
		return local.Format("Jan 2, 2006")
	}
}

// IsOverdue reports whether a due date has passed as of now.
// A zero due date means the assignment has no deadline.
func IsOverdue(due time.Time, now time.Time) bool {
	if due.IsZero() {
		return false
	}
	return StartOfDay(now).After(StartOfDay(due))
}
