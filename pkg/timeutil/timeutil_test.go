package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func schoolDay(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, SchoolTZ)
}

func TestStartOfDay(t *testing.T) {
	at := schoolDay(2026, time.March, 2, 17)
	start := StartOfDay(at)

	assert.Equal(t, schoolDay(2026, time.March, 2, 0), start)
	assert.Equal(t, SchoolTZ, start.Location())
}

func TestSameDay(t *testing.T) {
	morning := schoolDay(2026, time.March, 2, 8)
	evening := schoolDay(2026, time.March, 2, 23)
	nextDay := schoolDay(2026, time.March, 3, 0)

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(evening, nextDay))
}

func TestSameDay_AcrossZones(t *testing.T) {
	// 01:00 UTC on March 3 is still the evening of March 2 in Maine.
	utc := time.Date(2026, time.March, 3, 1, 0, 0, 0, time.UTC)
	local := schoolDay(2026, time.March, 2, 12)

	assert.True(t, SameDay(utc, local))
}

func TestIsNextDay(t *testing.T) {
	d := schoolDay(2026, time.March, 2, 20)

	assert.True(t, IsNextDay(d, schoolDay(2026, time.March, 3, 6)))
	assert.False(t, IsNextDay(d, schoolDay(2026, time.March, 2, 23)))
	assert.False(t, IsNextDay(d, schoolDay(2026, time.March, 4, 6)))

	// Month boundary.
	assert.True(t, IsNextDay(schoolDay(2026, time.February, 28, 12), schoolDay(2026, time.March, 1, 12)))
}

func TestDaysBetween(t *testing.T) {
	a := schoolDay(2026, time.March, 2, 23)
	b := schoolDay(2026, time.March, 5, 1)

	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, -3, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestDayKeyRoundTrip(t *testing.T) {
	at := schoolDay(2026, time.March, 2, 15)
	key := DayKey(at)
	assert.Equal(t, "2026-03-02", key)

	parsed, err := ParseDayKey(key)
	assert.NoError(t, err)
	assert.Equal(t, StartOfDay(at), parsed)

	_, err = ParseDayKey("03/02/2026")
	assert.Error(t, err)
}

func TestIsOverdue(t *testing.T) {
	now := schoolDay(2026, time.March, 5, 9)

	assert.True(t, IsOverdue(schoolDay(2026, time.March, 4, 0), now))
	// Due today is not yet overdue.
	assert.False(t, IsOverdue(schoolDay(2026, time.March, 5, 0), now))
	assert.False(t, IsOverdue(schoolDay(2026, time.March, 6, 0), now))
	// Zero due date means no deadline.
	assert.False(t, IsOverdue(time.Time{}, now))
}

func TestFormatRelativeDay(t *testing.T) {
	now := Now()

	assert.Equal(t, "Today", FormatRelativeDay(now))
	assert.Equal(t, "Yesterday", FormatRelativeDay(now.AddDate(0, 0, -1)))

	older := now.AddDate(0, 0, -40)
	got := FormatRelativeDay(older)
	assert.NotEqual(t, "Today", got)
	assert.NotEqual(t, "Yesterday", got)
	assert.Contains(t, got, older.In(SchoolTZ).Format("Jan 2"))
}
