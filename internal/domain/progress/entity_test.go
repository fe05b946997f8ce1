package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/codeformaine/codecourse/pkg/timeutil"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, timeutil.SchoolTZ)
}

func TestStreakTouch_FirstActivity(t *testing.T) {
	var s Streak

	next := s.Touch(day(2026, time.March, 2).Add(9 * time.Hour))

	assert.Equal(t, 1, next.Count)
	assert.Equal(t, day(2026, time.March, 2), next.LastActive)
}

func TestStreakTouch_Transitions(t *testing.T) {
	base := day(2026, time.March, 2)

	tests := []struct {
		name string
		s    Streak
		at   time.Time
		want int
	}{
		{"same day is a no-op", Streak{Count: 4, LastActive: base}, base.Add(22 * time.Hour), 4},
		{"next day grows", Streak{Count: 4, LastActive: base}, base.AddDate(0, 0, 1), 5},
		{"two-day gap resets", Streak{Count: 4, LastActive: base}, base.AddDate(0, 0, 2), 1},
		{"week-long gap resets", Streak{Count: 30, LastActive: base}, base.AddDate(0, 0, 7), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := tt.s.Touch(tt.at)
			assert.Equal(t, tt.want, next.Count)
			assert.Equal(t, timeutil.StartOfDay(tt.at), next.LastActive)
		})
	}
}

func TestStreakTouch_Sequence(t *testing.T) {
	// Activity on D, D+1, then D+3: 1, 2, reset to 1.
	d := day(2026, time.March, 2)

	var s Streak
	s = s.Touch(d)
	assert.Equal(t, 1, s.Count)

	s = s.Touch(d.AddDate(0, 0, 1))
	assert.Equal(t, 2, s.Count)

	s = s.Touch(d.AddDate(0, 0, 3))
	assert.Equal(t, 1, s.Count)
}

func TestStreakTouch_SameDayIdempotent(t *testing.T) {
	d := day(2026, time.March, 2)

	s := Streak{Count: 2, LastActive: d}
	morning := s.Touch(d.Add(8 * time.Hour))
	evening := morning.Touch(d.Add(21 * time.Hour))

	assert.Equal(t, s, morning)
	assert.Equal(t, s, evening)
}

func TestStreakAdvanced(t *testing.T) {
	s := Streak{Count: 3}

	assert.True(t, s.Advanced(Streak{Count: 4}))
	assert.False(t, s.Advanced(Streak{Count: 3}))
	assert.False(t, s.Advanced(Streak{Count: 1}))
}

func TestPassed(t *testing.T) {
	assert.True(t, Passed(70, 0))
	assert.False(t, Passed(69, 0))
	assert.True(t, Passed(100, 0))

	// Per-lesson thresholds override the default.
	assert.True(t, Passed(50, 50))
	assert.False(t, Passed(49, 50))
	assert.False(t, Passed(89, 90))
}

func TestRecordValidate(t *testing.T) {
	valid := Record{StudentID: "s1", LessonID: 3, LessonLang: "python", Score: 80, XP: 50}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(r *Record)
		want   error
	}{
		{"missing student", func(r *Record) { r.StudentID = "" }, ErrMissingStudent},
		{"missing lesson id", func(r *Record) { r.LessonID = 0 }, ErrMissingLesson},
		{"missing lang", func(r *Record) { r.LessonLang = "" }, ErrMissingLesson},
		{"score above range", func(r *Record) { r.Score = 101 }, ErrScoreOutOfRange},
		{"score below range", func(r *Record) { r.Score = -1 }, ErrScoreOutOfRange},
		{"negative xp", func(r *Record) { r.XP = -10 }, ErrNegativeXP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			assert.ErrorIs(t, r.Validate(), tt.want)
		})
	}
}
