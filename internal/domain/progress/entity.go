// Package progress contains the Progress Ledger and Streak Tracker.
//
// The ledger is the append-only source of truth for "has this student passed
// this lesson": one Record per (student, lesson, language), created once and
// never updated or deleted. Everything else that claims a lesson is complete
// (assignment submissions in particular) is a projection reconciled against
// this ledger.
package progress

import (
	"time"

	"github.com/codeformaine/codecourse/pkg/timeutil"
)

// DefaultPassingScore is the ledger-wide passing threshold (percent).
// Lessons may carry their own threshold; this is the fallback.
const DefaultPassingScore = 70

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record is the immutable fact that a student passed a specific lesson.
type Record struct {
	// StudentID - who passed the lesson.
	StudentID string

	// LessonID - lesson identifier within the language track.
	LessonID int

	// LessonLang - language track identifier (e.g. "python").
	LessonLang string

	// Score - quiz score in percent (0-100) at the time of passing.
	Score int

	// XP - experience points awarded, copied from the lesson catalog.
	XP int

	// CompletedAt - when the passing attempt was graded.
	CompletedAt time.Time
}

// Validate checks record invariants before insertion.
func (r *Record) Validate() error {
	if r.StudentID == "" {
		return ErrMissingStudent
	}
	if r.LessonID <= 0 || r.LessonLang == "" {
		return ErrMissingLesson
	}
	if r.Score < 0 || r.Score > 100 {
		return ErrScoreOutOfRange
	}
	if r.XP < 0 {
		return ErrNegativeXP
	}
	return nil
}

// Passed reports whether a score clears the given threshold.
// A non-positive threshold falls back to DefaultPassingScore.
func Passed(score, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultPassingScore
	}
	return score >= threshold
}

// ══════════════════════════════════════════════════════════════════════════════
// STREAK
// ══════════════════════════════════════════════════════════════════════════════

// Streak is a consecutive-calendar-day activity counter. A zero LastActive
// means the student has never had a passing quiz.
//
// The transition rule, applied at most once per passing quiz submission:
//   - same day as LastActive: no change (idempotent same-day re-trigger)
//   - the day after LastActive: count grows by one
//   - any gap, or first activity: count resets to one
type Streak struct {
	Count      int
	LastActive time.Time
}

// Touch applies one activity observation at the given time and returns the
// resulting streak. Pure function of stored state plus the clock.
func (s Streak) Touch(now time.Time) Streak {
	day := timeutil.StartOfDay(now)
	switch {
	case s.LastActive.IsZero():
		return Streak{Count: 1, LastActive: day}
	case timeutil.SameDay(s.LastActive, day):
		return Streak{Count: s.Count, LastActive: day}
	case timeutil.IsNextDay(s.LastActive, day):
		return Streak{Count: s.Count + 1, LastActive: day}
	default:
		return Streak{Count: 1, LastActive: day}
	}
}

// Advanced reports whether next represents a longer streak than s.
func (s Streak) Advanced(next Streak) bool {
	return next.Count > s.Count
}
