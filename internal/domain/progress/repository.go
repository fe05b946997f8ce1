package progress

import (
	"context"
	"errors"
)

// Entity validation errors.
var (
	ErrMissingStudent  = errors.New("progress: missing student id")
	ErrMissingLesson   = errors.New("progress: missing lesson reference")
	ErrScoreOutOfRange = errors.New("progress: score must be between 0 and 100")
	ErrNegativeXP      = errors.New("progress: xp cannot be negative")
)

// Repository defines persistence for the Progress Ledger.
type Repository interface {
	// RecordCompletion appends a ledger record. Returns created=false with no
	// error if a record already exists for (student, lesson, lang); the
	// uniqueness must be enforced by a store-level constraint so that two
	// concurrent identical submissions cannot both insert.
	RecordCompletion(ctx context.Context, rec *Record) (created bool, err error)

	// Get returns the record for (student, lesson, lang), or nil with no
	// error when the student has not passed that lesson.
	Get(ctx context.Context, studentID string, lessonID int, lessonLang string) (*Record, error)

	// CompletedLessons returns the set of lesson IDs the student has passed
	// in a language track.
	CompletedLessons(ctx context.Context, studentID, lessonLang string) (map[int]struct{}, error)

	// TotalXP sums xp across all of the student's records.
	TotalXP(ctx context.Context, studentID string) (int, error)
}

// StreakStore reads and writes the streak fields stored on the user row.
// Implemented by the user repository; split out so the streak tracker does
// not depend on the identity model.
type StreakStore interface {
	// GetStreak returns the stored streak for a student.
	GetStreak(ctx context.Context, studentID string) (Streak, error)

	// SaveStreak persists the streak fields for a student.
	SaveStreak(ctx context.Context, studentID string, s Streak) error
}
