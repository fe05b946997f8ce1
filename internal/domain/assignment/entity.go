// Package assignment contains teacher-authored assignments and the per-student
// submission projection.
//
// A Submission is derived state: its status/completedAt/score must always
// equal what the matching progress ledger record implies, no matter the order
// in which join / assign / complete events arrive. The one exception is
// GradeOutOf10, which is an independent teacher-set field with no derivation
// rule. Reconciliation (see Repository.Reconcile) is the only way the derived
// fields move, and it only moves them forward: once completed, a submission
// stays completed and its completedAt/score never change.
package assignment

import (
	"strconv"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Status is a submission's completion state.
type Status string

const (
	// StatusAssigned - the lesson has been assigned but not passed.
	StatusAssigned Status = "assigned"
	// StatusCompleted - the ledger holds a passing record for the lesson.
	StatusCompleted Status = "completed"
)

// IsValid reports whether the status is a known state.
func (s Status) IsValid() bool {
	return s == StatusAssigned || s == StatusCompleted
}

// Grade is a teacher-assigned mark out of ten.
type Grade int

// GradeBounds for teacher marks.
const (
	MinGrade Grade = 0
	MaxGrade Grade = 10
)

// IsValid reports whether the grade is within bounds.
func (g Grade) IsValid() bool {
	return g >= MinGrade && g <= MaxGrade
}

// Completion carries the ledger facts a submission is reconciled against.
type Completion struct {
	CompletedAt time.Time
	Score       int
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Assignment is a teacher's directive that a classroom complete a specific
// lesson. Assignments are immutable once created; there is no edit path.
type Assignment struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// ClassroomID - the classroom this assignment belongs to.
	ClassroomID string

	// LessonID - lesson identifier within the language track.
	LessonID int

	// LessonLang - language track identifier (e.g. "python").
	LessonLang string

	// DueDate - optional deadline; zero means no deadline.
	DueDate time.Time

	// Note - optional teacher note shown with the assignment.
	Note string

	// CreatedAt - when the assignment was posted.
	CreatedAt time.Time
}

// Validate checks entity invariants.
func (a *Assignment) Validate() error {
	if a.ID == "" || a.ClassroomID == "" {
		return ErrMissingClassroom
	}
	if a.LessonID <= 0 || strings.TrimSpace(a.LessonLang) == "" {
		return ErrMissingLesson
	}
	return nil
}

// LessonKey renders the (lang, id) pair the way feeds display it.
func (a *Assignment) LessonKey() string {
	return strings.ToUpper(a.LessonLang) + " Lesson " + strconv.Itoa(a.LessonID)
}

// Submission tracks one student's completion state for one assignment.
// The (AssignmentID, StudentID) pair is unique.
type Submission struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// AssignmentID / StudentID - the unique pair this row tracks.
	AssignmentID string
	StudentID    string

	// Status - derived from the progress ledger, monotonic.
	Status Status

	// CompletedAt - set once when the submission first completes; nil before.
	CompletedAt *time.Time

	// Score - quiz score copied from the ledger record; nil before completion.
	Score *int

	// GradeOutOf10 - teacher-set mark, independent of reconciliation;
	// nil until graded.
	GradeOutOf10 *Grade
}

// IsCompleted reports whether the submission has reached its terminal state.
func (s *Submission) IsCompleted() bool {
	return s.Status == StatusCompleted
}

// Comment is one entry in the per-(assignment, student) discussion thread.
type Comment struct {
	AssignmentID string
	StudentID    string
	AuthorRole   string // "Student" or "Teacher"
	Body         string
	CreatedAt    time.Time
}

// ProgressSummary aggregates completion counts for one assignment,
// for the teacher's grading overview.
type ProgressSummary struct {
	AssignmentID     string
	TotalSubmissions int
	CompletedCount   int
}
