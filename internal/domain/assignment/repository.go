package assignment

import (
	"context"
	"errors"
)

// Entity validation errors.
var (
	ErrMissingClassroom = errors.New("assignment: missing id or classroom id")
	ErrMissingLesson    = errors.New("assignment: missing lesson reference")
)

// Repository defines persistence operations for assignments.
type Repository interface {
	// Create inserts a new assignment.
	Create(ctx context.Context, a *Assignment) error

	// GetByID returns an assignment by ID.
	GetByID(ctx context.Context, id string) (*Assignment, error)

	// ListByClassroom returns a classroom's assignments, newest first.
	ListByClassroom(ctx context.Context, classroomID string) ([]*Assignment, error)
}

// SubmissionRepository defines persistence for the submission projection.
//
// Reconcile is the single write path for the derived fields. Implementations
// must run it as one transaction made of two race-safe steps:
//
//  1. insert the row if absent (conflict on the unique pair is ignored) with
//     status/completedAt/score taken from the completion facts, and
//  2. if completion facts are present, a conditional update guarded by
//     status <> 'completed' that sets status/completedAt/score, never
//     overwriting an already-set completedAt or score.
//
// Repeating the call with the same inputs must leave the row byte-identical,
// and no sequence of calls may move a completed submission back to assigned.
// GradeOutOf10 is out of Reconcile's reach entirely: it is written only by
// SetGrade, as a field-level update that touches nothing else.
type SubmissionRepository interface {
	// Reconcile brings the (assignmentID, studentID) submission in line with
	// the ledger facts. A nil completion means the ledger has no passing
	// record; the row is created as assigned if absent and otherwise left
	// alone.
	Reconcile(ctx context.Context, assignmentID, studentID string, c *Completion) error

	// Get returns the submission for the unique pair, or a not-found error.
	Get(ctx context.Context, assignmentID, studentID string) (*Submission, error)

	// GetByID returns a submission by row ID.
	GetByID(ctx context.Context, id string) (*Submission, error)

	// ListPending returns the student's not-yet-completed submissions whose
	// assignment targets the given lesson, across all joined classrooms.
	ListPending(ctx context.Context, studentID string, lessonID int, lessonLang string) ([]*Submission, error)

	// ListForStudent returns the student's submissions keyed by assignment ID.
	ListForStudent(ctx context.Context, studentID string) (map[string]*Submission, error)

	// ListByClassroom returns all submissions for a classroom's assignments,
	// newest first, for the teacher's grading table.
	ListByClassroom(ctx context.Context, classroomID string) ([]*Submission, error)

	// SetGrade writes the teacher's mark as a field-level update.
	SetGrade(ctx context.Context, submissionID string, grade Grade) error

	// Summarize aggregates total/completed counts per assignment for a
	// classroom.
	Summarize(ctx context.Context, classroomID string) ([]ProgressSummary, error)
}

// CommentRepository stores per-(assignment, student) discussion threads.
type CommentRepository interface {
	// Add appends a comment to a thread.
	Add(ctx context.Context, c *Comment) error

	// Thread returns the comments for one (assignment, student) pair,
	// oldest first.
	Thread(ctx context.Context, assignmentID, studentID string) ([]*Comment, error)
}
