package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/codeformaine/codecourse/internal/domain/assignment"
	"github.com/codeformaine/codecourse/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSIGNMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AssignmentRepository implements assignment.Repository for PostgreSQL.
type AssignmentRepository struct {
	conn *Connection
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(conn *Connection) *AssignmentRepository {
	return &AssignmentRepository{conn: conn}
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, a *assignment.Assignment) error {
	query := `
		INSERT INTO assignments (id, classroom_id, lesson_id, lesson_lang, due_date, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var dueDate *time.Time
	if !a.DueDate.IsZero() {
		dueDate = &a.DueDate
	}

	_, err := r.conn.Exec(ctx, query,
		a.ID,
		a.ClassroomID,
		a.LessonID,
		a.LessonLang,
		dueDate,
		a.Note,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	return nil
}

// GetByID returns an assignment by ID.
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*assignment.Assignment, error) {
	query := `
		SELECT id, classroom_id, lesson_id, lesson_lang, due_date, note, created_at
		FROM assignments
		WHERE id = $1
	`

	return scanAssignment(r.conn.QueryRow(ctx, query, id))
}

// ListByClassroom returns a classroom's assignments, newest first.
func (r *AssignmentRepository) ListByClassroom(ctx context.Context, classroomID string) ([]*assignment.Assignment, error) {
	query := `
		SELECT id, classroom_id, lesson_id, lesson_lang, due_date, note, created_at
		FROM assignments
		WHERE classroom_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.conn.Query(ctx, query, classroomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*assignment.Assignment
	for rows.Next() {
		a, err := scanAssignmentFromRows(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBMISSION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SubmissionRepository implements assignment.SubmissionRepository for
// PostgreSQL.
type SubmissionRepository struct {
	conn *Connection
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(conn *Connection) *SubmissionRepository {
	return &SubmissionRepository{conn: conn}
}

const submissionColumns = `id, assignment_id, student_id, status, completed_at, score, grade_out_of_10`

// Reconcile brings the (assignmentID, studentID) row in line with the ledger
// facts. Runs as one transaction with two race-safe steps:
//
//  1. insert the row if absent, already carrying the completion facts when
//     the ledger has them, swallowing the unique-pair conflict;
//  2. when completion facts exist, promote any still-assigned row, with
//     COALESCE keeping an earlier completed_at/score if a concurrent call
//     got there first.
//
// Replaying the call with the same inputs changes nothing, and no input can
// move a completed row back to assigned. grade_out_of_10 is never touched.
func (r *SubmissionRepository) Reconcile(ctx context.Context, assignmentID, studentID string, c *assignment.Completion) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		status := assignment.StatusAssigned
		var completedAt *time.Time
		var score *int
		if c != nil {
			status = assignment.StatusCompleted
			completedAt = &c.CompletedAt
			score = &c.Score
		}

		insertQuery := `
			INSERT INTO assignment_submissions (id, assignment_id, student_id, status, completed_at, score)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (assignment_id, student_id) DO NOTHING
		`
		_, err := tx.Exec(ctx, insertQuery,
			uuid.New().String(),
			assignmentID,
			studentID,
			string(status),
			completedAt,
			score,
		)
		if err != nil {
			return fmt.Errorf("failed to insert submission: %w", err)
		}

		if c == nil {
			return nil
		}

		updateQuery := `
			UPDATE assignment_submissions
			SET status = 'completed',
			    completed_at = COALESCE(completed_at, $1),
			    score = COALESCE(score, $2)
			WHERE assignment_id = $3 AND student_id = $4 AND status <> 'completed'
		`
		_, err = tx.Exec(ctx, updateQuery, c.CompletedAt, c.Score, assignmentID, studentID)
		if err != nil {
			return fmt.Errorf("failed to complete submission: %w", err)
		}

		return nil
	})
}

// Get returns the submission for the unique pair.
func (r *SubmissionRepository) Get(ctx context.Context, assignmentID, studentID string) (*assignment.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM assignment_submissions
		WHERE assignment_id = $1 AND student_id = $2
	`

	return scanSubmission(r.conn.QueryRow(ctx, query, assignmentID, studentID))
}

// GetByID returns a submission by row ID.
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*assignment.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM assignment_submissions
		WHERE id = $1
	`

	return scanSubmission(r.conn.QueryRow(ctx, query, id))
}

// ListPending returns the student's not-yet-completed submissions whose
// assignment targets the given lesson, across all joined classrooms.
func (r *SubmissionRepository) ListPending(ctx context.Context, studentID string, lessonID int, lessonLang string) ([]*assignment.Submission, error) {
	query := `
		SELECT s.id, s.assignment_id, s.student_id, s.status, s.completed_at, s.score, s.grade_out_of_10
		FROM assignment_submissions s
		JOIN assignments a ON a.id = s.assignment_id
		WHERE s.student_id = $1
		  AND a.lesson_id = $2
		  AND a.lesson_lang = $3
		  AND s.status <> 'completed'
	`

	rows, err := r.conn.Query(ctx, query, studentID, lessonID, lessonLang)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending submissions: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// ListForStudent returns the student's submissions keyed by assignment ID.
func (r *SubmissionRepository) ListForStudent(ctx context.Context, studentID string) (map[string]*assignment.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM assignment_submissions
		WHERE student_id = $1
	`

	rows, err := r.conn.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for student: %w", err)
	}
	defer rows.Close()

	subs, err := scanSubmissions(rows)
	if err != nil {
		return nil, err
	}

	byAssignment := make(map[string]*assignment.Submission, len(subs))
	for _, s := range subs {
		byAssignment[s.AssignmentID] = s
	}

	return byAssignment, nil
}

// ListByClassroom returns all submissions for a classroom's assignments,
// newest assignment first, for the teacher's grading table.
func (r *SubmissionRepository) ListByClassroom(ctx context.Context, classroomID string) ([]*assignment.Submission, error) {
	query := `
		SELECT s.id, s.assignment_id, s.student_id, s.status, s.completed_at, s.score, s.grade_out_of_10
		FROM assignment_submissions s
		JOIN assignments a ON a.id = s.assignment_id
		WHERE a.classroom_id = $1
		ORDER BY a.created_at DESC, s.student_id ASC
	`

	rows, err := r.conn.Query(ctx, query, classroomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list classroom submissions: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// SetGrade writes the teacher's mark. Field-level update: status,
// completed_at and score stay whatever reconciliation made them.
func (r *SubmissionRepository) SetGrade(ctx context.Context, submissionID string, grade assignment.Grade) error {
	if !grade.IsValid() {
		return shared.ErrGradeOutOfRange
	}

	result, err := r.conn.Exec(ctx,
		"UPDATE assignment_submissions SET grade_out_of_10 = $1 WHERE id = $2",
		int(grade),
		submissionID,
	)
	if err != nil {
		return fmt.Errorf("failed to set grade: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrSubmissionNotFound
	}

	return nil
}

// Summarize aggregates total/completed counts per assignment for a classroom.
func (r *SubmissionRepository) Summarize(ctx context.Context, classroomID string) ([]assignment.ProgressSummary, error) {
	query := `
		SELECT a.id,
		       COUNT(s.id),
		       COUNT(s.id) FILTER (WHERE s.status = 'completed')
		FROM assignments a
		LEFT JOIN assignment_submissions s ON s.assignment_id = a.id
		WHERE a.classroom_id = $1
		GROUP BY a.id, a.created_at
		ORDER BY a.created_at DESC
	`

	rows, err := r.conn.Query(ctx, query, classroomID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize submissions: %w", err)
	}
	defer rows.Close()

	var summaries []assignment.ProgressSummary
	for rows.Next() {
		var s assignment.ProgressSummary
		if err := rows.Scan(&s.AssignmentID, &s.TotalSubmissions, &s.CompletedCount); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CommentRepository implements assignment.CommentRepository for PostgreSQL.
type CommentRepository struct {
	conn *Connection
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(conn *Connection) *CommentRepository {
	return &CommentRepository{conn: conn}
}

// Add appends a comment to a thread.
func (r *CommentRepository) Add(ctx context.Context, c *assignment.Comment) error {
	query := `
		INSERT INTO assignment_comments (assignment_id, student_id, author_role, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.conn.Exec(ctx, query,
		c.AssignmentID,
		c.StudentID,
		c.AuthorRole,
		c.Body,
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}

	return nil
}

// Thread returns the comments for one (assignment, student) pair, oldest
// first.
func (r *CommentRepository) Thread(ctx context.Context, assignmentID, studentID string) ([]*assignment.Comment, error) {
	query := `
		SELECT assignment_id, student_id, author_role, body, created_at
		FROM assignment_comments
		WHERE assignment_id = $1 AND student_id = $2
		ORDER BY created_at ASC
	`

	rows, err := r.conn.Query(ctx, query, assignmentID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment thread: %w", err)
	}
	defer rows.Close()

	var comments []*assignment.Comment
	for rows.Next() {
		var c assignment.Comment
		if err := rows.Scan(&c.AssignmentID, &c.StudentID, &c.AuthorRole, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &c)
	}

	return comments, rows.Err()
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER METHODS
// ══════════════════════════════════════════════════════════════════════════════

func scanAssignment(row pgx.Row) (*assignment.Assignment, error) {
	var a assignment.Assignment
	var dueDate *time.Time

	err := row.Scan(&a.ID, &a.ClassroomID, &a.LessonID, &a.LessonLang, &dueDate, &a.Note, &a.CreatedAt)

	if IsNoRows(err) {
		return nil, shared.ErrAssignmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan assignment: %w", err)
	}

	if dueDate != nil {
		a.DueDate = *dueDate
	}

	return &a, nil
}

func scanAssignmentFromRows(rows pgx.Rows) (*assignment.Assignment, error) {
	var a assignment.Assignment
	var dueDate *time.Time

	err := rows.Scan(&a.ID, &a.ClassroomID, &a.LessonID, &a.LessonLang, &dueDate, &a.Note, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan assignment: %w", err)
	}

	if dueDate != nil {
		a.DueDate = *dueDate
	}

	return &a, nil
}

func scanSubmission(row pgx.Row) (*assignment.Submission, error) {
	var s assignment.Submission
	var status string
	var grade *int

	err := row.Scan(&s.ID, &s.AssignmentID, &s.StudentID, &status, &s.CompletedAt, &s.Score, &grade)

	if IsNoRows(err) {
		return nil, shared.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan submission: %w", err)
	}

	s.Status = assignment.Status(status)
	if grade != nil {
		g := assignment.Grade(*grade)
		s.GradeOutOf10 = &g
	}

	return &s, nil
}

func scanSubmissions(rows pgx.Rows) ([]*assignment.Submission, error) {
	var subs []*assignment.Submission

	for rows.Next() {
		var s assignment.Submission
		var status string
		var grade *int

		err := rows.Scan(&s.ID, &s.AssignmentID, &s.StudentID, &status, &s.CompletedAt, &s.Score, &grade)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}

		s.Status = assignment.Status(status)
		if grade != nil {
			g := assignment.Grade(*grade)
			s.GradeOutOf10 = &g
		}

		subs = append(subs, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return subs, nil
}
