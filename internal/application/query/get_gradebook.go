package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codeformaine/codecourse/internal/domain/assignment"
	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET GRADEBOOK QUERY
// The teacher's grading table: every submission in the classroom, grouped by
// assignment, with student names resolved. Ownership-gated.
// ══════════════════════════════════════════════════════════════════════════════

// GetGradebookQuery contains the request parameters.
type GetGradebookQuery struct {
	// TeacherID is the caller; must own the classroom.
	TeacherID string

	// ClassroomID names the classroom.
	ClassroomID string
}

// Validate validates the query.
func (q *GetGradebookQuery) Validate() error {
	if q.TeacherID == "" {
		return errors.New("get_gradebook: teacher_id is required")
	}
	if q.ClassroomID == "" {
		return errors.New("get_gradebook: classroom_id is required")
	}
	return nil
}

// GradebookRowDTO is one submission row in the grading table.
type GradebookRowDTO struct {
	SubmissionID string     `json:"submission_id"`
	AssignmentID string     `json:"assignment_id"`
	LessonKey    string     `json:"lesson_key"`
	StudentID    string     `json:"student_id"`
	StudentName  string     `json:"student_name"`
	Status       string     `json:"status"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Score        *int       `json:"score,omitempty"`
	Grade        *int       `json:"grade,omitempty"`
}

// GetGradebookHandler handles the query.
type GetGradebookHandler struct {
	classroomRepo  classroom.Repository
	userRepo       user.Repository
	assignmentRepo assignment.Repository
	submissionRepo assignment.SubmissionRepository
}

// NewGetGradebookHandler creates a new handler.
func NewGetGradebookHandler(
	classroomRepo classroom.Repository,
	userRepo user.Repository,
	assignmentRepo assignment.Repository,
	submissionRepo assignment.SubmissionRepository,
) *GetGradebookHandler {
	return &GetGradebookHandler{
		classroomRepo:  classroomRepo,
		userRepo:       userRepo,
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
	}
}

// Handle executes the query.
func (h *GetGradebookHandler) Handle(ctx context.Context, q GetGradebookQuery) ([]GradebookRowDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	room, err := h.classroomRepo.GetByID(ctx, q.ClassroomID)
	if err != nil {
		return nil, err
	}
	if !room.OwnedBy(q.TeacherID) {
		return nil, shared.NewDomainError("classroom", "GetGradebook", shared.ErrNotClassroomOwner,
			"only the owning teacher can view the gradebook")
	}

	assignments, err := h.assignmentRepo.ListByClassroom(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("get_gradebook: failed to list assignments: %w", err)
	}
	lessonKeys := make(map[string]string, len(assignments))
	for _, a := range assignments {
		lessonKeys[a.ID] = a.LessonKey()
	}

	submissions, err := h.submissionRepo.ListByClassroom(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("get_gradebook: failed to list submissions: %w", err)
	}

	// Student names resolved once per student, not per row.
	names := make(map[string]string)
	rows := make([]GradebookRowDTO, 0, len(submissions))
	for _, sub := range submissions {
		name, ok := names[sub.StudentID]
		if !ok {
			u, err := h.userRepo.GetByID(ctx, sub.StudentID)
			if err != nil {
				return nil, fmt.Errorf("get_gradebook: failed to load student %s: %w", sub.StudentID, err)
			}
			name = u.Name
			names[sub.StudentID] = name
		}

		row := GradebookRowDTO{
			SubmissionID: sub.ID,
			AssignmentID: sub.AssignmentID,
			LessonKey:    lessonKeys[sub.AssignmentID],
			StudentID:    sub.StudentID,
			StudentName:  name,
			Status:       string(sub.Status),
			CompletedAt:  sub.CompletedAt,
			Score:        sub.Score,
		}
		if sub.GradeOutOf10 != nil {
			g := int(*sub.GradeOutOf10)
			row.Grade = &g
		}
		rows = append(rows, row)
	}

	return rows, nil
}
