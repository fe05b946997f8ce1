// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codeformaine/codecourse/internal/domain/assignment"
	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDENT ASSIGNMENTS QUERY
// The student's classwork list across every joined classroom: each
// assignment paired with their own submission state, flagged overdue where a
// deadline has passed without completion.
// ══════════════════════════════════════════════════════════════════════════════

// GetStudentAssignmentsQuery contains the request parameters.
type GetStudentAssignmentsQuery struct {
	// StudentID is whose assignments to list.
	StudentID string

	// ClassroomID optionally restricts to one classroom.
	ClassroomID string
}

// Validate validates the query.
func (q *GetStudentAssignmentsQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("get_student_assignments: student_id is required")
	}
	return nil
}

// StudentAssignmentDTO is one assignment with the student's own state.
type StudentAssignmentDTO struct {
	AssignmentID  string     `json:"assignment_id"`
	ClassroomID   string     `json:"classroom_id"`
	ClassroomName string     `json:"classroom_name"`
	LessonID      int        `json:"lesson_id"`
	LessonLang    string     `json:"lesson_lang"`
	LessonKey     string     `json:"lesson_key"`
	Note          string     `json:"note,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	DueLabel      string     `json:"due_label,omitempty"`
	Status        string     `json:"status"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Score         *int       `json:"score,omitempty"`
	Grade         *int       `json:"grade,omitempty"`
	Overdue       bool       `json:"overdue"`
}

// GetStudentAssignmentsHandler handles the query.
type GetStudentAssignmentsHandler struct {
	classroomRepo  classroom.Repository
	assignmentRepo assignment.Repository
	submissionRepo assignment.SubmissionRepository
}

// NewGetStudentAssignmentsHandler creates a new handler.
func NewGetStudentAssignmentsHandler(
	classroomRepo classroom.Repository,
	assignmentRepo assignment.Repository,
	submissionRepo assignment.SubmissionRepository,
) *GetStudentAssignmentsHandler {
	return &GetStudentAssignmentsHandler{
		classroomRepo:  classroomRepo,
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
	}
}

// Handle executes the query.
func (h *GetStudentAssignmentsHandler) Handle(ctx context.Context, q GetStudentAssignmentsQuery) ([]StudentAssignmentDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rooms, err := h.classroomRepo.ListForStudent(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get_student_assignments: failed to list classrooms: %w", err)
	}

	submissions, err := h.submissionRepo.ListForStudent(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get_student_assignments: failed to list submissions: %w", err)
	}

	now := timeutil.Now()
	var result []StudentAssignmentDTO

	for _, room := range rooms {
		if q.ClassroomID != "" && room.ID != q.ClassroomID {
			continue
		}

		assignments, err := h.assignmentRepo.ListByClassroom(ctx, room.ID)
		if err != nil {
			return nil, fmt.Errorf("get_student_assignments: failed to list assignments: %w", err)
		}

		for _, a := range assignments {
			dto := StudentAssignmentDTO{
				AssignmentID:  a.ID,
				ClassroomID:   room.ID,
				ClassroomName: room.Name,
				LessonID:      a.LessonID,
				LessonLang:    a.LessonLang,
				LessonKey:     a.LessonKey(),
				Note:          a.Note,
				Status:        string(assignment.StatusAssigned),
			}

			if !a.DueDate.IsZero() {
				due := a.DueDate
				dto.DueDate = &due
				dto.DueLabel = timeutil.FormatRelativeDay(due)
			}

			if sub, ok := submissions[a.ID]; ok {
				dto.Status = string(sub.Status)
				dto.CompletedAt = sub.CompletedAt
				dto.Score = sub.Score
				if sub.GradeOutOf10 != nil {
					g := int(*sub.GradeOutOf10)
					dto.Grade = &g
				}
				dto.Overdue = !sub.IsCompleted() && timeutil.IsOverdue(a.DueDate, now)
			} else {
				dto.Overdue = timeutil.IsOverdue(a.DueDate, now)
			}

			result = append(result, dto)
		}
	}

	return result, nil
}
