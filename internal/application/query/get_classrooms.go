package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codeformaine/codecourse/internal/domain/classroom"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET CLASSROOMS QUERIES
// The "my classrooms" lists. Teachers see their join codes and member counts;
// students see the rooms they joined without codes or counts.
// ══════════════════════════════════════════════════════════════════════════════

// ClassroomDTO is one classroom card.
type ClassroomDTO struct {
	ClassroomID string    `json:"classroom_id"`
	Name        string    `json:"name"`
	Code        string    `json:"code,omitempty"`
	MemberCount int       `json:"member_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// GetTeacherClassroomsQuery contains the request parameters.
type GetTeacherClassroomsQuery struct {
	// TeacherID is whose classrooms to list.
	TeacherID string
}

// Validate validates the query.
func (q *GetTeacherClassroomsQuery) Validate() error {
	if q.TeacherID == "" {
		return errors.New("get_classrooms: teacher_id is required")
	}
	return nil
}

// GetTeacherClassroomsHandler handles the teacher-side list.
type GetTeacherClassroomsHandler struct {
	classroomRepo classroom.Repository
}

// NewGetTeacherClassroomsHandler creates a new handler.
func NewGetTeacherClassroomsHandler(classroomRepo classroom.Repository) *GetTeacherClassroomsHandler {
	return &GetTeacherClassroomsHandler{classroomRepo: classroomRepo}
}

// Handle executes the query.
func (h *GetTeacherClassroomsHandler) Handle(ctx context.Context, q GetTeacherClassroomsQuery) ([]ClassroomDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rooms, err := h.classroomRepo.ListByTeacher(ctx, q.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("get_classrooms: failed to list by teacher: %w", err)
	}

	dtos := make([]ClassroomDTO, 0, len(rooms))
	for _, room := range rooms {
		members, err := h.classroomRepo.MemberIDs(ctx, room.ID)
		if err != nil {
			return nil, fmt.Errorf("get_classrooms: failed to count members: %w", err)
		}
		dtos = append(dtos, ClassroomDTO{
			ClassroomID: room.ID,
			Name:        room.Name,
			Code:        room.Code.String(),
			MemberCount: len(members),
			CreatedAt:   room.CreatedAt,
		})
	}
	return dtos, nil
}

// GetStudentClassroomsQuery contains the request parameters.
type GetStudentClassroomsQuery struct {
	// StudentID is whose classrooms to list.
	StudentID string
}

// Validate validates the query.
func (q *GetStudentClassroomsQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("get_classrooms: student_id is required")
	}
	return nil
}

// GetStudentClassroomsHandler handles the student-side list.
type GetStudentClassroomsHandler struct {
	classroomRepo classroom.Repository
}

// NewGetStudentClassroomsHandler creates a new handler.
func NewGetStudentClassroomsHandler(classroomRepo classroom.Repository) *GetStudentClassroomsHandler {
	return &GetStudentClassroomsHandler{classroomRepo: classroomRepo}
}

// Handle executes the query.
func (h *GetStudentClassroomsHandler) Handle(ctx context.Context, q GetStudentClassroomsQuery) ([]ClassroomDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rooms, err := h.classroomRepo.ListForStudent(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get_classrooms: failed to list for student: %w", err)
	}

	dtos := make([]ClassroomDTO, 0, len(rooms))
	for _, room := range rooms {
		dtos = append(dtos, ClassroomDTO{
			ClassroomID: room.ID,
			Name:        room.Name,
			CreatedAt:   room.CreatedAt,
		})
	}
	return dtos, nil
}
