package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codeformaine/codecourse/internal/domain/assignment"
	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET COMMENT THREAD QUERY
// The private discussion on one (assignment, student) pair. Visible to the
// student on the thread and to the classroom's owning teacher, nobody else.
// ══════════════════════════════════════════════════════════════════════════════

// GetCommentThreadQuery contains the request parameters.
type GetCommentThreadQuery struct {
	// CallerID is who is asking.
	CallerID string

	// AssignmentID / StudentID name the thread.
	AssignmentID string
	StudentID    string
}

// Validate validates the query.
func (q *GetCommentThreadQuery) Validate() error {
	if q.CallerID == "" {
		return errors.New("get_comment_thread: caller_id is required")
	}
	if q.AssignmentID == "" || q.StudentID == "" {
		return errors.New("get_comment_thread: assignment_id and student_id are required")
	}
	return nil
}

// CommentDTO is one thread entry.
type CommentDTO struct {
	AuthorRole string    `json:"author_role"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// GetCommentThreadHandler handles the query.
type GetCommentThreadHandler struct {
	assignmentRepo assignment.Repository
	classroomRepo  classroom.Repository
	commentRepo    assignment.CommentRepository
}

// NewGetCommentThreadHandler creates a new handler.
func NewGetCommentThreadHandler(
	assignmentRepo assignment.Repository,
	classroomRepo classroom.Repository,
	commentRepo assignment.CommentRepository,
) *GetCommentThreadHandler {
	return &GetCommentThreadHandler{
		assignmentRepo: assignmentRepo,
		classroomRepo:  classroomRepo,
		commentRepo:    commentRepo,
	}
}

// Handle executes the query.
func (h *GetCommentThreadHandler) Handle(ctx context.Context, q GetCommentThreadQuery) ([]CommentDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if q.CallerID != q.StudentID {
		a, err := h.assignmentRepo.GetByID(ctx, q.AssignmentID)
		if err != nil {
			return nil, err
		}
		room, err := h.classroomRepo.GetByID(ctx, a.ClassroomID)
		if err != nil {
			return nil, err
		}
		if !room.OwnedBy(q.CallerID) {
			return nil, shared.NewDomainError("assignment", "GetThread", shared.ErrForbidden,
				"comment threads are visible only to the student and the owning teacher")
		}
	}

	comments, err := h.commentRepo.Thread(ctx, q.AssignmentID, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get_comment_thread: failed to load thread: %w", err)
	}

	dtos := make([]CommentDTO, 0, len(comments))
	for _, c := range comments {
		dtos = append(dtos, CommentDTO{
			AuthorRole: c.AuthorRole,
			Body:       c.Body,
			CreatedAt:  c.CreatedAt,
		})
	}
	return dtos, nil
}
