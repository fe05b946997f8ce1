package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/feed"
	"github.com/codeformaine/codecourse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDENT FEED QUERY
// The student's merged stream across every joined classroom. Grade posts only
// appear when addressed to the student; the filtering lives in the store query
// and this handler never sees other students' grades.
// ══════════════════════════════════════════════════════════════════════════════

// GetStudentFeedQuery contains the request parameters.
type GetStudentFeedQuery struct {
	// StudentID is whose feed to build.
	StudentID string

	// Limit caps the number of posts (default: feed.StreamWindow).
	Limit int
}

// Validate validates the query and applies defaults.
func (q *GetStudentFeedQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("get_student_feed: student_id is required")
	}
	if q.Limit <= 0 || q.Limit > feed.StreamWindow {
		q.Limit = feed.StreamWindow
	}
	return nil
}

// StreamPostDTO is one stream entry for API responses.
type StreamPostDTO struct {
	ID          string    `json:"id"`
	ClassroomID string    `json:"classroom_id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Body        string    `json:"body,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	DayLabel    string    `json:"day_label"`
}

// GetStudentFeedHandler handles the query.
type GetStudentFeedHandler struct {
	classroomRepo classroom.Repository
	streamRepo    feed.StreamRepository
}

// NewGetStudentFeedHandler creates a new handler.
func NewGetStudentFeedHandler(classroomRepo classroom.Repository, streamRepo feed.StreamRepository) *GetStudentFeedHandler {
	return &GetStudentFeedHandler{classroomRepo: classroomRepo, streamRepo: streamRepo}
}

// Handle executes the query.
func (h *GetStudentFeedHandler) Handle(ctx context.Context, q GetStudentFeedQuery) ([]StreamPostDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rooms, err := h.classroomRepo.ListForStudent(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get_student_feed: failed to list classrooms: %w", err)
	}
	if len(rooms) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(rooms))
	for _, room := range rooms {
		ids = append(ids, room.ID)
	}

	posts, err := h.streamRepo.StudentFeed(ctx, ids, q.StudentID, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("get_student_feed: failed to load stream: %w", err)
	}

	return toStreamPostDTOs(posts), nil
}

func toStreamPostDTOs(posts []*feed.StreamPost) []StreamPostDTO {
	dtos := make([]StreamPostDTO, 0, len(posts))
	for _, p := range posts {
		dtos = append(dtos, StreamPostDTO{
			ID:          p.ID,
			ClassroomID: p.ClassroomID,
			Kind:        string(p.Kind),
			Title:       p.Title,
			Body:        p.Body,
			CreatedAt:   p.CreatedAt,
			DayLabel:    timeutil.FormatRelativeDay(p.CreatedAt),
		})
	}
	return dtos
}
