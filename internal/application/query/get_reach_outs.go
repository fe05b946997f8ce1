package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codeformaine/codecourse/internal/domain/feed"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET REACH OUTS QUERY
// The outreach log for a student: every direct teacher message, newest first.
// The HTTP layer restricts this to the student's own log.
// ══════════════════════════════════════════════════════════════════════════════

// GetReachOutsQuery contains the request parameters.
type GetReachOutsQuery struct {
	// StudentID is whose outreach log to read.
	StudentID string
}

// Validate validates the query.
func (q *GetReachOutsQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("get_reach_outs: student_id is required")
	}
	return nil
}

// ReachOutDTO is one outreach entry.
type ReachOutDTO struct {
	TeacherID string    `json:"teacher_id"`
	Message   string    `json:"message"`
	SentAt    time.Time `json:"sent_at"`
}

// GetReachOutsHandler handles the query.
type GetReachOutsHandler struct {
	reachOutRepo feed.ReachOutRepository
}

// NewGetReachOutsHandler creates a new handler.
func NewGetReachOutsHandler(reachOutRepo feed.ReachOutRepository) *GetReachOutsHandler {
	return &GetReachOutsHandler{reachOutRepo: reachOutRepo}
}

// Handle executes the query.
func (h *GetReachOutsHandler) Handle(ctx context.Context, q GetReachOutsQuery) ([]ReachOutDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	items, err := h.reachOutRepo.ListForStudent(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get_reach_outs: failed to load log: %w", err)
	}

	dtos := make([]ReachOutDTO, 0, len(items))
	for _, ro := range items {
		dtos = append(dtos, ReachOutDTO{
			TeacherID: ro.TeacherID,
			Message:   ro.Message,
			SentAt:    ro.SentAt,
		})
	}
	return dtos, nil
}
