package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codeformaine/codecourse/internal/domain/assignment"
	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/feed"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET CLASSROOM OVERVIEW QUERY
// The teacher's view of one classroom: roster, invites, assignments with
// completion counts, and the full stream including student-scoped grade posts.
// Ownership-gated; only the owning teacher sees this.
// ══════════════════════════════════════════════════════════════════════════════

// GetClassroomOverviewQuery contains the request parameters.
type GetClassroomOverviewQuery struct {
	// TeacherID is the caller; must own the classroom.
	TeacherID string

	// ClassroomID names the classroom.
	ClassroomID string

	// StreamLimit caps the stream slice (default: feed.StreamWindow).
	StreamLimit int
}

// Validate validates the query and applies defaults.
func (q *GetClassroomOverviewQuery) Validate() error {
	if q.TeacherID == "" {
		return errors.New("get_classroom_overview: teacher_id is required")
	}
	if q.ClassroomID == "" {
		return errors.New("get_classroom_overview: classroom_id is required")
	}
	if q.StreamLimit <= 0 {
		q.StreamLimit = feed.StreamWindow
	}
	return nil
}

// MemberDTO is one roster entry.
type MemberDTO struct {
	StudentID   string `json:"student_id"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Avatar      string `json:"avatar,omitempty"`
	StreakCount int    `json:"streak_count"`
}

// InviteDTO is one pending invite bookmark.
type InviteDTO struct {
	Email     string    `json:"email"`
	InvitedAt time.Time `json:"invited_at"`
}

// AssignmentSummaryDTO is one assignment with its completion counts.
type AssignmentSummaryDTO struct {
	AssignmentID string     `json:"assignment_id"`
	LessonID     int        `json:"lesson_id"`
	LessonLang   string     `json:"lesson_lang"`
	LessonKey    string     `json:"lesson_key"`
	Note         string     `json:"note,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	Completed    int        `json:"completed"`
	Total        int        `json:"total"`
}

// ClassroomOverviewDTO is the full teacher payload.
type ClassroomOverviewDTO struct {
	ClassroomID string                 `json:"classroom_id"`
	Name        string                 `json:"name"`
	Code        string                 `json:"code"`
	CreatedAt   time.Time              `json:"created_at"`
	Members     []MemberDTO            `json:"members"`
	Invites     []InviteDTO            `json:"invites,omitempty"`
	Assignments []AssignmentSummaryDTO `json:"assignments"`
	Stream      []StreamPostDTO        `json:"stream"`
}

// GetClassroomOverviewHandler handles the query.
type GetClassroomOverviewHandler struct {
	classroomRepo  classroom.Repository
	userRepo       user.Repository
	assignmentRepo assignment.Repository
	submissionRepo assignment.SubmissionRepository
	streamRepo     feed.StreamRepository
}

// NewGetClassroomOverviewHandler creates a new handler.
func NewGetClassroomOverviewHandler(
	classroomRepo classroom.Repository,
	userRepo user.Repository,
	assignmentRepo assignment.Repository,
	submissionRepo assignment.SubmissionRepository,
	streamRepo feed.StreamRepository,
) *GetClassroomOverviewHandler {
	return &GetClassroomOverviewHandler{
		classroomRepo:  classroomRepo,
		userRepo:       userRepo,
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		streamRepo:     streamRepo,
	}
}

// Handle executes the query.
func (h *GetClassroomOverviewHandler) Handle(ctx context.Context, q GetClassroomOverviewQuery) (*ClassroomOverviewDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	room, err := h.classroomRepo.GetByID(ctx, q.ClassroomID)
	if err != nil {
		return nil, err
	}
	if !room.OwnedBy(q.TeacherID) {
		return nil, shared.NewDomainError("classroom", "GetOverview", shared.ErrNotClassroomOwner,
			"only the owning teacher can view the classroom overview")
	}

	dto := &ClassroomOverviewDTO{
		ClassroomID: room.ID,
		Name:        room.Name,
		Code:        room.Code.String(),
		CreatedAt:   room.CreatedAt,
	}

	memberIDs, err := h.classroomRepo.MemberIDs(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("get_classroom_overview: failed to list members: %w", err)
	}
	dto.Members = make([]MemberDTO, 0, len(memberIDs))
	for _, id := range memberIDs {
		u, err := h.userRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get_classroom_overview: failed to load member %s: %w", id, err)
		}
		dto.Members = append(dto.Members, MemberDTO{
			StudentID:   u.ID,
			Name:        u.Name,
			Username:    u.Username,
			Avatar:      u.Avatar,
			StreakCount: u.StreakCount,
		})
	}

	invites, err := h.classroomRepo.ListInvites(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("get_classroom_overview: failed to list invites: %w", err)
	}
	for _, inv := range invites {
		dto.Invites = append(dto.Invites, InviteDTO{Email: inv.Email, InvitedAt: inv.InvitedAt})
	}

	assignments, err := h.assignmentRepo.ListByClassroom(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("get_classroom_overview: failed to list assignments: %w", err)
	}
	summaries, err := h.submissionRepo.Summarize(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("get_classroom_overview: failed to summarize submissions: %w", err)
	}
	counts := make(map[string]assignment.ProgressSummary, len(summaries))
	for _, s := range summaries {
		counts[s.AssignmentID] = s
	}
	dto.Assignments = make([]AssignmentSummaryDTO, 0, len(assignments))
	for _, a := range assignments {
		entry := AssignmentSummaryDTO{
			AssignmentID: a.ID,
			LessonID:     a.LessonID,
			LessonLang:   a.LessonLang,
			LessonKey:    a.LessonKey(),
			Note:         a.Note,
			CreatedAt:    a.CreatedAt,
		}
		if !a.DueDate.IsZero() {
			due := a.DueDate
			entry.DueDate = &due
		}
		if s, ok := counts[a.ID]; ok {
			entry.Completed = s.CompletedCount
			entry.Total = s.TotalSubmissions
		}
		dto.Assignments = append(dto.Assignments, entry)
	}

	posts, err := h.streamRepo.ClassroomFeed(ctx, room.ID, q.StreamLimit)
	if err != nil {
		return nil, fmt.Errorf("get_classroom_overview: failed to load stream: %w", err)
	}
	dto.Stream = toStreamPostDTOs(posts)

	return dto, nil
}
