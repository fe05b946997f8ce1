package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/codeformaine/codecourse/internal/domain/progress"
	"github.com/codeformaine/codecourse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDENT PROGRESS QUERY
// The student dashboard numbers: total XP, the completed-lesson set for a
// language track, and the current streak.
// ══════════════════════════════════════════════════════════════════════════════

// GetStudentProgressQuery contains the request parameters.
type GetStudentProgressQuery struct {
	// StudentID is whose progress to report.
	StudentID string

	// LessonLang optionally names a language track for the completed set.
	LessonLang string
}

// Validate validates the query.
func (q *GetStudentProgressQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("get_student_progress: student_id is required")
	}
	q.LessonLang = strings.ToLower(strings.TrimSpace(q.LessonLang))
	return nil
}

// StudentProgressDTO is the dashboard payload.
type StudentProgressDTO struct {
	TotalXP          int    `json:"total_xp"`
	CompletedLessons []int  `json:"completed_lessons,omitempty"`
	StreakCount      int    `json:"streak_count"`
	ActiveToday      bool   `json:"active_today"`
	LastActiveDay    string `json:"last_active_day,omitempty"`
}

// GetStudentProgressHandler handles the query.
type GetStudentProgressHandler struct {
	progressRepo progress.Repository
	streakStore  progress.StreakStore
}

// NewGetStudentProgressHandler creates a new handler.
func NewGetStudentProgressHandler(progressRepo progress.Repository, streakStore progress.StreakStore) *GetStudentProgressHandler {
	return &GetStudentProgressHandler{progressRepo: progressRepo, streakStore: streakStore}
}

// Handle executes the query.
func (h *GetStudentProgressHandler) Handle(ctx context.Context, q GetStudentProgressQuery) (*StudentProgressDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	xp, err := h.progressRepo.TotalXP(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get_student_progress: failed to sum xp: %w", err)
	}

	dto := &StudentProgressDTO{TotalXP: xp}

	if q.LessonLang != "" {
		done, err := h.progressRepo.CompletedLessons(ctx, q.StudentID, q.LessonLang)
		if err != nil {
			return nil, fmt.Errorf("get_student_progress: failed to load completed set: %w", err)
		}
		ids := make([]int, 0, len(done))
		for id := range done {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		dto.CompletedLessons = ids
	}

	streak, err := h.streakStore.GetStreak(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get_student_progress: failed to load streak: %w", err)
	}
	dto.StreakCount = streak.Count
	if !streak.LastActive.IsZero() {
		dto.ActiveToday = timeutil.SameDay(streak.LastActive, timeutil.Now())
		dto.LastActiveDay = timeutil.DayKey(streak.LastActive)
	}

	return dto, nil
}
