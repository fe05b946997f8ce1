package postgres

import (
	"context"
	"fmt"

	"github.com/codeformaine/codecourse/internal/domain/progress"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS LEDGER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProgressRepository implements progress.Repository for PostgreSQL.
// The table is append-only; the unique constraint on (student, lesson, lang)
// is what turns concurrent duplicate passes into a single ledger fact.
type ProgressRepository struct {
	conn *Connection
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(conn *Connection) *ProgressRepository {
	return &ProgressRepository{conn: conn}
}

// RecordCompletion appends a ledger record if one does not already exist.
func (r *ProgressRepository) RecordCompletion(ctx context.Context, rec *progress.Record) (bool, error) {
	if err := rec.Validate(); err != nil {
		return false, err
	}

	query := `
		INSERT INTO progress_records (student_id, lesson_id, lesson_lang, score, xp_earned, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (student_id, lesson_id, lesson_lang) DO NOTHING
	`

	result, err := r.conn.Exec(ctx, query,
		rec.StudentID,
		rec.LessonID,
		rec.LessonLang,
		rec.Score,
		rec.XP,
		rec.CompletedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record completion: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// Get returns the record for (student, lesson, lang), or nil when absent.
func (r *ProgressRepository) Get(ctx context.Context, studentID string, lessonID int, lessonLang string) (*progress.Record, error) {
	query := `
		SELECT student_id, lesson_id, lesson_lang, score, xp_earned, completed_at
		FROM progress_records
		WHERE student_id = $1 AND lesson_id = $2 AND lesson_lang = $3
	`

	var rec progress.Record
	err := r.conn.QueryRow(ctx, query, studentID, lessonID, lessonLang).Scan(
		&rec.StudentID,
		&rec.LessonID,
		&rec.LessonLang,
		&rec.Score,
		&rec.XP,
		&rec.CompletedAt,
	)

	if IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress record: %w", err)
	}

	return &rec, nil
}

// CompletedLessons returns the set of lesson IDs passed in a language track.
func (r *ProgressRepository) CompletedLessons(ctx context.Context, studentID, lessonLang string) (map[int]struct{}, error) {
	query := `
		SELECT lesson_id
		FROM progress_records
		WHERE student_id = $1 AND lesson_lang = $2
	`

	rows, err := r.conn.Query(ctx, query, studentID, lessonLang)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed lessons: %w", err)
	}
	defer rows.Close()

	completed := make(map[int]struct{})
	for rows.Next() {
		var lessonID int
		if err := rows.Scan(&lessonID); err != nil {
			return nil, fmt.Errorf("failed to scan lesson id: %w", err)
		}
		completed[lessonID] = struct{}{}
	}

	return completed, rows.Err()
}

// TotalXP sums xp across all of the student's records.
func (r *ProgressRepository) TotalXP(ctx context.Context, studentID string) (int, error) {
	var total int
	err := r.conn.QueryRow(ctx,
		"SELECT COALESCE(SUM(xp_earned), 0) FROM progress_records WHERE student_id = $1",
		studentID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum xp: %w", err)
	}
	return total, nil
}
