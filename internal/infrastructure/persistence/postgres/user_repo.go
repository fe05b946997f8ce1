package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/codeformaine/codecourse/internal/domain/progress"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/internal/domain/user"
	"github.com/codeformaine/codecourse/pkg/timeutil"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// UserRepository implements user.Repository and progress.StreakStore for
// PostgreSQL. The streak fields live on the user row, so both interfaces
// share one table.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

const userColumns = `id, name, username, email, password_hash, role, avatar,
	   streak_count, last_active_date, created_at`

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, name, username, email, password_hash, role, avatar, streak_count, last_active_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var lastActive *time.Time
	if !u.LastActiveDate.IsZero() {
		lastActive = &u.LastActiveDate
	}

	_, err := r.conn.Exec(ctx, query,
		u.ID,
		u.Name,
		u.Username,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		u.Avatar,
		u.StreakCount,
		lastActive,
		u.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID returns a user by internal ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.conn.QueryRow(ctx, query, id))
}

// GetByUsername returns a user by login handle.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(r.conn.QueryRow(ctx, query, username))
}

// GetByEmail returns a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.conn.QueryRow(ctx, query, email))
}

// ─────────────────────────────────────────────────────────────────────────────
// Streak Store
// ─────────────────────────────────────────────────────────────────────────────

// GetStreak returns the stored streak for a student.
func (r *UserRepository) GetStreak(ctx context.Context, studentID string) (progress.Streak, error) {
	query := `SELECT streak_count, last_active_date FROM users WHERE id = $1`

	var streak progress.Streak
	var lastActive *time.Time

	err := r.conn.QueryRow(ctx, query, studentID).Scan(&streak.Count, &lastActive)
	if IsNoRows(err) {
		return progress.Streak{}, shared.ErrUserNotFound
	}
	if err != nil {
		return progress.Streak{}, fmt.Errorf("failed to get streak: %w", err)
	}

	if lastActive != nil {
		streak.LastActive = dateInSchoolTZ(*lastActive)
	}

	return streak, nil
}

// SaveStreak persists the streak fields for a student.
func (r *UserRepository) SaveStreak(ctx context.Context, studentID string, s progress.Streak) error {
	query := `UPDATE users SET streak_count = $1, last_active_date = $2 WHERE id = $3`

	var lastActive *time.Time
	if !s.LastActive.IsZero() {
		lastActive = &s.LastActive
	}

	result, err := r.conn.Exec(ctx, query, s.Count, lastActive, studentID)
	if err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrUserNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *UserRepository) scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	var role string
	var lastActive *time.Time

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.Avatar,
		&u.StreakCount,
		&lastActive,
		&u.CreatedAt,
	)

	if IsNoRows(err) {
		return nil, shared.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	u.Role = user.Role(role)
	if lastActive != nil {
		u.LastActiveDate = dateInSchoolTZ(*lastActive)
	}

	return &u, nil
}

// dateInSchoolTZ re-anchors a DATE value (scanned as UTC midnight) to the
// start of the same calendar day in the school timezone, so day arithmetic
// against timeutil.Today stays consistent.
func dateInSchoolTZ(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, timeutil.SchoolTZ)
}
