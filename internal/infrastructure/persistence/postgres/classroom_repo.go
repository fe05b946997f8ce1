package postgres

import (
	"context"
	"fmt"

	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLASSROOM REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ClassroomRepository implements classroom.Repository for PostgreSQL.
type ClassroomRepository struct {
	conn *Connection
}

// NewClassroomRepository creates a new ClassroomRepository.
func NewClassroomRepository(conn *Connection) *ClassroomRepository {
	return &ClassroomRepository{conn: conn}
}

// Create inserts a new classroom. A join code collision surfaces as
// shared.ErrCodeTaken so the caller can regenerate and retry.
func (r *ClassroomRepository) Create(ctx context.Context, c *classroom.Classroom) error {
	query := `
		INSERT INTO classrooms (id, teacher_id, name, code, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.conn.Exec(ctx, query,
		c.ID,
		c.TeacherID,
		c.Name,
		c.Code.String(),
		c.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrCodeTaken
		}
		return fmt.Errorf("failed to create classroom: %w", err)
	}

	return nil
}

// GetByID returns a classroom by ID.
func (r *ClassroomRepository) GetByID(ctx context.Context, id string) (*classroom.Classroom, error) {
	query := `
		SELECT id, teacher_id, name, code, created_at
		FROM classrooms
		WHERE id = $1
	`

	c, err := r.scanClassroom(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByCode returns a classroom by its join code.
func (r *ClassroomRepository) GetByCode(ctx context.Context, code classroom.Code) (*classroom.Classroom, error) {
	query := `
		SELECT id, teacher_id, name, code, created_at
		FROM classrooms
		WHERE code = $1
	`

	c, err := r.scanClassroom(r.conn.QueryRow(ctx, query, code.String()))
	if shared.IsNotFound(err) {
		return nil, shared.ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListByTeacher returns the classrooms a teacher owns, newest first.
func (r *ClassroomRepository) ListByTeacher(ctx context.Context, teacherID string) ([]*classroom.Classroom, error) {
	query := `
		SELECT id, teacher_id, name, code, created_at
		FROM classrooms
		WHERE teacher_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.conn.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list classrooms by teacher: %w", err)
	}
	defer rows.Close()

	return r.scanClassrooms(rows)
}

// ListForStudent returns the classrooms a student has joined, newest
// membership first.
func (r *ClassroomRepository) ListForStudent(ctx context.Context, studentID string) ([]*classroom.Classroom, error) {
	query := `
		SELECT c.id, c.teacher_id, c.name, c.code, c.created_at
		FROM classrooms c
		JOIN classroom_members m ON m.classroom_id = c.id
		WHERE m.student_id = $1
		ORDER BY m.joined_at DESC
	`

	rows, err := r.conn.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list classrooms for student: %w", err)
	}
	defer rows.Close()

	return r.scanClassrooms(rows)
}

// Delete removes a classroom. Memberships, assignments, submissions, invites,
// stream posts and classroom-scoped notifications go with it via ON DELETE
// CASCADE in the schema.
func (r *ClassroomRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, "DELETE FROM classrooms WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete classroom: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrClassroomNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Memberships
// ─────────────────────────────────────────────────────────────────────────────

// AddMember inserts a membership if absent. The unique (classroom, student)
// constraint makes concurrent duplicate joins collapse into one row.
func (r *ClassroomRepository) AddMember(ctx context.Context, m *classroom.Membership) (bool, error) {
	query := `
		INSERT INTO classroom_members (classroom_id, student_id, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (classroom_id, student_id) DO NOTHING
	`

	result, err := r.conn.Exec(ctx, query, m.ClassroomID, m.StudentID, m.JoinedAt)
	if err != nil {
		return false, fmt.Errorf("failed to add classroom member: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// MemberIDs returns the student IDs of all current members.
func (r *ClassroomRepository) MemberIDs(ctx context.Context, classroomID string) ([]string, error) {
	query := `
		SELECT student_id
		FROM classroom_members
		WHERE classroom_id = $1
		ORDER BY joined_at ASC
	`

	rows, err := r.conn.Query(ctx, query, classroomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list classroom members: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// IsMember reports whether a student belongs to a classroom.
func (r *ClassroomRepository) IsMember(ctx context.Context, classroomID, studentID string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM classroom_members WHERE classroom_id = $1 AND student_id = $2)",
		classroomID,
		studentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Invites
// ─────────────────────────────────────────────────────────────────────────────

// SaveInvite stores an invite bookmark. Re-inviting the same email is a
// silent no-op.
func (r *ClassroomRepository) SaveInvite(ctx context.Context, inv *classroom.Invite) error {
	query := `
		INSERT INTO classroom_invites (classroom_id, email, invited_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (classroom_id, email) DO NOTHING
	`

	_, err := r.conn.Exec(ctx, query, inv.ClassroomID, inv.Email, inv.InvitedAt)
	if err != nil {
		return fmt.Errorf("failed to save invite: %w", err)
	}

	return nil
}

// ListInvites returns the invites for a classroom, newest first.
func (r *ClassroomRepository) ListInvites(ctx context.Context, classroomID string) ([]*classroom.Invite, error) {
	query := `
		SELECT classroom_id, email, invited_at
		FROM classroom_invites
		WHERE classroom_id = $1
		ORDER BY invited_at DESC
	`

	rows, err := r.conn.Query(ctx, query, classroomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	defer rows.Close()

	var invites []*classroom.Invite
	for rows.Next() {
		var inv classroom.Invite
		if err := rows.Scan(&inv.ClassroomID, &inv.Email, &inv.InvitedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		invites = append(invites, &inv)
	}

	return invites, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *ClassroomRepository) scanClassroom(row pgx.Row) (*classroom.Classroom, error) {
	var c classroom.Classroom
	var code string

	err := row.Scan(&c.ID, &c.TeacherID, &c.Name, &code, &c.CreatedAt)

	if IsNoRows(err) {
		return nil, shared.ErrClassroomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan classroom: %w", err)
	}

	c.Code = classroom.Code(code)
	return &c, nil
}

func (r *ClassroomRepository) scanClassrooms(rows pgx.Rows) ([]*classroom.Classroom, error) {
	var classrooms []*classroom.Classroom

	for rows.Next() {
		var c classroom.Classroom
		var code string

		if err := rows.Scan(&c.ID, &c.TeacherID, &c.Name, &code, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan classroom: %w", err)
		}

		c.Code = classroom.Code(code)
		classrooms = append(classrooms, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return classrooms, nil
}
