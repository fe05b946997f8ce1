package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: USERS AND PROGRESS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create users and the progress ledger
-- Version: 001

CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(100) NOT NULL,
    username VARCHAR(50) NOT NULL UNIQUE,
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(100) NOT NULL,
    role VARCHAR(20) NOT NULL DEFAULT 'Student',
    avatar VARCHAR(50) NOT NULL DEFAULT '',
    streak_count INTEGER NOT NULL DEFAULT 0,
    last_active_date DATE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_role CHECK (role IN ('Student', 'Teacher', 'Admin')),
    CONSTRAINT valid_streak CHECK (streak_count >= 0)
);

CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);

-- Append-only ledger of passed lessons. A lesson is recorded at most once
-- per student; re-passing a lesson must not produce a second row.
CREATE TABLE IF NOT EXISTS progress_records (
    id SERIAL PRIMARY KEY,
    student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    lesson_id INTEGER NOT NULL,
    lesson_lang VARCHAR(30) NOT NULL,
    score INTEGER NOT NULL DEFAULT 0,
    xp_earned INTEGER NOT NULL DEFAULT 0,
    completed_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_score CHECK (score >= 0 AND score <= 100),
    CONSTRAINT valid_xp CHECK (xp_earned >= 0),
    UNIQUE(student_id, lesson_id, lesson_lang)
);

CREATE INDEX IF NOT EXISTS idx_progress_student ON progress_records(student_id);
CREATE INDEX IF NOT EXISTS idx_progress_recent ON progress_records(completed_at DESC);
`

const migration001Down = `
DROP TABLE IF EXISTS progress_records;
DROP TABLE IF EXISTS users;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CLASSROOMS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create classrooms, memberships and invites
-- Version: 002

CREATE TABLE IF NOT EXISTS classrooms (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    teacher_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name VARCHAR(100) NOT NULL,
    code VARCHAR(6) NOT NULL UNIQUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_classrooms_teacher ON classrooms(teacher_id);
CREATE INDEX IF NOT EXISTS idx_classrooms_code ON classrooms(code);

CREATE TABLE IF NOT EXISTS classroom_members (
    id SERIAL PRIMARY KEY,
    classroom_id UUID NOT NULL REFERENCES classrooms(id) ON DELETE CASCADE,
    student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    joined_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    UNIQUE(classroom_id, student_id)
);

CREATE INDEX IF NOT EXISTS idx_members_classroom ON classroom_members(classroom_id);
CREATE INDEX IF NOT EXISTS idx_members_student ON classroom_members(student_id);

CREATE TABLE IF NOT EXISTS classroom_invites (
    id SERIAL PRIMARY KEY,
    classroom_id UUID NOT NULL REFERENCES classrooms(id) ON DELETE CASCADE,
    email VARCHAR(255) NOT NULL,
    invited_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    UNIQUE(classroom_id, email)
);

CREATE INDEX IF NOT EXISTS idx_invites_classroom ON classroom_invites(classroom_id);
`

const migration002Down = `
DROP TABLE IF EXISTS classroom_invites;
DROP TABLE IF EXISTS classroom_members;
DROP TABLE IF EXISTS classrooms;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: ASSIGNMENTS AND SUBMISSIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create assignments, submissions and comment threads
-- Version: 003

CREATE TABLE IF NOT EXISTS assignments (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    classroom_id UUID NOT NULL REFERENCES classrooms(id) ON DELETE CASCADE,
    lesson_id INTEGER NOT NULL,
    lesson_lang VARCHAR(30) NOT NULL,
    due_date TIMESTAMP WITH TIME ZONE,
    note TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_assignments_classroom ON assignments(classroom_id);
CREATE INDEX IF NOT EXISTS idx_assignments_lesson ON assignments(lesson_id, lesson_lang);

-- One submission row per (assignment, student). Rows are created lazily by
-- the synchronizer, never by the student, so the uniqueness constraint is
-- what makes concurrent reconciles collapse into a single row.
CREATE TABLE IF NOT EXISTS assignment_submissions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    assignment_id UUID NOT NULL REFERENCES assignments(id) ON DELETE CASCADE,
    student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    status VARCHAR(20) NOT NULL DEFAULT 'assigned',
    completed_at TIMESTAMP WITH TIME ZONE,
    score INTEGER,
    grade_out_of_10 INTEGER,

    CONSTRAINT valid_status CHECK (status IN ('assigned', 'completed')),
    CONSTRAINT valid_submission_score CHECK (score IS NULL OR (score >= 0 AND score <= 100)),
    CONSTRAINT valid_grade CHECK (grade_out_of_10 IS NULL OR (grade_out_of_10 >= 0 AND grade_out_of_10 <= 10)),
    UNIQUE(assignment_id, student_id)
);

CREATE INDEX IF NOT EXISTS idx_submissions_assignment ON assignment_submissions(assignment_id);
CREATE INDEX IF NOT EXISTS idx_submissions_student ON assignment_submissions(student_id);
CREATE INDEX IF NOT EXISTS idx_submissions_pending ON assignment_submissions(student_id) WHERE status != 'completed';

CREATE TABLE IF NOT EXISTS assignment_comments (
    id SERIAL PRIMARY KEY,
    assignment_id UUID NOT NULL REFERENCES assignments(id) ON DELETE CASCADE,
    student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    author_role VARCHAR(20) NOT NULL,
    body TEXT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_comments_thread ON assignment_comments(assignment_id, student_id, created_at);
`

const migration003Down = `
DROP TABLE IF EXISTS assignment_comments;
DROP TABLE IF EXISTS assignment_submissions;
DROP TABLE IF EXISTS assignments;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: NOTIFICATIONS AND CLASSROOM STREAM
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
-- Migration: Create notifications, stream posts and reach-out log
-- Version: 004

CREATE TABLE IF NOT EXISTS notifications (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title VARCHAR(255) NOT NULL,
    body TEXT NOT NULL DEFAULT '',
    classroom_id UUID REFERENCES classrooms(id) ON DELETE CASCADE,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications(user_id, created_at DESC) WHERE is_read = FALSE;
CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id);

CREATE TABLE IF NOT EXISTS stream_posts (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    classroom_id UUID NOT NULL REFERENCES classrooms(id) ON DELETE CASCADE,
    author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    kind VARCHAR(20) NOT NULL,
    title VARCHAR(255) NOT NULL,
    body TEXT NOT NULL DEFAULT '',
    audience VARCHAR(20) NOT NULL DEFAULT 'class',
    student_id UUID REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_kind CHECK (kind IN ('assignment', 'announcement', 'grade')),
    CONSTRAINT valid_audience CHECK (audience IN ('class', 'student')),
    CONSTRAINT student_audience_target CHECK (audience != 'student' OR student_id IS NOT NULL)
);

CREATE INDEX IF NOT EXISTS idx_stream_classroom ON stream_posts(classroom_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_stream_student ON stream_posts(student_id) WHERE student_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS reach_out_messages (
    id SERIAL PRIMARY KEY,
    teacher_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    message TEXT NOT NULL,
    sent_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_reach_out_student ON reach_out_messages(student_id);
`

const migration004Down = `
DROP TABLE IF EXISTS reach_out_messages;
DROP TABLE IF EXISTS stream_posts;
DROP TABLE IF EXISTS notifications;
`

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_users_and_progress",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_classrooms",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_assignments",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
		{
			Version: 4,
			Name:    "create_feed",
			UpSQL:   migration004Up,
			DownSQL: migration004Down,
		},
	}
}
