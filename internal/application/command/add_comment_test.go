package command

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeformaine/codecourse/internal/domain/assignment"
	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/internal/domain/user"
	"github.com/codeformaine/codecourse/pkg/logger"
)

func (f *fakeAssignmentRepo) GetByID(_ context.Context, id string) (*assignment.Assignment, error) {
	if a := f.lookup(id); a != nil {
		return a, nil
	}
	return nil, shared.ErrAssignmentNotFound
}

type fakeUserRepo struct {
	user.Repository
	users map[string]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[string]*user.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u, nil
}

type fakeCommentRepo struct {
	assignment.CommentRepository
	added []*assignment.Comment
}

func (f *fakeCommentRepo) Add(_ context.Context, c *assignment.Comment) error {
	f.added = append(f.added, c)
	return nil
}

type addCommentFixture struct {
	comments  *fakeCommentRepo
	publisher *fakePublisher
}

func newAddCommentFixture() (*addCommentFixture, *AddCommentHandler) {
	users := newFakeUserRepo(
		&user.User{ID: "t1", Name: "Ms. Frizzle", Role: user.RoleTeacher},
		&user.User{ID: "s1", Name: "Arnold", Role: user.RoleStudent},
		&user.User{ID: "s2", Name: "Wanda", Role: user.RoleStudent},
	)

	classrooms := newFakeClassroomRepo()
	classrooms.rooms["c1"] = &classroom.Classroom{ID: "c1", TeacherID: "t1", Name: "Period 3", Code: "AB12CD"}

	assignments := newFakeAssignmentRepo()
	assignments.add(testAssignment())

	comments := &fakeCommentRepo{}
	publisher := &fakePublisher{}

	h := NewAddCommentHandler(
		users,
		classrooms,
		assignments,
		comments,
		publisher,
		logger.New(logger.Options{Output: io.Discard}),
	)
	return &addCommentFixture{comments: comments, publisher: publisher}, h
}

func TestAddComment_StudentCommentPublishes(t *testing.T) {
	f, h := newAddCommentFixture()

	err := h.Handle(context.Background(), AddCommentCommand{
		CallerID:     "s1",
		AssignmentID: "a1",
		StudentID:    "s1",
		Body:         "  I am stuck on question two  ",
	})
	require.NoError(t, err)

	require.Len(t, f.comments.added, 1)
	assert.Equal(t, "Student", f.comments.added[0].AuthorRole)
	assert.Equal(t, "I am stuck on question two", f.comments.added[0].Body)

	require.Len(t, f.publisher.events, 1)
	e, ok := f.publisher.events[0].(shared.CommentAddedEvent)
	require.True(t, ok)
	assert.Equal(t, "a1", e.AssignmentID)
	assert.Equal(t, "c1", e.ClassroomID)
	assert.Equal(t, "s1", e.StudentID)
	assert.Equal(t, "s1", e.AuthorID)
	assert.Equal(t, "Student", e.AuthorRole)
	assert.Equal(t, 4, e.LessonID)
	assert.Equal(t, "python", e.LessonLang)
}

func TestAddComment_TeacherReplyPublishes(t *testing.T) {
	f, h := newAddCommentFixture()

	err := h.Handle(context.Background(), AddCommentCommand{
		CallerID:     "t1",
		AssignmentID: "a1",
		StudentID:    "s1",
		Body:         "Check the hint on slide 4",
	})
	require.NoError(t, err)

	require.Len(t, f.publisher.events, 1)
	e, ok := f.publisher.events[0].(shared.CommentAddedEvent)
	require.True(t, ok)
	assert.Equal(t, "Teacher", e.AuthorRole)
	assert.Equal(t, "t1", e.AuthorID)
	assert.Equal(t, "s1", e.StudentID)
}

func TestAddComment_ForeignStudentForbidden(t *testing.T) {
	f, h := newAddCommentFixture()

	err := h.Handle(context.Background(), AddCommentCommand{
		CallerID:     "s2",
		AssignmentID: "a1",
		StudentID:    "s1",
		Body:         "sneaky",
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Empty(t, f.comments.added)
	assert.Empty(t, f.publisher.events)
}
