package eventhandler

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/feed"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/internal/domain/user"
)

type fakeNotificationRepo struct {
	feed.NotificationRepository
	appended []*feed.Notification
}

func (f *fakeNotificationRepo) Append(_ context.Context, n *feed.Notification) error {
	f.appended = append(f.appended, n)
	return nil
}

type fakeClassroomRepo struct {
	classroom.Repository
	rooms map[string]*classroom.Classroom
}

func (f *fakeClassroomRepo) GetByID(_ context.Context, id string) (*classroom.Classroom, error) {
	room, ok := f.rooms[id]
	if !ok {
		return nil, shared.ErrClassroomNotFound
	}
	return room, nil
}

type fakeUserRepo struct {
	user.Repository
	users map[string]*user.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u, nil
}

func newCommentHandlerFixture() (*fakeNotificationRepo, *OnCommentAddedHandler) {
	notifications := &fakeNotificationRepo{}
	classrooms := &fakeClassroomRepo{rooms: map[string]*classroom.Classroom{
		"c1": {ID: "c1", TeacherID: "t1", Name: "Period 3", Code: "AB12CD"},
	}}
	users := &fakeUserRepo{users: map[string]*user.User{
		"s1": {ID: "s1", Name: "Arnold", Role: user.RoleStudent},
	}}

	h := NewOnCommentAddedHandler(
		classrooms,
		users,
		notifications,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return notifications, h
}

func TestOnCommentAdded_TeacherReplyNotifiesStudent(t *testing.T) {
	notifications, h := newCommentHandlerFixture()

	event := shared.NewCommentAddedEvent("a1", "c1", "s1", "t1", "Teacher", 4, "python")
	require.NoError(t, h.Handle(event))

	require.Len(t, notifications.appended, 1)
	n := notifications.appended[0]
	assert.Equal(t, "s1", n.UserID)
	assert.Equal(t, "Teacher replied", n.Title)
	assert.Equal(t, "PYTHON Lesson 4", n.Body)
	assert.Equal(t, "c1", n.ClassroomID)
}

func TestOnCommentAdded_StudentCommentNotifiesTeacher(t *testing.T) {
	notifications, h := newCommentHandlerFixture()

	event := shared.NewCommentAddedEvent("a1", "c1", "s1", "s1", "Student", 4, "python")
	require.NoError(t, h.Handle(event))

	require.Len(t, notifications.appended, 1)
	n := notifications.appended[0]
	assert.Equal(t, "t1", n.UserID)
	assert.Equal(t, "New student comment", n.Title)
	assert.Equal(t, "Arnold on PYTHON Lesson 4", n.Body)
	assert.Equal(t, "c1", n.ClassroomID)
}

func TestOnCommentAdded_IgnoresOtherEvents(t *testing.T) {
	notifications, h := newCommentHandlerFixture()

	require.NoError(t, h.Handle(shared.NewStudentJoinedEvent("c1", "s1")))
	assert.Empty(t, notifications.appended)
}
