package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validPost() StreamPost {
	return StreamPost{
		ID:          "p1",
		ClassroomID: "c1",
		AuthorID:    "t1",
		Kind:        KindAnnouncement,
		Title:       "Announcement",
		Audience:    AudienceClass,
	}
}

func TestStreamPostValidate(t *testing.T) {
	p := validPost()
	assert.NoError(t, p.Validate())

	tests := []struct {
		name   string
		mutate func(p *StreamPost)
		want   error
	}{
		{"missing id", func(p *StreamPost) { p.ID = "" }, ErrMissingScope},
		{"missing classroom", func(p *StreamPost) { p.ClassroomID = "" }, ErrMissingScope},
		{"missing author", func(p *StreamPost) { p.AuthorID = "" }, ErrMissingScope},
		{"unknown kind", func(p *StreamPost) { p.Kind = "poll" }, ErrUnknownKind},
		{"unknown audience", func(p *StreamPost) { p.Audience = "everyone" }, ErrUnknownAudience},
		{"student audience without addressee", func(p *StreamPost) {
			p.Audience = AudienceStudent
		}, ErrMissingStudent},
		{"class audience with addressee", func(p *StreamPost) {
			p.StudentID = "s1"
		}, ErrStudentOnClassPost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPost()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), tt.want)
		})
	}
}

func TestStreamPostVisibleToStudent(t *testing.T) {
	classPost := validPost()
	assert.True(t, classPost.VisibleToStudent("s1"))
	assert.True(t, classPost.VisibleToStudent("s2"))

	gradePost := StreamPost{
		ID:          "p2",
		ClassroomID: "c1",
		AuthorID:    "t1",
		Kind:        KindGrade,
		Title:       "Your work was graded",
		Audience:    AudienceStudent,
		StudentID:   "s1",
	}
	assert.NoError(t, gradePost.Validate())
	assert.True(t, gradePost.VisibleToStudent("s1"))
	assert.False(t, gradePost.VisibleToStudent("s2"))

	// A grade post never leaks through the class channel, even if a buggy
	// writer produced one.
	leaked := validPost()
	leaked.Kind = KindGrade
	assert.False(t, leaked.VisibleToStudent("s1"))
}

func TestNotificationValidate(t *testing.T) {
	n := Notification{ID: "n1", UserID: "u1", Title: "New assignment"}
	assert.NoError(t, n.Validate())

	n.Title = "   "
	assert.ErrorIs(t, n.Validate(), ErrMissingTitle)

	n = Notification{ID: "n1", Title: "x"}
	assert.ErrorIs(t, n.Validate(), ErrMissingAddressee)
}

func TestKindAndAudienceValidity(t *testing.T) {
	assert.True(t, KindAssignment.IsValid())
	assert.True(t, KindAnnouncement.IsValid())
	assert.True(t, KindGrade.IsValid())
	assert.False(t, Kind("").IsValid())

	assert.True(t, AudienceClass.IsValid())
	assert.True(t, AudienceStudent.IsValid())
	assert.False(t, Audience("").IsValid())
}
