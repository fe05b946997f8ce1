package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGradeBounds(t *testing.T) {
	for g := MinGrade; g <= MaxGrade; g++ {
		assert.True(t, g.IsValid(), "grade %d should be valid", g)
	}

	assert.False(t, Grade(-1).IsValid())
	assert.False(t, Grade(11).IsValid())
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusAssigned.IsValid())
	assert.True(t, StatusCompleted.IsValid())
	assert.False(t, Status("pending").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestAssignmentValidate(t *testing.T) {
	a := Assignment{ID: "a1", ClassroomID: "c1", LessonID: 4, LessonLang: "python"}
	assert.NoError(t, a.Validate())

	a.LessonID = 0
	assert.ErrorIs(t, a.Validate(), ErrMissingLesson)

	a = Assignment{ID: "a1", LessonID: 4, LessonLang: "python"}
	assert.ErrorIs(t, a.Validate(), ErrMissingClassroom)
}

func TestAssignmentLessonKey(t *testing.T) {
	a := Assignment{LessonLang: "python", LessonID: 4}
	assert.Equal(t, "PYTHON Lesson 4", a.LessonKey())

	a = Assignment{LessonLang: "js", LessonID: 12}
	assert.Equal(t, "JS Lesson 12", a.LessonKey())
}

func TestSubmissionIsCompleted(t *testing.T) {
	now := time.Now()
	score := 85

	s := Submission{ID: "s1", AssignmentID: "a1", StudentID: "u1", Status: StatusAssigned}
	assert.False(t, s.IsCompleted())

	s.Status = StatusCompleted
	s.CompletedAt = &now
	s.Score = &score
	assert.True(t, s.IsCompleted())
}
