package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `[
  {
    "id": 1,
    "lang": "Python",
    "title": "Variables",
    "xp": 50,
    "quiz": [
      {"prompt": "q1", "options": ["a", "b"], "answer": 0},
      {"prompt": "q2", "options": ["a", "b"], "answer": 1},
      {"prompt": "q3", "options": ["a", "b"], "answer": 0},
      {"prompt": "q4", "options": ["a", "b"], "answer": 1}
    ]
  },
  {
    "id": 2,
    "lang": "python",
    "title": "Loops",
    "xp": 75,
    "passing_score": 90,
    "quiz": [
      {"prompt": "q1", "options": ["a", "b"], "answer": 0},
      {"prompt": "q2", "options": ["a", "b"], "answer": 0}
    ]
  },
  {
    "id": 1,
    "lang": "js",
    "title": "Intro",
    "xp": 40,
    "quiz": [
      {"prompt": "q1", "options": ["a", "b"], "answer": 1}
    ]
  }
]`

func mustCatalog(t *testing.T) *LessonCatalog {
	t.Helper()
	c, err := ParseLessonCatalog([]byte(catalogJSON))
	require.NoError(t, err)
	return c
}

func TestLoadLessonCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lessons.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0o644))

	c, err := LoadLessonCatalog(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"js", "python"}, c.Tracks())
	assert.True(t, c.LessonExists("python", 1))
	assert.True(t, c.LessonExists("PYTHON", 2))
	assert.False(t, c.LessonExists("python", 3))
	assert.False(t, c.LessonExists("rust", 1))

	_, err = LoadLessonCatalog(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseLessonCatalog_Rejections(t *testing.T) {
	_, err := ParseLessonCatalog([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseLessonCatalog([]byte(`[{"id": 0, "lang": "python"}]`))
	assert.Error(t, err)

	_, err = ParseLessonCatalog([]byte(`[
		{"id": 1, "lang": "python", "quiz": []},
		{"id": 1, "lang": "Python", "quiz": []}
	]`))
	assert.Error(t, err, "duplicate (lang, id) should be rejected")
}

func TestLessons_OrderedByID(t *testing.T) {
	c := mustCatalog(t)

	lessons := c.Lessons("python")
	require.Len(t, lessons, 2)
	assert.Equal(t, 1, lessons[0].ID)
	assert.Equal(t, 2, lessons[1].ID)
}

func TestGradeQuiz_DefaultThreshold(t *testing.T) {
	c := mustCatalog(t)

	// 3 of 4 correct is 75, above the 70 default.
	res, err := c.GradeQuiz("python", 1, []int{0, 1, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 75, res.Score)
	assert.True(t, res.Passed)
	assert.Equal(t, 50, res.XP)

	// 2 of 4 correct is 50, below the default. No XP on a fail.
	res, err = c.GradeQuiz("python", 1, []int{0, 1, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, 50, res.Score)
	assert.False(t, res.Passed)
	assert.Equal(t, 0, res.XP)
}

func TestGradeQuiz_PerLessonThreshold(t *testing.T) {
	c := mustCatalog(t)

	// Lesson 2 demands 90; one of two correct is 50.
	res, err := c.GradeQuiz("python", 2, []int{0, 1})
	require.NoError(t, err)
	assert.False(t, res.Passed)

	res, err = c.GradeQuiz("python", 2, []int{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score)
	assert.True(t, res.Passed)
	assert.Equal(t, 75, res.XP)
}

func TestGradeQuiz_ShortAnswerSlice(t *testing.T) {
	c := mustCatalog(t)

	// Unanswered questions count as wrong.
	res, err := c.GradeQuiz("python", 1, []int{0})
	require.NoError(t, err)
	assert.Equal(t, 25, res.Score)
	assert.False(t, res.Passed)
}

func TestGradeQuiz_UnknownLesson(t *testing.T) {
	c := mustCatalog(t)

	_, err := c.GradeQuiz("python", 99, []int{0})
	assert.Error(t, err)
}
