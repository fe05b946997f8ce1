package service

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/codeformaine/codecourse/internal/domain/progress"
	"github.com/codeformaine/codecourse/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LESSON CATALOG
// ══════════════════════════════════════════════════════════════════════════════

// Question is one quiz question with the index of the correct option.
type Question struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
}

// Lesson is a catalog entry. PassingScore of zero means the track uses the
// ledger-wide default.
type Lesson struct {
	ID           int        `json:"id"`
	Lang         string     `json:"lang"`
	Title        string     `json:"title"`
	XP           int        `json:"xp"`
	PassingScore int        `json:"passing_score"`
	Quiz         []Question `json:"quiz"`
}

// QuizResult is the outcome of grading one quiz attempt.
type QuizResult struct {
	Score  int
	Passed bool
	XP     int
}

// LessonCatalog is the read-only lesson content store, loaded once at
// startup from a JSON file. Content authoring happens outside the service;
// the catalog never changes while the server runs.
type LessonCatalog struct {
	byTrack map[string]map[int]*Lesson
}

// LoadLessonCatalog reads the catalog file.
func LoadLessonCatalog(path string) (*LessonCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lesson catalog: %w", err)
	}

	return ParseLessonCatalog(data)
}

// ParseLessonCatalog builds a catalog from raw JSON, a flat lesson array.
func ParseLessonCatalog(data []byte) (*LessonCatalog, error) {
	var lessons []*Lesson
	if err := json.Unmarshal(data, &lessons); err != nil {
		return nil, fmt.Errorf("failed to parse lesson catalog: %w", err)
	}

	catalog := &LessonCatalog{byTrack: make(map[string]map[int]*Lesson)}
	for _, l := range lessons {
		lang := strings.ToLower(strings.TrimSpace(l.Lang))
		if lang == "" || l.ID <= 0 {
			return nil, fmt.Errorf("lesson catalog entry missing lang or id: %+v", l)
		}
		if catalog.byTrack[lang] == nil {
			catalog.byTrack[lang] = make(map[int]*Lesson)
		}
		if _, dup := catalog.byTrack[lang][l.ID]; dup {
			return nil, fmt.Errorf("duplicate lesson %s/%d in catalog", lang, l.ID)
		}
		l.Lang = lang
		catalog.byTrack[lang][l.ID] = l
	}

	return catalog, nil
}

// Lesson returns a catalog entry.
func (c *LessonCatalog) Lesson(lang string, id int) (*Lesson, error) {
	track := c.byTrack[strings.ToLower(lang)]
	if track == nil {
		return nil, shared.ErrLessonNotFound
	}

	l, ok := track[id]
	if !ok {
		return nil, shared.ErrLessonNotFound
	}

	return l, nil
}

// LessonExists reports whether the catalog has an entry.
func (c *LessonCatalog) LessonExists(lang string, id int) bool {
	_, err := c.Lesson(lang, id)
	return err == nil
}

// Tracks returns the known language tracks, sorted.
func (c *LessonCatalog) Tracks() []string {
	tracks := make([]string, 0, len(c.byTrack))
	for lang := range c.byTrack {
		tracks = append(tracks, lang)
	}
	sort.Strings(tracks)
	return tracks
}

// Lessons returns a track's lessons ordered by ID.
func (c *LessonCatalog) Lessons(lang string) []*Lesson {
	track := c.byTrack[strings.ToLower(lang)]
	lessons := make([]*Lesson, 0, len(track))
	for _, l := range track {
		lessons = append(lessons, l)
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].ID < lessons[j].ID })
	return lessons
}

// GradeQuiz scores one attempt. Answers are option indexes aligned with the
// quiz questions; a short answer slice leaves the remaining questions wrong.
// XP is awarded only on a pass.
func (c *LessonCatalog) GradeQuiz(lang string, lessonID int, answers []int) (QuizResult, error) {
	l, err := c.Lesson(lang, lessonID)
	if err != nil {
		return QuizResult{}, err
	}

	if len(l.Quiz) == 0 {
		return QuizResult{}, shared.NewDomainError("progress", "GradeQuiz", shared.ErrInvalidState, "lesson has no quiz")
	}

	correct := 0
	for i, q := range l.Quiz {
		if i < len(answers) && answers[i] == q.Answer {
			correct++
		}
	}

	score := correct * 100 / len(l.Quiz)
	result := QuizResult{
		Score:  score,
		Passed: progress.Passed(score, l.PassingScore),
	}
	if result.Passed {
		result.XP = l.XP
	}

	return result, nil
}
