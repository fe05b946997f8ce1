// Package shared contains common domain types, errors, and events that are
// used across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event represents something significant that
// happened in the classroom domain; the notification/stream fan-out is driven
// entirely by these.
const (
	// Progress events
	EventLessonCompleted EventType = "progress.lesson_completed"
	EventStreakAdvanced  EventType = "progress.streak_advanced"

	// Classroom events
	EventClassroomCreated EventType = "classroom.created"
	EventClassroomDeleted EventType = "classroom.deleted"
	EventStudentJoined    EventType = "classroom.student_joined"

	// Assignment events
	EventAssignmentCreated EventType = "assignment.created"
	EventSubmissionGraded  EventType = "assignment.submission_graded"
	EventCommentAdded      EventType = "assignment.comment_added"

	// Feed events
	EventAnnouncementPosted EventType = "feed.announcement_posted"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Progress Events
// ═══════════════════════════════════════════════════════════════════════════

// LessonCompletedEvent is emitted when a student passes a lesson quiz for the
// first time (a ProgressRecord was inserted).
type LessonCompletedEvent struct {
	BaseEvent
	StudentID  string `json:"student_id"`
	LessonID   int    `json:"lesson_id"`
	LessonLang string `json:"lesson_lang"`
	Score      int    `json:"score"`
	XP         int    `json:"xp"`
}

// Payload implements Event interface.
func (e LessonCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":  e.StudentID,
		"lesson_id":   e.LessonID,
		"lesson_lang": e.LessonLang,
		"score":       e.Score,
		"xp":          e.XP,
	}
}

// NewLessonCompletedEvent creates a new LessonCompletedEvent.
func NewLessonCompletedEvent(studentID string, lessonID int, lessonLang string, score, xp int) LessonCompletedEvent {
	return LessonCompletedEvent{
		BaseEvent:  NewBaseEvent(EventLessonCompleted, studentID),
		StudentID:  studentID,
		LessonID:   lessonID,
		LessonLang: lessonLang,
		Score:      score,
		XP:         xp,
	}
}

// StreakAdvancedEvent is emitted when a student's daily streak counter grows.
type StreakAdvancedEvent struct {
	BaseEvent
	StudentID   string `json:"student_id"`
	StreakCount int    `json:"streak_count"`
}

// Payload implements Event interface.
func (e StreakAdvancedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":   e.StudentID,
		"streak_count": e.StreakCount,
	}
}

// NewStreakAdvancedEvent creates a new StreakAdvancedEvent.
func NewStreakAdvancedEvent(studentID string, streakCount int) StreakAdvancedEvent {
	return StreakAdvancedEvent{
		BaseEvent:   NewBaseEvent(EventStreakAdvanced, studentID),
		StudentID:   studentID,
		StreakCount: streakCount,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Classroom Events
// ═══════════════════════════════════════════════════════════════════════════

// ClassroomCreatedEvent is emitted when a teacher creates a classroom.
type ClassroomCreatedEvent struct {
	BaseEvent
	ClassroomID   string `json:"classroom_id"`
	TeacherID     string `json:"teacher_id"`
	ClassroomName string `json:"classroom_name"`
}

// Payload implements Event interface.
func (e ClassroomCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"classroom_id":   e.ClassroomID,
		"teacher_id":     e.TeacherID,
		"classroom_name": e.ClassroomName,
	}
}

// NewClassroomCreatedEvent creates a new ClassroomCreatedEvent.
func NewClassroomCreatedEvent(classroomID, teacherID, classroomName string) ClassroomCreatedEvent {
	return ClassroomCreatedEvent{
		BaseEvent:     NewBaseEvent(EventClassroomCreated, classroomID),
		ClassroomID:   classroomID,
		TeacherID:     teacherID,
		ClassroomName: classroomName,
	}
}

// ClassroomDeletedEvent is emitted after a classroom and its dependents are
// removed.
type ClassroomDeletedEvent struct {
	BaseEvent
	ClassroomID string `json:"classroom_id"`
	TeacherID   string `json:"teacher_id"`
}

// Payload implements Event interface.
func (e ClassroomDeletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"classroom_id": e.ClassroomID,
		"teacher_id":   e.TeacherID,
	}
}

// NewClassroomDeletedEvent creates a new ClassroomDeletedEvent.
func NewClassroomDeletedEvent(classroomID, teacherID string) ClassroomDeletedEvent {
	return ClassroomDeletedEvent{
		BaseEvent:   NewBaseEvent(EventClassroomDeleted, classroomID),
		ClassroomID: classroomID,
		TeacherID:   teacherID,
	}
}

// StudentJoinedEvent is emitted when a student joins a classroom by code.
type StudentJoinedEvent struct {
	BaseEvent
	ClassroomID string `json:"classroom_id"`
	StudentID   string `json:"student_id"`
}

// Payload implements Event interface.
func (e StudentJoinedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"classroom_id": e.ClassroomID,
		"student_id":   e.StudentID,
	}
}

// NewStudentJoinedEvent creates a new StudentJoinedEvent.
func NewStudentJoinedEvent(classroomID, studentID string) StudentJoinedEvent {
	return StudentJoinedEvent{
		BaseEvent:   NewBaseEvent(EventStudentJoined, classroomID),
		ClassroomID: classroomID,
		StudentID:   studentID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Assignment Events
// ═══════════════════════════════════════════════════════════════════════════

// AssignmentCreatedEvent is emitted after an assignment is created and all
// member submissions have been reconciled. The fan-out handler notifies the
// classroom and posts the class-audience stream entry.
type AssignmentCreatedEvent struct {
	BaseEvent
	AssignmentID  string    `json:"assignment_id"`
	ClassroomID   string    `json:"classroom_id"`
	ClassroomName string    `json:"classroom_name"`
	TeacherID     string    `json:"teacher_id"`
	LessonID      int       `json:"lesson_id"`
	LessonLang    string    `json:"lesson_lang"`
	DueDate       time.Time `json:"due_date,omitempty"`
	Note          string    `json:"note,omitempty"`
}

// Payload implements Event interface.
func (e AssignmentCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"assignment_id":  e.AssignmentID,
		"classroom_id":   e.ClassroomID,
		"classroom_name": e.ClassroomName,
		"teacher_id":     e.TeacherID,
		"lesson_id":      e.LessonID,
		"lesson_lang":    e.LessonLang,
		"note":           e.Note,
	}
}

// NewAssignmentCreatedEvent creates a new AssignmentCreatedEvent.
func NewAssignmentCreatedEvent(assignmentID, classroomID, classroomName, teacherID string, lessonID int, lessonLang string, dueDate time.Time, note string) AssignmentCreatedEvent {
	return AssignmentCreatedEvent{
		BaseEvent:     NewBaseEvent(EventAssignmentCreated, assignmentID),
		AssignmentID:  assignmentID,
		ClassroomID:   classroomID,
		ClassroomName: classroomName,
		TeacherID:     teacherID,
		LessonID:      lessonID,
		LessonLang:    lessonLang,
		DueDate:       dueDate,
		Note:          note,
	}
}

// SubmissionGradedEvent is emitted when a teacher grades a submission.
// Grades are private: the fan-out posts a student-audience stream entry only.
type SubmissionGradedEvent struct {
	BaseEvent
	SubmissionID string `json:"submission_id"`
	ClassroomID  string `json:"classroom_id"`
	TeacherID    string `json:"teacher_id"`
	StudentID    string `json:"student_id"`
	LessonID     int    `json:"lesson_id"`
	LessonLang   string `json:"lesson_lang"`
	Grade        int    `json:"grade"`
}

// Payload implements Event interface.
func (e SubmissionGradedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"submission_id": e.SubmissionID,
		"classroom_id":  e.ClassroomID,
		"teacher_id":    e.TeacherID,
		"student_id":    e.StudentID,
		"lesson_id":     e.LessonID,
		"lesson_lang":   e.LessonLang,
		"grade":         e.Grade,
	}
}

// NewSubmissionGradedEvent creates a new SubmissionGradedEvent.
func NewSubmissionGradedEvent(submissionID, classroomID, teacherID, studentID string, lessonID int, lessonLang string, grade int) SubmissionGradedEvent {
	return SubmissionGradedEvent{
		BaseEvent:    NewBaseEvent(EventSubmissionGraded, submissionID),
		SubmissionID: submissionID,
		ClassroomID:  classroomID,
		TeacherID:    teacherID,
		StudentID:    studentID,
		LessonID:     lessonID,
		LessonLang:   lessonLang,
		Grade:        grade,
	}
}

// CommentAddedEvent is emitted when a comment lands on a submission thread.
// The fan-out notifies the other party: the owning teacher for a student
// comment, the thread's student for a teacher reply.
type CommentAddedEvent struct {
	BaseEvent
	AssignmentID string `json:"assignment_id"`
	ClassroomID  string `json:"classroom_id"`
	StudentID    string `json:"student_id"`
	AuthorID     string `json:"author_id"`
	AuthorRole   string `json:"author_role"`
	LessonID     int    `json:"lesson_id"`
	LessonLang   string `json:"lesson_lang"`
}

// Payload implements Event interface.
func (e CommentAddedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"assignment_id": e.AssignmentID,
		"classroom_id":  e.ClassroomID,
		"student_id":    e.StudentID,
		"author_id":     e.AuthorID,
		"author_role":   e.AuthorRole,
		"lesson_id":     e.LessonID,
		"lesson_lang":   e.LessonLang,
	}
}

// NewCommentAddedEvent creates a new CommentAddedEvent.
func NewCommentAddedEvent(assignmentID, classroomID, studentID, authorID, authorRole string, lessonID int, lessonLang string) CommentAddedEvent {
	return CommentAddedEvent{
		BaseEvent:    NewBaseEvent(EventCommentAdded, assignmentID),
		AssignmentID: assignmentID,
		ClassroomID:  classroomID,
		StudentID:    studentID,
		AuthorID:     authorID,
		AuthorRole:   authorRole,
		LessonID:     lessonID,
		LessonLang:   lessonLang,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Feed Events
// ═══════════════════════════════════════════════════════════════════════════

// AnnouncementPostedEvent is emitted when a teacher posts an announcement.
type AnnouncementPostedEvent struct {
	BaseEvent
	ClassroomID   string `json:"classroom_id"`
	ClassroomName string `json:"classroom_name"`
	TeacherID     string `json:"teacher_id"`
	Message       string `json:"message"`
}

// Payload implements Event interface.
func (e AnnouncementPostedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"classroom_id":   e.ClassroomID,
		"classroom_name": e.ClassroomName,
		"teacher_id":     e.TeacherID,
		"message":        e.Message,
	}
}

// NewAnnouncementPostedEvent creates a new AnnouncementPostedEvent.
func NewAnnouncementPostedEvent(classroomID, classroomName, teacherID, message string) AnnouncementPostedEvent {
	return AnnouncementPostedEvent{
		BaseEvent:     NewBaseEvent(EventAnnouncementPosted, classroomID),
		ClassroomID:   classroomID,
		ClassroomName: classroomName,
		TeacherID:     teacherID,
		Message:       message,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Bus Interfaces
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
