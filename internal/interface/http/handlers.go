package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/codeformaine/codecourse/internal/application/command"
	"github.com/codeformaine/codecourse/internal/application/query"
	"github.com/codeformaine/codecourse/internal/domain/user"
	"github.com/codeformaine/codecourse/internal/infrastructure/service"
	"github.com/codeformaine/codecourse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": s.Uptime().String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Pinger != nil {
		if err := s.deps.Pinger.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "not_ready", "database unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH
// ══════════════════════════════════════════════════════════════════════════════

type userResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Avatar      string `json:"avatar,omitempty"`
	StreakCount int    `json:"streak_count"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role.String(),
		Avatar:      u.Avatar,
		StreakCount: u.StreakCount,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		Avatar   string `json:"avatar"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	role, ok := user.ParseRole(req.Role)
	if !ok {
		writeError(w, http.StatusBadRequest, "validation_failed", "role must be Student or Teacher")
		return
	}

	u, err := s.deps.Identity.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
		Avatar:   req.Avatar,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token := s.sessions.Issue(u.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  toUserResponse(u),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	u, err := s.deps.Identity.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token := s.sessions.Issue(u.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  toUserResponse(u),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Revoke(bearerToken(r))
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// ══════════════════════════════════════════════════════════════════════════════
// LESSONS & QUIZZES
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListTracks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"tracks": s.deps.Catalog.Tracks()})
}

func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	lessons := s.deps.Catalog.Lessons(lang)

	type lessonResponse struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
		XP    int    `json:"xp"`
	}
	out := make([]lessonResponse, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, lessonResponse{ID: l.ID, Title: l.Title, XP: l.XP})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"lessons": out})
}

func (s *Server) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	lessonID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "lesson id must be an integer")
		return
	}

	var req struct {
		Answers []int `json:"answers"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	cmd := command.CompleteLessonCommand{
		StudentID:  callerID(r),
		LessonLang: chi.URLParam(r, "lang"),
		LessonID:   lessonID,
		Answers:    req.Answers,
	}
	if err := cmd.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	result, err := s.deps.CompleteLesson.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"score":                 result.Score,
		"passed":                result.Passed,
		"xp_awarded":            result.XPAwarded,
		"first_pass":            result.FirstPass,
		"submissions_completed": result.SubmissionsCompleted,
		"streak_count":          result.Streak.Count,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT VIEWS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetStudentProgress.Handle(r.Context(), query.GetStudentProgressQuery{
		StudentID:  callerID(r),
		LessonLang: r.URL.Query().Get("lang"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleGetMyClassrooms(w http.ResponseWriter, r *http.Request) {
	dtos, err := s.deps.GetStudentClassrooms.Handle(r.Context(), query.GetStudentClassroomsQuery{
		StudentID: callerID(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"classrooms": dtos})
}

func (s *Server) handleGetMyAssignments(w http.ResponseWriter, r *http.Request) {
	dtos, err := s.deps.GetStudentAssignments.Handle(r.Context(), query.GetStudentAssignmentsQuery{
		StudentID:   callerID(r),
		ClassroomID: r.URL.Query().Get("classroom_id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"assignments": dtos})
}

func (s *Server) handleGetMyFeed(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	dtos, err := s.deps.GetStudentFeed.Handle(r.Context(), query.GetStudentFeedQuery{
		StudentID: callerID(r),
		Limit:     limit,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"posts": dtos})
}

func (s *Server) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	dtos, err := s.deps.GetUnreadNotifications.Handle(r.Context(), query.GetUnreadNotificationsQuery{
		UserID: callerID(r),
		Limit:  limit,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": dtos})
}

func (s *Server) handleMarkNotificationsRead(w http.ResponseWriter, r *http.Request) {
	count, err := s.deps.MarkNotificationsRead.Handle(r.Context(), command.MarkNotificationsReadCommand{
		UserID: callerID(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"marked": count})
}

func (s *Server) handleGetReachOuts(w http.ResponseWriter, r *http.Request) {
	dtos, err := s.deps.GetReachOuts.Handle(r.Context(), query.GetReachOutsQuery{
		StudentID: callerID(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reach_outs": dtos})
}

func (s *Server) handleJoinClassroom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	cmd := command.JoinClassroomCommand{StudentID: callerID(r), Code: req.Code}
	if err := cmd.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	result, err := s.deps.JoinClassroom.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyMember {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]interface{}{
		"classroom_id":   result.Classroom.ID,
		"name":           result.Classroom.Name,
		"already_member": result.AlreadyMember,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER VIEWS & COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleCreateClassroom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	cmd := command.CreateClassroomCommand{TeacherID: callerID(r), Name: req.Name}
	if err := cmd.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	room, err := s.deps.CreateClassroom.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"classroom_id": room.ID,
		"name":         room.Name,
		"code":         room.Code.String(),
	})
}

func (s *Server) handleListOwnedClassrooms(w http.ResponseWriter, r *http.Request) {
	dtos, err := s.deps.GetTeacherClassrooms.Handle(r.Context(), query.GetTeacherClassroomsQuery{
		TeacherID: callerID(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"classrooms": dtos})
}

func (s *Server) handleClassroomOverview(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetClassroomOverview.Handle(r.Context(), query.GetClassroomOverviewQuery{
		TeacherID:   callerID(r),
		ClassroomID: chi.URLParam(r, "id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleDeleteClassroom(w http.ResponseWriter, r *http.Request) {
	cmd := command.DeleteClassroomCommand{
		TeacherID:   callerID(r),
		ClassroomID: chi.URLParam(r, "id"),
	}
	if err := s.deps.DeleteClassroom.Handle(r.Context(), cmd); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleGradebook(w http.ResponseWriter, r *http.Request) {
	rows, err := s.deps.GetGradebook.Handle(r.Context(), query.GetGradebookQuery{
		TeacherID:   callerID(r),
		ClassroomID: chi.URLParam(r, "id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": rows})
}

func (s *Server) handleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LessonLang string `json:"lesson_lang"`
		LessonID   int    `json:"lesson_id"`
		DueDate    string `json:"due_date"`
		Note       string `json:"note"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	var due time.Time
	if req.DueDate != "" {
		var err error
		due, err = parseDueDate(req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "due_date must be RFC 3339 or YYYY-MM-DD")
			return
		}
	}

	cmd := command.CreateAssignmentCommand{
		TeacherID:   callerID(r),
		ClassroomID: chi.URLParam(r, "id"),
		LessonLang:  req.LessonLang,
		LessonID:    req.LessonID,
		DueDate:     due,
		Note:        req.Note,
	}
	if err := cmd.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	a, err := s.deps.CreateAssignment.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"assignment_id": a.ID,
		"lesson_key":    a.LessonKey(),
	})
}

func (s *Server) handlePostAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	cmd := command.PostAnnouncementCommand{
		TeacherID:   callerID(r),
		ClassroomID: chi.URLParam(r, "id"),
		Message:     req.Message,
	}
	if err := cmd.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	if err := s.deps.PostAnnouncement.Handle(r.Context(), cmd); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "posted"})
}

func (s *Server) handleInviteStudent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	cmd := command.InviteStudentCommand{
		TeacherID:   callerID(r),
		ClassroomID: chi.URLParam(r, "id"),
		Email:       req.Email,
	}
	if err := cmd.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	if err := s.deps.InviteStudent.Handle(r.Context(), cmd); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "invited"})
}

func (s *Server) handleGradeSubmission(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Grade int `json:"grade"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	cmd := command.GradeSubmissionCommand{
		TeacherID:    callerID(r),
		SubmissionID: chi.URLParam(r, "id"),
		Grade:        req.Grade,
	}
	if err := s.deps.GradeSubmission.Handle(r.Context(), cmd); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "graded"})
}

func (s *Server) handleReachOut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	cmd := command.ReachOutCommand{
		TeacherID: callerID(r),
		StudentID: chi.URLParam(r, "id"),
		Message:   req.Message,
	}
	if err := cmd.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	if err := s.deps.ReachOut.Handle(r.Context(), cmd); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "sent"})
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMENT THREADS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetThread(w http.ResponseWriter, r *http.Request) {
	dtos, err := s.deps.GetCommentThread.Handle(r.Context(), query.GetCommentThreadQuery{
		CallerID:     callerID(r),
		AssignmentID: chi.URLParam(r, "id"),
		StudentID:    chi.URLParam(r, "studentID"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"comments": dtos})
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body string `json:"body"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	cmd := command.AddCommentCommand{
		CallerID:     callerID(r),
		AssignmentID: chi.URLParam(r, "id"),
		StudentID:    chi.URLParam(r, "studentID"),
		Body:         req.Body,
	}
	if err := cmd.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	if err := s.deps.AddComment.Handle(r.Context(), cmd); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// parseDueDate accepts an RFC 3339 timestamp or a bare day, interpreted in
// the school timezone.
func parseDueDate(s string) (time.Time, error) {
	if len(s) == len("2006-01-02") {
		return timeutil.ParseDayKey(s)
	}
	return time.Parse(time.RFC3339, s)
}
