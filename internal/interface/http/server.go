// Package http implements the JSON API for CodeCourse: authentication,
// lesson submission, classroom management, and the feed views.
package http

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/codeformaine/codecourse/internal/application/command"
	"github.com/codeformaine/codecourse/internal/application/query"
	"github.com/codeformaine/codecourse/internal/infrastructure/service"
	"github.com/codeformaine/codecourse/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Host - address to bind (default: "0.0.0.0").
	Host string

	// Port - port to listen on (default: 8080).
	Port int

	// ReadTimeout - maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout - maximum duration for writing the response.
	WriteTimeout time.Duration

	// IdleTimeout - maximum duration for idle connections.
	IdleTimeout time.Duration

	// MaxHeaderBytes - maximum size of request headers.
	MaxHeaderBytes int

	// SessionTTL - how long a login token stays valid.
	SessionTTL time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
		SessionTTL:     24 * time.Hour,
	}
}

// Address returns the server address string.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Dependencies contains everything the HTTP handlers call into.
type Dependencies struct {
	// Identity & content
	Identity *service.IdentityService
	Catalog  *service.LessonCatalog

	// Command handlers (CQRS write side)
	CompleteLesson        *command.CompleteLessonHandler
	CreateClassroom       *command.CreateClassroomHandler
	JoinClassroom         *command.JoinClassroomHandler
	DeleteClassroom       *command.DeleteClassroomHandler
	CreateAssignment      *command.CreateAssignmentHandler
	GradeSubmission       *command.GradeSubmissionHandler
	PostAnnouncement      *command.PostAnnouncementHandler
	AddComment            *command.AddCommentHandler
	InviteStudent         *command.InviteStudentHandler
	ReachOut              *command.ReachOutHandler
	MarkNotificationsRead *command.MarkNotificationsReadHandler

	// Query handlers (CQRS read side)
	GetStudentAssignments  *query.GetStudentAssignmentsHandler
	GetStudentFeed         *query.GetStudentFeedHandler
	GetStudentProgress     *query.GetStudentProgressHandler
	GetUnreadNotifications *query.GetUnreadNotificationsHandler
	GetClassroomOverview   *query.GetClassroomOverviewHandler
	GetGradebook           *query.GetGradebookHandler
	GetCommentThread       *query.GetCommentThreadHandler
	GetTeacherClassrooms   *query.GetTeacherClassroomsHandler
	GetStudentClassrooms   *query.GetStudentClassroomsHandler
	GetReachOuts           *query.GetReachOutsHandler

	// Health check probe; nil disables the readiness dependency check.
	Pinger Pinger

	// Logger
	Logger *logger.Logger
}

// Pinger checks that a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server represents the HTTP server.
type Server struct {
	config     Config
	deps       Dependencies
	httpServer *http.Server
	router     chi.Router
	sessions   *SessionStore
	logger     *logger.Logger

	mu        sync.RWMutex
	running   bool
	startedAt time.Time
}

// NewServer creates a new HTTP server with the given configuration and
// dependencies.
func NewServer(config Config, deps Dependencies) *Server {
	s := &Server{
		config:   config,
		deps:     deps,
		router:   chi.NewRouter(),
		sessions: NewSessionStore(config.SessionTTL),
		logger:   deps.Logger,
	}

	if s.logger == nil {
		s.logger = logger.Default()
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           config.Address(),
		Handler:        s.router,
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		IdleTimeout:    config.IdleTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
	}

	return s
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoveryMiddleware)
	r.Use(s.loggingMiddleware)

	// Health & status
	r.Get("/health", s.handleHealth)
	r.Get("/healthz", s.handleHealth) // Kubernetes alias
	r.Get("/ready", s.handleReady)

	// Public endpoints
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Get("/lessons", s.handleListTracks)
		r.Get("/lessons/{lang}", s.handleListLessons)

		// Everything below needs a login token.
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/auth/logout", s.handleLogout)

			// Student side
			r.Post("/lessons/{lang}/{id}/submit", s.handleSubmitQuiz)
			r.Get("/me/progress", s.handleGetProgress)
			r.Get("/me/classrooms", s.handleGetMyClassrooms)
			r.Get("/me/assignments", s.handleGetMyAssignments)
			r.Get("/me/feed", s.handleGetMyFeed)
			r.Get("/me/notifications", s.handleGetNotifications)
			r.Post("/me/notifications/read", s.handleMarkNotificationsRead)
			r.Get("/me/reach-outs", s.handleGetReachOuts)
			r.Post("/classrooms/join", s.handleJoinClassroom)

			// Teacher side
			r.Post("/classrooms", s.handleCreateClassroom)
			r.Get("/classrooms", s.handleListOwnedClassrooms)
			r.Get("/classrooms/{id}", s.handleClassroomOverview)
			r.Delete("/classrooms/{id}", s.handleDeleteClassroom)
			r.Get("/classrooms/{id}/gradebook", s.handleGradebook)
			r.Post("/classrooms/{id}/assignments", s.handleCreateAssignment)
			r.Post("/classrooms/{id}/announcements", s.handlePostAnnouncement)
			r.Post("/classrooms/{id}/invites", s.handleInviteStudent)
			r.Post("/submissions/{id}/grade", s.handleGradeSubmission)
			r.Post("/students/{id}/reach-out", s.handleReachOut)

			// Shared
			r.Get("/assignments/{id}/students/{studentID}/comments", s.handleGetThread)
			r.Post("/assignments/{id}/students/{studentID}/comments", s.handleAddComment)
		})
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// loggingMiddleware logs all HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("http request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", ww.Status()),
			logger.Int64("duration_ms", time.Since(start).Milliseconds()),
			logger.String("ip", r.RemoteAddr),
			logger.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// recoveryMiddleware recovers from panics and returns 500.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered",
					logger.Any("error", rec),
					logger.String("stack", string(debug.Stack())),
					logger.String("path", r.URL.Path),
					logger.String("request_id", middleware.GetReqID(r.Context())),
				)
				writeError(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", logger.String("address", s.config.Address()))

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("shutting down HTTP server")
	s.sessions.Close()
	return s.httpServer.Shutdown(ctx)
}

// IsRunning reports whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Uptime returns the server uptime.
func (s *Server) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startedAt)
}
