// Package main is the entry point for the CodeCourse server: the lesson
// quiz API, classroom management, and the notification/stream fan-out.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/codeformaine/codecourse/config"
	"github.com/codeformaine/codecourse/internal/application/command"
	"github.com/codeformaine/codecourse/internal/application/eventhandler"
	"github.com/codeformaine/codecourse/internal/application/query"
	"github.com/codeformaine/codecourse/internal/domain/feed"
	"github.com/codeformaine/codecourse/internal/infrastructure/messaging"
	"github.com/codeformaine/codecourse/internal/infrastructure/persistence/postgres"
	"github.com/codeformaine/codecourse/internal/infrastructure/persistence/redis"
	"github.com/codeformaine/codecourse/internal/infrastructure/service"
	httpiface "github.com/codeformaine/codecourse/internal/interface/http"
	"github.com/codeformaine/codecourse/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.App.LogLevel),
		Output: os.Stdout,
	})
	log.Info("starting CodeCourse server",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	// The event bus and its handlers log through slog.
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	log.Info("running database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	userRepo := postgres.NewUserRepository(dbConn)
	progressRepo := postgres.NewProgressRepository(dbConn)
	classroomRepo := postgres.NewClassroomRepository(dbConn)
	assignmentRepo := postgres.NewAssignmentRepository(dbConn)
	submissionRepo := postgres.NewSubmissionRepository(dbConn)
	commentRepo := postgres.NewCommentRepository(dbConn)
	streamRepo := postgres.NewStreamRepository(dbConn)
	reachOutRepo := postgres.NewReachOutRepository(dbConn)

	// Redis is an optional read-through cache for the notification badge;
	// without it every badge read hits Postgres.
	var notificationRepo feed.NotificationRepository = postgres.NewNotificationRepository(dbConn)
	if cfg.Redis.Enabled() {
		log.Info("connecting to Redis...", logger.String("addr", cfg.Redis.Addr))
		redisCfg := redis.DefaultConfig()
		if host, port, err := net.SplitHostPort(cfg.Redis.Addr); err == nil {
			redisCfg.Host = host
			if p, err := strconv.Atoi(port); err == nil {
				redisCfg.Port = p
			}
		}
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB

		cache, err := redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, badge caching disabled", logger.Err(err))
		} else {
			defer cache.Close()
			notificationRepo = redis.NewCachedNotificationRepository(notificationRepo, cache, log)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. SERVICES
	// ─────────────────────────────────────────────────────────────────────────
	identity := service.NewIdentityService(userRepo)

	catalog, err := service.LoadLessonCatalog(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to load lesson catalog: %w", err)
	}
	log.Info("lesson catalog loaded",
		logger.String("path", cfg.Catalog.Path),
		logger.Int("tracks", len(catalog.Tracks())),
	)

	var mailer service.Mailer
	if cfg.SMTP.Enabled() {
		mailer = service.NewSMTPMailer(service.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, log)
	} else {
		mailer = service.NewLogMailer(log)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. EVENT BUS & FAN-OUT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	busCfg := messaging.DefaultInMemoryEventBusConfig()
	busCfg.Logger = slogger
	bus := messaging.NewInMemoryEventBus(busCfg)
	defer func() {
		log.Info("closing event bus...")
		_ = bus.Close()
	}()

	onAssignment := eventhandler.NewOnAssignmentCreatedHandler(classroomRepo, streamRepo, notificationRepo, slogger)
	onGraded := eventhandler.NewOnSubmissionGradedHandler(streamRepo, notificationRepo, slogger)
	onAnnouncement := eventhandler.NewOnAnnouncementPostedHandler(classroomRepo, streamRepo, notificationRepo, slogger)
	onJoined := eventhandler.NewOnStudentJoinedHandler(classroomRepo, userRepo, notificationRepo, slogger)
	onStreak := eventhandler.NewOnStreakAdvancedHandler(notificationRepo, slogger, eventhandler.DefaultStreakAdvancedConfig())
	onComment := eventhandler.NewOnCommentAddedHandler(classroomRepo, userRepo, notificationRepo, slogger)

	if err := bus.Subscribe(onAssignment.EventType(), onAssignment.Handle); err != nil {
		return fmt.Errorf("failed to subscribe handler: %w", err)
	}
	if err := bus.Subscribe(onGraded.EventType(), onGraded.Handle); err != nil {
		return fmt.Errorf("failed to subscribe handler: %w", err)
	}
	if err := bus.Subscribe(onAnnouncement.EventType(), onAnnouncement.Handle); err != nil {
		return fmt.Errorf("failed to subscribe handler: %w", err)
	}
	if err := bus.Subscribe(onJoined.EventType(), onJoined.Handle); err != nil {
		return fmt.Errorf("failed to subscribe handler: %w", err)
	}
	if err := bus.Subscribe(onStreak.EventType(), onStreak.Handle); err != nil {
		return fmt.Errorf("failed to subscribe handler: %w", err)
	}
	if err := bus.Subscribe(onComment.EventType(), onComment.Handle); err != nil {
		return fmt.Errorf("failed to subscribe handler: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	reconciler := command.NewReconciler(progressRepo, assignmentRepo, submissionRepo, classroomRepo, log)
	grader := catalogGrader{catalog: catalog}

	deps := httpiface.Dependencies{
		Identity: identity,
		Catalog:  catalog,

		CompleteLesson:        command.NewCompleteLessonHandler(grader, progressRepo, userRepo, reconciler, bus, log),
		CreateClassroom:       command.NewCreateClassroomHandler(identity, classroomRepo, bus, log),
		JoinClassroom:         command.NewJoinClassroomHandler(identity, classroomRepo, reconciler, bus, log),
		DeleteClassroom:       command.NewDeleteClassroomHandler(identity, classroomRepo, bus, log),
		CreateAssignment:      command.NewCreateAssignmentHandler(identity, catalog, classroomRepo, assignmentRepo, reconciler, bus, log),
		GradeSubmission:       command.NewGradeSubmissionHandler(identity, classroomRepo, assignmentRepo, submissionRepo, bus, log),
		PostAnnouncement:      command.NewPostAnnouncementHandler(identity, classroomRepo, bus, log),
		AddComment:            command.NewAddCommentHandler(userRepo, classroomRepo, assignmentRepo, commentRepo, bus, log),
		InviteStudent:         command.NewInviteStudentHandler(identity, classroomRepo, mailer, log),
		ReachOut:              command.NewReachOutHandler(identity, userRepo, classroomRepo, reachOutRepo, mailer, log),
		MarkNotificationsRead: command.NewMarkNotificationsReadHandler(notificationRepo, log),

		GetStudentAssignments:  query.NewGetStudentAssignmentsHandler(classroomRepo, assignmentRepo, submissionRepo),
		GetStudentFeed:         query.NewGetStudentFeedHandler(classroomRepo, streamRepo),
		GetStudentProgress:     query.NewGetStudentProgressHandler(progressRepo, userRepo),
		GetUnreadNotifications: query.NewGetUnreadNotificationsHandler(notificationRepo),
		GetClassroomOverview:   query.NewGetClassroomOverviewHandler(classroomRepo, userRepo, assignmentRepo, submissionRepo, streamRepo),
		GetGradebook:           query.NewGetGradebookHandler(classroomRepo, userRepo, assignmentRepo, submissionRepo),
		GetCommentThread:       query.NewGetCommentThreadHandler(assignmentRepo, classroomRepo, commentRepo),
		GetTeacherClassrooms:   query.NewGetTeacherClassroomsHandler(classroomRepo),
		GetStudentClassrooms:   query.NewGetStudentClassroomsHandler(classroomRepo),
		GetReachOuts:           query.NewGetReachOutsHandler(reachOutRepo),

		Pinger: dbConn,
		Logger: log,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpiface.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.SessionTTL = cfg.HTTP.SessionTTL

	server := httpiface.NewServer(serverCfg, deps)
	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 9. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info("CodeCourse server stopped")
	return nil
}

// catalogGrader adapts the lesson catalog to the quiz grader the complete
// lesson command expects.
type catalogGrader struct {
	catalog *service.LessonCatalog
}

func (g catalogGrader) GradeQuiz(lang string, lessonID int, answers []int) (command.QuizScore, error) {
	res, err := g.catalog.GradeQuiz(lang, lessonID, answers)
	if err != nil {
		return command.QuizScore{}, err
	}
	return command.QuizScore{Score: res.Score, Passed: res.Passed, XP: res.XP}, nil
}
