package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/PengWorks1114/vocabularydb/internal/api"
	"github.com/PengWorks1114/vocabularydb/internal/api/middleware"
	"github.com/PengWorks1114/vocabularydb/internal/config"
	"github.com/PengWorks1114/vocabularydb/internal/domain/srs"
	"github.com/PengWorks1114/vocabularydb/internal/events"
	"github.com/PengWorks1114/vocabularydb/internal/generation"
	"github.com/PengWorks1114/vocabularydb/internal/platform/gemini"
	"github.com/PengWorks1114/vocabularydb/internal/platform/postgres"
	"github.com/PengWorks1114/vocabularydb/internal/service"
	"github.com/PengWorks1114/vocabularydb/internal/service/auth"
	"github.com/PengWorks1114/vocabularydb/internal/service/review"
	"github.com/PengWorks1114/vocabularydb/internal/service/study"
	"github.com/PengWorks1114/vocabularydb/internal/session"
	"github.com/PengWorks1114/vocabularydb/internal/task"
)

// application holds the fully wired dependency graph for the HTTP server.
type application struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB

	authHandler     *api.AuthHandler
	userHandler     *api.UserHandler
	wordbookHandler *api.WordbookHandler
	wordHandler     *api.WordHandler
	reviewHandler   *api.ReviewHandler
	studyHandler    *api.StudyHandler
	statsHandler    *api.StatsHandler
	authMiddleware  *middleware.AuthMiddleware

	taskRunner *task.TaskRunner
}

// newApplication wires stores, services, background workers, and HTTP
// handlers from the loaded configuration.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	userStore := postgres.NewUserStore(db, cfg.Auth.BcryptCost, log)
	wordbookStore := postgres.NewWordbookStore(db, log)
	wordStore := postgres.NewWordStore(db, log)
	scheduleStore := postgres.NewScheduleStore(db, log)
	logStore := postgres.NewReviewLogStore(db, log)
	taskStore := postgres.NewTaskStore(db, log)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	passwordVerifier := auth.NewBcryptVerifier()

	generator, err := setupGenerator(cfg.LLM, log)
	if err != nil {
		return nil, err
	}

	emitter := events.NewInMemoryEventEmitter(log)
	runner := task.NewTaskRunner(taskStore, task.TaskRunnerConfig{
		WorkerCount:            cfg.Task.WorkerCount,
		QueueSize:              cfg.Task.QueueSize,
		StuckTaskAge:           time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute,
		StuckTaskCheckInterval: task.DefaultTaskRunnerConfig().StuckTaskCheckInterval,
	}, log)

	// The generation pipeline only exists when a generator is configured.
	// Without one the queueing endpoints report generation as disabled.
	var asyncEmitter events.EventEmitter
	if generator != nil {
		asyncEmitter = emitter
	}

	srsService := srs.NewDefaultService()

	userService := service.NewUserService(userStore, db, log)
	wordbookService := service.NewWordbookService(wordbookStore, log)
	wordService := service.NewWordService(wordStore, wordbookStore, generator, asyncEmitter, log)
	statsService := service.NewStatsService(logStore, wordStore, wordbookStore, log)

	if generator != nil {
		factory := task.NewExampleGenerationTaskFactory(wordStore, generator, wordService, log)
		runner.RegisterFactory(task.TaskTypeExampleGeneration, factory.Factory())
		emitter.RegisterHandler(task.NewExampleGenerationEventHandler(factory, runner, log))
	}

	reviewService := review.NewService(
		review.NewWordRepositoryAdapter(wordStore, db),
		wordbookStore,
		review.NewScheduleRepositoryAdapter(scheduleStore),
		review.NewReviewLogRepositoryAdapter(logStore),
		srsService,
		wordService,
		log,
	)
	studyService := study.NewService(
		wordStore, wordbookStore, scheduleStore, session.NewComposer(nil), wordService, log,
	)

	tokenLifetime := time.Duration(cfg.Auth.TokenLifetimeMinutes) * time.Minute

	app := &application{
		cfg:             cfg,
		logger:          log,
		db:              db,
		authHandler:     api.NewAuthHandler(userStore, jwtService, passwordVerifier, tokenLifetime),
		userHandler:     api.NewUserHandler(userService, log),
		wordbookHandler: api.NewWordbookHandler(wordbookService, log),
		wordHandler:     api.NewWordHandler(wordService, log),
		reviewHandler:   api.NewReviewHandler(reviewService, log),
		studyHandler:    api.NewStudyHandler(studyService, log),
		statsHandler:    api.NewStatsHandler(statsService, log),
		authMiddleware:  middleware.NewAuthMiddleware(jwtService),
		taskRunner:      runner,
	}

	return app, nil
}

// setupGenerator builds the Gemini-backed example generator, or returns nil
// when no API key is configured.
func setupGenerator(cfg config.LLMConfig, log *slog.Logger) (generation.Generator, error) {
	if cfg.GeminiAPIKey == "" {
		log.Info("no LLM API key configured, example generation disabled")
		return nil, nil
	}

	gen, err := gemini.NewGeminiGenerator(context.Background(), log, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create example generator: %w", err)
	}
	return gen, nil
}

// Run starts the background task runner and serves HTTP until a shutdown
// signal arrives. Cleanup happens in reverse wiring order.
func (a *application) Run() error {
	if err := a.taskRunner.Start(); err != nil {
		return fmt.Errorf("failed to start task runner: %w", err)
	}
	defer a.cleanup()

	return a.serveHTTP(a.routes())
}

func (a *application) cleanup() {
	a.taskRunner.Stop()
	closeDatabase(a.db, a.logger)
}
