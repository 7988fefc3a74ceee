package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizforge/quizforge-backend/internal/config"
	"github.com/quizforge/quizforge-backend/internal/database"
	"github.com/quizforge/quizforge-backend/internal/handler"
	"github.com/quizforge/quizforge-backend/internal/logger"
	"github.com/quizforge/quizforge-backend/internal/repository"
	"github.com/quizforge/quizforge-backend/internal/router"
	"github.com/quizforge/quizforge-backend/internal/service"
	"github.com/quizforge/quizforge-backend/internal/validator"
	"github.com/quizforge/quizforge-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting QuizForge Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	regRepo := repository.NewRegistrationRepository(pool)
	subRepo := repository.NewSubmissionRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	recRepo := repository.NewRecommendationRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	userService := service.NewUserService(userRepo, subRepo, authService)
	newsService := service.NewNewsService(cfg, rdb, logger.Component(log, "news"))
	resultsService := service.NewResultsService(quizRepo, subRepo, userRepo, rdb,
		cfg.LeaderboardSize, logger.Component(log, "results"))
	queue := worker.NewQueue(rdb, log)
	attemptService := service.NewAttemptService(quizRepo, regRepo, subRepo, eventRepo,
		queue, cfg.SubmitGrace, logger.Component(log, "attempt"))
	quizAdminService := service.NewQuizAdminService(quizRepo, eventRepo, logger.Component(log, "quiz_admin"))
	recService := service.NewRecommendationService(recRepo, eventRepo, newsService, logger.Component(log, "recommendation"))
	analyticsService := service.NewAnalyticsService(analyticsRepo)

	generator, err := service.NewGeminiGenerator(ctx, cfg)
	if err != nil {
		// Generation endpoints fail cleanly without a key; everything else runs.
		log.Warn().Err(err).Msg("Gemini unavailable, quiz generation disabled")
	}
	generationService := service.NewGenerationService(quizRepo, eventRepo, generator,
		newsService, logger.Component(log, "generation"))

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:           handler.NewAuthHandler(userService, authService),
		Attempt:        handler.NewAttemptHandler(attemptService, resultsService),
		AdminQuiz:      handler.NewAdminQuizHandler(generationService, quizAdminService, newsService, recService),
		AdminUser:      handler.NewAdminUserHandler(userService),
		Analytics:      handler.NewAnalyticsHandler(analyticsService),
		Recommendation: handler.NewRecommendationHandler(recService),
		Monitor:        handler.NewMonitorHandler(rdb, quizAdminService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	leaderboardWorker := worker.NewLeaderboardWorker(resultsService, rdb, log)
	go leaderboardWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the worker and let it finish its current refresh.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
