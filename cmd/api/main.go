package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/kmdelmundo/tutormatch_api/internal/app"
	"github.com/kmdelmundo/tutormatch_api/internal/config"
	httpcontroller "github.com/kmdelmundo/tutormatch_api/internal/controller/http"
	"github.com/kmdelmundo/tutormatch_api/internal/controller/http/handlers"
	"github.com/kmdelmundo/tutormatch_api/internal/repository"
	"github.com/kmdelmundo/tutormatch_api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Repositories
	profileRepo := repository.NewProfileRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	// Services
	weights := service.DefaultWeights()
	if cfg.HasCustomWeights() {
		weights = service.Weights{
			SubjectOverlap: cfg.MatchWeightSubjects,
			Location:       cfg.MatchWeightLocation,
			LevelStyle:     cfg.MatchWeightLevelStyle,
			Availability:   cfg.MatchWeightAvailability,
			Rating:         cfg.MatchWeightRating,
		}
		if weights.Total() != 100 {
			logger.Warn("Match weights do not sum to 100, scores will not read as percentages",
				zap.Int("total", weights.Total()))
		}
	}

	notifier := service.NewNotificationService(notificationRepo, logger)
	matchingService := service.NewMatchingService(profileRepo, availabilityRepo, weights, logger)
	sessionService := service.NewSessionService(sessionRepo, profileRepo, subjectRepo, notifier, logger)
	reviewService := service.NewReviewService(reviewRepo, sessionRepo, notifier, logger)
	availabilityService := service.NewAvailabilityService(availabilityRepo, profileRepo, logger)

	router := httpcontroller.NewRouter(httpcontroller.RouterConfig{
		Environment:  cfg.Environment,
		CORSOrigins:  cfg.CORSOrigins,
		Matching:     handlers.NewMatchingHandler(matchingService, logger),
		Sessions:     handlers.NewSessionsHandler(sessionService, reviewService, logger),
		Availability: handlers.NewAvailabilityHandler(availabilityService, logger),
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
