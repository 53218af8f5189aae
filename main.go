package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/quizmaster-pro/exam-service/internal/config"
	"github.com/quizmaster-pro/exam-service/internal/events"
	"github.com/quizmaster-pro/exam-service/internal/exam"
	"github.com/quizmaster-pro/exam-service/internal/handlers"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
	"github.com/quizmaster-pro/exam-service/internal/repositories/memory"
	postgresrepo "github.com/quizmaster-pro/exam-service/internal/repositories/postgres"
	"github.com/quizmaster-pro/exam-service/internal/services"
	"github.com/quizmaster-pro/exam-service/internal/store"
	"github.com/quizmaster-pro/exam-service/internal/utils"
	"github.com/quizmaster-pro/exam-service/internal/validator"
	"github.com/quizmaster-pro/exam-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	repo, err := buildRepository(cfg, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Redis backs tokens, exam settings and theme preferences; without
	// it the in-process store serves the same keys.
	var redisClient *redis.Client
	var kv store.KVStore = store.NewMemoryStore()
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis: %v", err)
		} else {
			kv = store.NewRedisStore(redisClient, "exam-service")
		}
	}

	publisher, err := buildPublisher(cfg, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}

	v := validator.New()

	serviceManager := services.NewServiceManager(repo, kv, publisher, slogLogger, v, services.ServiceManagerConfig{
		ExamLimits: exam.Limits{
			MinQuestions:     cfg.Exam.MinQuestions,
			MaxQuestions:     cfg.Exam.MaxQuestions,
			DefaultQuestions: cfg.Exam.DefaultQuestions,
			DefaultTimeLimit: cfg.Exam.DefaultTimeLimit,
		},
		AuthDelay: cfg.AuthDelay,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	handlerManager := handlers.NewHandlerManager(serviceManager, v, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting server",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"storage", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	if err := repo.Close(); err != nil {
		log.Printf("Failed to close storage: %v", err)
	}

	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}

// buildRepository selects the storage backend. The postgres driver
// migrates and seeds on startup; the memory driver starts pre-seeded.
func buildRepository(cfg *config.Config, logger *slog.Logger) (repositories.Repository, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		repo := postgresrepo.NewPostgreSQLRepository(db)
		if err := repo.Migrate(context.Background()); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("postgres storage ready")
		return repo, nil
	default:
		logger.Info("in-memory storage ready")
		return memory.NewRepository(), nil
	}
}

// buildPublisher wires Kafka when brokers are configured, the
// in-process Go channel pub/sub otherwise.
func buildPublisher(cfg *config.Config, logger *slog.Logger) (events.EventPublisher, error) {
	if len(cfg.KafkaBrokers) > 0 {
		return events.NewKafkaPublisher(cfg.KafkaBrokers, logger)
	}
	return events.NewGoChannelPublisher(logger), nil
}
