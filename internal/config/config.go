// Package config loads service configuration from the environment,
// with a .env file honored in development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type ExamConfig struct {
	MinQuestions     int
	MaxQuestions     int
	DefaultQuestions int
	DefaultTimeLimit int // seconds
}

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// StorageDriver selects the repository backend. The in-memory
	// driver needs no external services and is the default.
	StorageDriver string
	DatabaseURL   string

	RedisURL     string
	KafkaBrokers []string

	Exam ExamConfig

	// AuthDelay simulates the identity-provider round trip of the
	// mocked login flow.
	AuthDelay time.Duration
}

// LoadConfig reads the environment. A missing .env file is fine;
// invalid values are not.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      parseLogLevel(getEnv("LOG_LEVEL", "info")),
		StorageDriver: getEnv("STORAGE_DRIVER", StorageMemory),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		Exam: ExamConfig{
			MinQuestions:     getEnvInt("EXAM_MIN_QUESTIONS", 5),
			MaxQuestions:     getEnvInt("EXAM_MAX_QUESTIONS", 100),
			DefaultQuestions: getEnvInt("EXAM_DEFAULT_QUESTIONS", 20),
			DefaultTimeLimit: getEnvInt("EXAM_DEFAULT_TIME_LIMIT", 3600),
		},
		AuthDelay: time.Duration(getEnvInt("AUTH_DELAY_MS", 1000)) * time.Millisecond,
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	switch cfg.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required with the postgres storage driver")
		}
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	if cfg.Exam.MinQuestions <= 0 || cfg.Exam.MaxQuestions < cfg.Exam.MinQuestions {
		return nil, fmt.Errorf("invalid exam question bounds: min %d max %d",
			cfg.Exam.MinQuestions, cfg.Exam.MaxQuestions)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
