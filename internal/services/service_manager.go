package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/quizmaster-pro/exam-service/internal/events"
	"github.com/quizmaster-pro/exam-service/internal/exam"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
	"github.com/quizmaster-pro/exam-service/internal/store"
	"github.com/quizmaster-pro/exam-service/internal/validator"
)

// ServiceManagerConfig carries the tunables services need beyond their
// collaborators.
type ServiceManagerConfig struct {
	ExamLimits exam.Limits
	AuthDelay  time.Duration
}

type serviceManager struct {
	repo      repositories.Repository
	kv        store.KVStore
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	config    ServiceManagerConfig

	auth         AuthService
	exam         ExamService
	statistics   StatisticsService
	achievement  AchievementService
	chapter      ChapterService
	question     QuestionService
	report       ReportService
	dashboard    DashboardService
	importExport ImportExportService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager wires every service with shared collaborators.
func NewServiceManager(
	repo repositories.Repository,
	kv store.KVStore,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
	config ServiceManagerConfig,
) ServiceManager {
	m := &serviceManager{
		repo:      repo,
		kv:        kv,
		publisher: publisher,
		logger:    logger,
		validator: v,
		config:    config,
	}

	m.statistics = NewStatisticsService(repo, logger)
	m.achievement = NewAchievementService(repo, logger)
	m.auth = NewAuthService(repo, kv, publisher, logger, v, config.AuthDelay)
	m.exam = NewExamService(repo, kv, publisher, m.statistics, m.achievement, logger, v, config.ExamLimits)
	m.chapter = NewChapterService(repo, logger, v)
	m.question = NewQuestionService(repo, logger, v)
	m.report = NewReportService(repo, publisher, logger, v)
	m.dashboard = NewDashboardService(repo, logger)
	m.importExport = NewImportExportService(repo, logger)

	return m
}

func (m *serviceManager) Auth() AuthService                 { return m.auth }
func (m *serviceManager) Exam() ExamService                 { return m.exam }
func (m *serviceManager) Statistics() StatisticsService     { return m.statistics }
func (m *serviceManager) Achievement() AchievementService   { return m.achievement }
func (m *serviceManager) Chapter() ChapterService           { return m.chapter }
func (m *serviceManager) Question() QuestionService         { return m.question }
func (m *serviceManager) Report() ReportService             { return m.report }
func (m *serviceManager) Dashboard() DashboardService       { return m.dashboard }
func (m *serviceManager) ImportExport() ImportExportService { return m.importExport }

func (m *serviceManager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if m.shutdown {
		return fmt.Errorf("service manager already shut down")
	}

	if err := m.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	m.initialized = true
	m.logger.Info("service manager initialized")
	return nil
}

func (m *serviceManager) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if m.shutdown {
		return fmt.Errorf("service manager shut down")
	}
	return m.repo.Ping(ctx)
}

func (m *serviceManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shutdown {
		return nil
	}
	m.shutdown = true

	if err := m.publisher.Close(); err != nil {
		m.logger.Warn("failed to close event publisher", "error", err)
	}

	m.logger.Info("service manager shut down")
	return nil
}
