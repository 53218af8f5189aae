// Package postgres is the durable repository implementation on GORM.
// It owns schema migration and first-run seeding of the demo dataset.
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface.
type PostgreSQLRepository struct {
	db *gorm.DB

	chapter     repositories.ChapterRepository
	question    repositories.QuestionRepository
	user        repositories.UserRepository
	session     repositories.SessionRepository
	report      repositories.ReportRepository
	statistics  repositories.StatisticsRepository
	achievement repositories.AchievementRepository
}

// NewPostgreSQLRepository creates a repository manager with all
// sub-repositories. Call Migrate before serving traffic.
func NewPostgreSQLRepository(db *gorm.DB) *PostgreSQLRepository {
	return &PostgreSQLRepository{
		db:          db,
		chapter:     NewChapterPostgreSQL(db),
		question:    NewQuestionPostgreSQL(db),
		user:        NewUserPostgreSQL(db),
		session:     NewSessionPostgreSQL(db),
		report:      NewReportPostgreSQL(db),
		statistics:  NewStatisticsPostgreSQL(db),
		achievement: NewAchievementPostgreSQL(db),
	}
}

func (r *PostgreSQLRepository) Chapter() repositories.ChapterRepository         { return r.chapter }
func (r *PostgreSQLRepository) Question() repositories.QuestionRepository       { return r.question }
func (r *PostgreSQLRepository) User() repositories.UserRepository               { return r.user }
func (r *PostgreSQLRepository) Session() repositories.SessionRepository         { return r.session }
func (r *PostgreSQLRepository) Report() repositories.ReportRepository           { return r.report }
func (r *PostgreSQLRepository) Statistics() repositories.StatisticsRepository   { return r.statistics }
func (r *PostgreSQLRepository) Achievement() repositories.AchievementRepository { return r.achievement }

// Migrate runs schema auto-migration and seeds the demo dataset when
// the chapters table is empty.
func (r *PostgreSQLRepository) Migrate(ctx context.Context) error {
	err := r.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Chapter{},
		&models.Question{},
		&models.ExamSession{},
		&models.ExamResult{},
		&models.Report{},
		&models.UserStatistics{},
		&models.UserAchievement{},
	)
	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Chapter{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count chapters: %w", err)
	}
	if count > 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chapters := repositories.DemoChapters()
		if err := tx.Create(&chapters).Error; err != nil {
			return fmt.Errorf("failed to seed chapters: %w", err)
		}
		questions := repositories.DemoQuestions()
		if err := tx.CreateInBatches(&questions, 100).Error; err != nil {
			return fmt.Errorf("failed to seed questions: %w", err)
		}
		users := repositories.DemoUsers()
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		return nil
	})
}

// Ping checks the health of the database connection.
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
