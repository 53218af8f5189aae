package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
)

type StatisticsPostgreSQL struct {
	db *gorm.DB
}

func NewStatisticsPostgreSQL(db *gorm.DB) repositories.StatisticsRepository {
	return &StatisticsPostgreSQL{db: db}
}

func (r *StatisticsPostgreSQL) Get(ctx context.Context, userID string) (*models.UserStatistics, error) {
	var stats models.UserStatistics
	if err := r.db.WithContext(ctx).First(&stats, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.NewNotFoundError("user statistics", userID)
		}
		return nil, fmt.Errorf("failed to get user statistics: %w", err)
	}
	return &stats, nil
}

func (r *StatisticsPostgreSQL) Save(ctx context.Context, stats *models.UserStatistics) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(stats).Error
	if err != nil {
		return fmt.Errorf("failed to save user statistics: %w", err)
	}
	return nil
}

type AchievementPostgreSQL struct {
	db *gorm.DB
}

func NewAchievementPostgreSQL(db *gorm.DB) repositories.AchievementRepository {
	return &AchievementPostgreSQL{db: db}
}

func (r *AchievementPostgreSQL) GetByUser(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	var rows []models.UserAchievement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("achievement_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user achievements: %w", err)
	}
	return rows, nil
}

func (r *AchievementPostgreSQL) Upsert(ctx context.Context, rows []models.UserAchievement) error {
	if len(rows) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			UpdateAll: true,
		}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user achievements: %w", err)
	}
	return nil
}
