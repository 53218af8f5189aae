package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quizmaster-pro/exam-service/internal/achievements"
	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
)

type achievementService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewAchievementService(repo repositories.Repository, logger *slog.Logger) AchievementService {
	return &achievementService{repo: repo, logger: logger}
}

func (s *achievementService) Catalog(ctx context.Context) []models.Achievement {
	return achievements.Catalog
}

func (s *achievementService) GetUserProgress(ctx context.Context, userID string) ([]AchievementProgress, error) {
	rows, err := s.repo.Achievement().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user achievements: %w", err)
	}

	byID := make(map[string]models.UserAchievement, len(rows))
	for _, row := range rows {
		byID[row.AchievementID] = row
	}

	out := make([]AchievementProgress, 0, len(achievements.Catalog))
	for _, a := range achievements.Catalog {
		if !a.IsActive {
			continue
		}
		progress := AchievementProgress{Achievement: a}
		if row, ok := byID[a.ID]; ok {
			progress.Progress = row.Progress
			progress.IsCompleted = row.IsCompleted
			progress.UnlockedAt = row.UnlockedAt
		}
		out = append(out, progress)
	}
	return out, nil
}

func (s *achievementService) EvaluateOnExam(ctx context.Context, userID string, stats models.UserStatistics, timeSpent, score int) ([]models.UserAchievement, error) {
	existing, err := s.repo.Achievement().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user achievements: %w", err)
	}

	examCtx := &achievements.ExamContext{TimeSpent: timeSpent, Score: score}
	changed := achievements.Evaluate(userID, stats, existing, examCtx, time.Now())
	if len(changed) == 0 {
		return nil, nil
	}

	if err := s.repo.Achievement().Upsert(ctx, changed); err != nil {
		return nil, fmt.Errorf("failed to save user achievements: %w", err)
	}

	var unlocked []models.UserAchievement
	for _, row := range changed {
		if row.IsCompleted {
			unlocked = append(unlocked, row)
			s.logger.Info("achievement unlocked", "user_id", userID, "achievement_id", row.AchievementID)
		}
	}
	return unlocked, nil
}
