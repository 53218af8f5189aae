package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
)

// maxRecentActivity bounds the per-user activity log.
const maxRecentActivity = 20

type statisticsService struct {
	repo   repositories.Repository
	logger *slog.Logger

	// now is swapped in tests to control the streak clock.
	now func() time.Time
}

func NewStatisticsService(repo repositories.Repository, logger *slog.Logger) StatisticsService {
	return &statisticsService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *statisticsService) Get(ctx context.Context, userID string) (*models.UserStatistics, error) {
	stats, err := s.repo.Statistics().Get(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// A user with no completed exams has empty statistics, not an
			// error.
			return &models.UserStatistics{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	return stats, nil
}

// RecordExam folds one completed exam into the cumulative aggregates.
func (s *statisticsService) RecordExam(ctx context.Context, session models.ExamSession, result *models.ExamResult) (*models.UserStatistics, error) {
	stats, err := s.Get(ctx, result.StudentID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	stats.TotalExamsAttempted++
	stats.TotalQuestionsAnswered += result.TotalQuestions
	stats.TotalCorrectAnswers += result.CorrectAnswers
	stats.TotalTimeSpent += result.TimeSpent

	// Running mean over exam count; no re-scan of history.
	n := float64(stats.TotalExamsAttempted)
	stats.AverageScore = stats.AverageScore + (float64(result.Score)-stats.AverageScore)/n

	if result.Score > stats.BestScore {
		stats.BestScore = result.Score
	}

	s.advanceStreak(stats, now)
	s.mergeChapterStats(stats, result, now)
	s.appendActivity(stats, models.UserActivity{
		ID:          uuid.NewString(),
		Type:        models.ActivityExamCompleted,
		Description: fmt.Sprintf("Completed an exam with a score of %d%%", result.Score),
		Timestamp:   now,
	})

	if err := s.repo.Statistics().Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to save statistics: %w", err)
	}
	return stats, nil
}

// advanceStreak applies the consecutive-day rule: an exam on the same
// day keeps the streak, on the next day extends it, after a gap resets
// it to 1.
func (s *statisticsService) advanceStreak(stats *models.UserStatistics, now time.Time) {
	today := midnightUTC(now)

	switch {
	case stats.LastActivityDate == nil:
		stats.CurrentStreak = 1
	case stats.LastActivityDate.Equal(today):
		// Same day, streak unchanged.
	case stats.LastActivityDate.Equal(today.AddDate(0, 0, -1)):
		stats.CurrentStreak++
	default:
		stats.CurrentStreak = 1
	}

	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.LastActivityDate = &today
}

func (s *statisticsService) mergeChapterStats(stats *models.UserStatistics, result *models.ExamResult, now time.Time) {
	chapters := stats.ChapterStats.Data()
	byID := make(map[string]int, len(chapters))
	for i, ch := range chapters {
		byID[ch.ChapterID] = i
	}

	for _, cr := range result.ChapterResults.Data() {
		idx, ok := byID[cr.ChapterID]
		if !ok {
			chapters = append(chapters, models.ChapterStats{ChapterID: cr.ChapterID})
			idx = len(chapters) - 1
			byID[cr.ChapterID] = idx
		}
		ch := &chapters[idx]

		ch.AttemptsCount++
		ch.QuestionsAnswered += cr.TotalQuestions
		ch.CorrectAnswers += cr.CorrectAnswers
		if ch.QuestionsAnswered > 0 {
			ch.Accuracy = int(float64(100*ch.CorrectAnswers)/float64(ch.QuestionsAnswered) + 0.5)
		}
		ch.AverageScore = ch.AverageScore + (float64(cr.Accuracy)-ch.AverageScore)/float64(ch.AttemptsCount)
		ch.LastAttempted = now
	}

	stats.ChapterStats = datatypes.NewJSONType(chapters)
}

// appendActivity prepends one entry, keeping the log most-recent-first
// and bounded.
func (s *statisticsService) appendActivity(stats *models.UserStatistics, activity models.UserActivity) {
	log := stats.RecentActivity.Data()
	log = append([]models.UserActivity{activity}, log...)
	if len(log) > maxRecentActivity {
		log = log[:maxRecentActivity]
	}
	stats.RecentActivity = datatypes.NewJSONType(log)
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
