package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories/memory"
)

func newStatisticsFixture(t *testing.T, clock func() time.Time) (*statisticsService, *models.ExamResult) {
	t.Helper()

	service := NewStatisticsService(memory.NewRepository(), testLogger()).(*statisticsService)
	if clock != nil {
		service.now = clock
	}

	result := &models.ExamResult{
		ID:             "result-1",
		ExamSessionID:  "session-1",
		StudentID:      "student-1",
		TotalQuestions: 10,
		CorrectAnswers: 8,
		Score:          80,
		Accuracy:       80,
		TimeSpent:      120,
		ChapterResults: datatypes.NewJSONType([]models.ChapterResult{
			{ChapterID: "1", TotalQuestions: 10, CorrectAnswers: 8, Accuracy: 80},
		}),
	}
	return service, result
}

func TestStatisticsService_GetReturnsEmptyForNewUser(t *testing.T) {
	service, _ := newStatisticsFixture(t, nil)

	stats, err := service.Get(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stats.UserID != "never-seen" || stats.TotalExamsAttempted != 0 {
		t.Errorf("Get new user = %+v, want empty statistics", stats)
	}
}

func TestStatisticsService_RecordExamAggregates(t *testing.T) {
	service, result := newStatisticsFixture(t, nil)
	ctx := context.Background()

	stats, err := service.RecordExam(ctx, models.ExamSession{}, result)
	if err != nil {
		t.Fatalf("RecordExam: %v", err)
	}
	if stats.TotalExamsAttempted != 1 || stats.AverageScore != 80 || stats.BestScore != 80 {
		t.Fatalf("first exam stats = %+v", stats)
	}

	second := *result
	second.ID = "result-2"
	second.Score = 40
	second.CorrectAnswers = 4
	stats, err = service.RecordExam(ctx, models.ExamSession{}, &second)
	if err != nil {
		t.Fatalf("RecordExam second: %v", err)
	}

	if stats.TotalExamsAttempted != 2 {
		t.Errorf("TotalExamsAttempted = %d, want 2", stats.TotalExamsAttempted)
	}
	if stats.AverageScore != 60 {
		t.Errorf("AverageScore = %v, want 60", stats.AverageScore)
	}
	if stats.BestScore != 80 {
		t.Errorf("BestScore = %d, want 80 (lower score must not regress it)", stats.BestScore)
	}
	if stats.TotalQuestionsAnswered != 20 || stats.TotalCorrectAnswers != 12 {
		t.Errorf("totals = %d answered %d correct, want 20/12",
			stats.TotalQuestionsAnswered, stats.TotalCorrectAnswers)
	}

	chapters := stats.ChapterStats.Data()
	if len(chapters) != 1 {
		t.Fatalf("chapter stats rows = %d, want 1", len(chapters))
	}
	ch := chapters[0]
	if ch.AttemptsCount != 2 || ch.QuestionsAnswered != 20 || ch.CorrectAnswers != 12 {
		t.Errorf("chapter totals = %+v", ch)
	}
	if ch.Accuracy != 60 {
		t.Errorf("chapter accuracy = %d, want 60", ch.Accuracy)
	}

	activity := stats.RecentActivity.Data()
	if len(activity) != 2 {
		t.Fatalf("activity entries = %d, want 2", len(activity))
	}
	if activity[0].Type != models.ActivityExamCompleted {
		t.Errorf("activity type = %s", activity[0].Type)
	}
}

func TestStatisticsService_StreakRules(t *testing.T) {
	base := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	current := base

	service, result := newStatisticsFixture(t, func() time.Time { return current })
	ctx := context.Background()

	record := func(t *testing.T) *models.UserStatistics {
		t.Helper()
		stats, err := service.RecordExam(ctx, models.ExamSession{}, result)
		if err != nil {
			t.Fatalf("RecordExam: %v", err)
		}
		return stats
	}

	t.Run("first exam starts the streak", func(t *testing.T) {
		if stats := record(t); stats.CurrentStreak != 1 {
			t.Errorf("CurrentStreak = %d, want 1", stats.CurrentStreak)
		}
	})

	t.Run("same day keeps the streak", func(t *testing.T) {
		current = base.Add(4 * time.Hour)
		if stats := record(t); stats.CurrentStreak != 1 {
			t.Errorf("CurrentStreak = %d, want 1", stats.CurrentStreak)
		}
	})

	t.Run("next day extends it", func(t *testing.T) {
		current = base.AddDate(0, 0, 1)
		stats := record(t)
		if stats.CurrentStreak != 2 || stats.LongestStreak != 2 {
			t.Errorf("streak = %d/%d, want 2/2", stats.CurrentStreak, stats.LongestStreak)
		}
	})

	t.Run("a gap resets to one but keeps the longest", func(t *testing.T) {
		current = base.AddDate(0, 0, 5)
		stats := record(t)
		if stats.CurrentStreak != 1 {
			t.Errorf("CurrentStreak = %d, want 1", stats.CurrentStreak)
		}
		if stats.LongestStreak != 2 {
			t.Errorf("LongestStreak = %d, want 2", stats.LongestStreak)
		}
	})
}

func TestStatisticsService_ActivityLogBounded(t *testing.T) {
	service, result := newStatisticsFixture(t, nil)
	ctx := context.Background()

	for i := 0; i < maxRecentActivity+5; i++ {
		if _, err := service.RecordExam(ctx, models.ExamSession{}, result); err != nil {
			t.Fatalf("RecordExam %d: %v", i, err)
		}
	}

	stats, err := service.Get(ctx, result.StudentID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := len(stats.RecentActivity.Data()); got != maxRecentActivity {
		t.Errorf("activity length = %d, want %d", got, maxRecentActivity)
	}
}
