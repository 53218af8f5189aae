package achievements

import (
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/quizmaster-pro/exam-service/internal/models"
)

func statsWith(mod func(*models.UserStatistics)) models.UserStatistics {
	stats := models.UserStatistics{UserID: "student-1"}
	if mod != nil {
		mod(&stats)
	}
	return stats
}

func catalogEntry(t *testing.T, id string) models.Achievement {
	t.Helper()
	a, ok := ByID(id)
	if !ok {
		t.Fatalf("achievement %q not in catalog", id)
	}
	return a
}

func TestProgress_ExamCount(t *testing.T) {
	dedicated := catalogEntry(t, "dedicated_learner") // 10 exams

	tests := []struct {
		exams int
		want  int
	}{
		{0, 0},
		{3, 30},
		{10, 100},
		{25, 100}, // capped
	}
	for _, tt := range tests {
		stats := statsWith(func(s *models.UserStatistics) { s.TotalExamsAttempted = tt.exams })
		if got := Progress(dedicated, stats, nil); got != tt.want {
			t.Errorf("Progress(%d exams) = %d, want %d", tt.exams, got, tt.want)
		}
	}
}

func TestProgress_ScoreThreshold(t *testing.T) {
	perfect := catalogEntry(t, "perfect_score") // equal_to 100
	high := catalogEntry(t, "high_achiever")    // >= 90

	stats := statsWith(func(s *models.UserStatistics) { s.BestScore = 95 })
	if got := Progress(perfect, stats, nil); got != 0 {
		t.Errorf("perfect_score at best 95 = %d, want 0 (binary, no partial credit)", got)
	}
	if got := Progress(high, stats, nil); got != 100 {
		t.Errorf("high_achiever at best 95 = %d, want 100", got)
	}

	stats.BestScore = 100
	if got := Progress(perfect, stats, nil); got != 100 {
		t.Errorf("perfect_score at best 100 = %d, want 100", got)
	}
}

func TestProgress_AccuracyThreshold(t *testing.T) {
	master := catalogEntry(t, "accuracy_master") // 95%

	t.Run("no questions answered", func(t *testing.T) {
		if got := Progress(master, statsWith(nil), nil); got != 0 {
			t.Errorf("progress = %d with zero answers, want 0", got)
		}
	})

	t.Run("above threshold", func(t *testing.T) {
		stats := statsWith(func(s *models.UserStatistics) {
			s.TotalQuestionsAnswered = 100
			s.TotalCorrectAnswers = 97
		})
		if got := Progress(master, stats, nil); got != 100 {
			t.Errorf("progress = %d at 97%% accuracy, want 100", got)
		}
	})

	t.Run("below threshold", func(t *testing.T) {
		stats := statsWith(func(s *models.UserStatistics) {
			s.TotalQuestionsAnswered = 100
			s.TotalCorrectAnswers = 90
		})
		if got := Progress(master, stats, nil); got != 0 {
			t.Errorf("progress = %d at 90%% accuracy, want 0", got)
		}
	})
}

func TestProgress_Streak(t *testing.T) {
	warrior := catalogEntry(t, "week_warrior") // 7 days

	stats := statsWith(func(s *models.UserStatistics) { s.CurrentStreak = 3 })
	if got := Progress(warrior, stats, nil); got != 42 {
		t.Errorf("progress = %d at streak 3, want 42", got)
	}
	stats.CurrentStreak = 7
	if got := Progress(warrior, stats, nil); got != 100 {
		t.Errorf("progress = %d at streak 7, want 100", got)
	}
}

func TestProgress_TimeSpent(t *testing.T) {
	demon := catalogEntry(t, "speed_demon") // < 300s with 80%+ score

	stats := statsWith(nil)
	if got := Progress(demon, stats, nil); got != 0 {
		t.Errorf("progress = %d without exam context, want 0", got)
	}
	if got := Progress(demon, stats, &ExamContext{TimeSpent: 240, Score: 85}); got != 100 {
		t.Errorf("progress = %d for fast passing exam, want 100", got)
	}
	if got := Progress(demon, stats, &ExamContext{TimeSpent: 240, Score: 50}); got != 0 {
		t.Errorf("progress = %d for fast failing exam, want 0", got)
	}
	if got := Progress(demon, stats, &ExamContext{TimeSpent: 500, Score: 95}); got != 0 {
		t.Errorf("progress = %d for slow passing exam, want 0", got)
	}
}

func TestProgress_ChapterMastery(t *testing.T) {
	master := catalogEntry(t, "chapter_master") // any chapter at 90%+

	stats := statsWith(func(s *models.UserStatistics) {
		s.ChapterStats = datatypes.NewJSONType([]models.ChapterStats{
			{ChapterID: "1", Accuracy: 70},
			{ChapterID: "2", Accuracy: 92},
		})
	})
	if got := Progress(master, stats, nil); got != 100 {
		t.Errorf("progress = %d with one mastered chapter, want 100", got)
	}

	stats = statsWith(func(s *models.UserStatistics) {
		s.ChapterStats = datatypes.NewJSONType([]models.ChapterStats{
			{ChapterID: "1", Accuracy: 70},
		})
	})
	if got := Progress(master, stats, nil); got != 0 {
		t.Errorf("progress = %d with no mastered chapter, want 0", got)
	}
}

func TestEvaluate_UnlockAndProgress(t *testing.T) {
	now := time.Now()
	stats := statsWith(func(s *models.UserStatistics) {
		s.TotalExamsAttempted = 1
		s.BestScore = 100
	})

	changed := Evaluate("student-1", stats, nil, nil, now)

	byID := make(map[string]models.UserAchievement)
	for _, ua := range changed {
		if ua.UserID != "student-1" {
			t.Errorf("row %s has user %q", ua.AchievementID, ua.UserID)
		}
		byID[ua.AchievementID] = ua
	}

	first, ok := byID["first_exam"]
	if !ok || !first.IsCompleted || first.Progress != 100 {
		t.Fatalf("first_exam = %+v, want completed at 100", first)
	}
	if first.UnlockedAt == nil || !first.UnlockedAt.Equal(now) {
		t.Error("first_exam unlock timestamp not set on first transition")
	}

	perfect, ok := byID["perfect_score"]
	if !ok || !perfect.IsCompleted {
		t.Fatalf("perfect_score = %+v, want completed", perfect)
	}

	if dedicated, ok := byID["dedicated_learner"]; !ok || dedicated.IsCompleted || dedicated.Progress != 10 {
		t.Errorf("dedicated_learner = %+v, want in-progress at 10", dedicated)
	}
}

func TestEvaluate_NeverRegresses(t *testing.T) {
	now := time.Now()
	unlockTime := now.Add(-24 * time.Hour)
	existing := []models.UserAchievement{{
		ID:            "row-1",
		UserID:        "student-1",
		AchievementID: "perfect_score",
		Progress:      100,
		IsCompleted:   true,
		UnlockedAt:    &unlockTime,
	}}

	// Stats that would no longer satisfy the criterion.
	stats := statsWith(func(s *models.UserStatistics) {
		s.TotalExamsAttempted = 5
		s.BestScore = 0
	})

	changed := Evaluate("student-1", stats, existing, nil, now)
	for _, ua := range changed {
		if ua.AchievementID == "perfect_score" {
			t.Fatalf("completed achievement was re-emitted: %+v", ua)
		}
	}
}

func TestEvaluate_NoDuplicateRows(t *testing.T) {
	now := time.Now()
	stats := statsWith(func(s *models.UserStatistics) { s.TotalExamsAttempted = 3 })

	first := Evaluate("student-1", stats, nil, nil, now)
	second := Evaluate("student-1", stats, first, nil, now.Add(time.Minute))

	if len(second) != 0 {
		t.Errorf("unchanged stats produced %d updated rows, want 0", len(second))
	}
}

func TestCatalogIntegrity(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range Catalog {
		if a.ID == "" || a.Title == "" {
			t.Errorf("catalog entry missing identity: %+v", a)
		}
		if seen[a.ID] {
			t.Errorf("duplicate catalog id %q", a.ID)
		}
		seen[a.ID] = true
		if a.Criteria.Value <= 0 {
			t.Errorf("catalog entry %q has non-positive criteria value", a.ID)
		}
	}
	if len(ByCategory(models.CategoryStreak)) != 2 {
		t.Errorf("streak category = %d entries, want 2", len(ByCategory(models.CategoryStreak)))
	}
}
