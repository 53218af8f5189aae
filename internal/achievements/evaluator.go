package achievements

import (
	"time"

	"github.com/google/uuid"

	"github.com/quizmaster-pro/exam-service/internal/models"
)

// MinPassingScore gates time-based criteria: a fast exam only counts
// when it was also a good one.
const MinPassingScore = 80

// ExamContext carries the facts about one specific exam that cumulative
// statistics cannot provide. Time-spent criteria are evaluated against
// it; when absent they report no progress.
type ExamContext struct {
	TimeSpent int // seconds
	Score     int // percentage
}

// Progress computes how far a user is toward an achievement, as a
// percentage in [0,100]. Count-style criteria (exam_count, streak) are
// proportional; threshold-style criteria are binary.
func Progress(a models.Achievement, stats models.UserStatistics, examCtx *ExamContext) int {
	c := a.Criteria
	switch c.Type {
	case models.CriteriaExamCount:
		return ratioProgress(stats.TotalExamsAttempted, c.Value)

	case models.CriteriaScoreThreshold:
		if satisfies(stats.BestScore, c.Value, c.Condition) {
			return 100
		}
		return 0

	case models.CriteriaAccuracyThreshold:
		if stats.TotalQuestionsAnswered == 0 {
			return 0
		}
		accuracy := 100 * stats.TotalCorrectAnswers / stats.TotalQuestionsAnswered
		if accuracy >= c.Value {
			return 100
		}
		return 0

	case models.CriteriaStreak:
		return ratioProgress(stats.CurrentStreak, c.Value)

	case models.CriteriaTimeSpent:
		// Per-exam criterion: needs the specific session's elapsed time,
		// which aggregates cannot supply.
		if examCtx == nil {
			return 0
		}
		if examCtx.TimeSpent < c.Value && examCtx.Score >= MinPassingScore {
			return 100
		}
		return 0

	case models.CriteriaChapterMastery:
		for _, ch := range stats.ChapterStats.Data() {
			if ch.Accuracy >= c.Value {
				return 100
			}
		}
		return 0

	default:
		return 0
	}
}

// IsUnlocked reports whether the achievement is earned: progress must be
// exactly 100.
func IsUnlocked(a models.Achievement, stats models.UserStatistics, examCtx *ExamContext) bool {
	return Progress(a, stats, examCtx) == 100
}

// Evaluate recomputes the user's rows against the whole catalog. One
// row per (user, achievement) pair; completed rows never regress, and
// the unlock timestamp is set once, on the first transition to 100.
// The returned slice contains only rows that changed.
func Evaluate(userID string, stats models.UserStatistics, existing []models.UserAchievement, examCtx *ExamContext, now time.Time) []models.UserAchievement {
	byAchievement := make(map[string]models.UserAchievement, len(existing))
	for _, ua := range existing {
		byAchievement[ua.AchievementID] = ua
	}

	var changed []models.UserAchievement
	for _, a := range Catalog {
		if !a.IsActive {
			continue
		}
		progress := Progress(a, stats, examCtx)

		row, ok := byAchievement[a.ID]
		if !ok {
			if progress == 0 {
				continue
			}
			row = models.UserAchievement{
				ID:            uuid.NewString(),
				UserID:        userID,
				AchievementID: a.ID,
				CreatedAt:     now,
			}
		}

		if row.IsCompleted {
			continue // unlock is idempotent, never regresses
		}
		if progress == row.Progress {
			continue
		}

		row.Progress = progress
		row.UpdatedAt = now
		if progress == 100 {
			row.IsCompleted = true
			unlocked := now
			row.UnlockedAt = &unlocked
		}
		changed = append(changed, row)
	}
	return changed
}

func ratioProgress(have, want int) int {
	if want <= 0 {
		return 0
	}
	p := 100 * have / want
	if p > 100 {
		p = 100
	}
	return p
}

func satisfies(value, threshold int, cond models.CriteriaCondition) bool {
	switch cond {
	case models.ConditionEqualTo:
		return value == threshold
	case models.ConditionLessThan:
		return value < threshold
	default: // greater_than criteria accept the threshold itself
		return value >= threshold
	}
}
