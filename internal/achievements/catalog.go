// Package achievements holds the static achievement catalog and the
// progress evaluator over cumulative user statistics.
package achievements

import (
	"github.com/quizmaster-pro/exam-service/internal/models"
)

// Catalog is the fixed achievement list. It is never mutated at
// runtime; treat it as read-only.
var Catalog = []models.Achievement{
	{
		ID:          "first_exam",
		Title:       "First Steps",
		Description: "Complete your first exam",
		Icon:        "🎯",
		Category:    models.CategoryMilestone,
		Criteria: models.AchievementCriteria{
			Type:      models.CriteriaExamCount,
			Value:     1,
			Condition: models.ConditionGreaterThan,
			Timeframe: "all_time",
		},
		Reward:   models.AchievementReward{Type: models.RewardBadge, Value: "first_exam_badge"},
		IsActive: true,
	},
	{
		ID:          "perfect_score",
		Title:       "Perfect Score",
		Description: "Score 100% in any exam",
		Icon:        "⭐",
		Category:    models.CategoryPerformance,
		Criteria: models.AchievementCriteria{
			Type:      models.CriteriaScoreThreshold,
			Value:     100,
			Condition: models.ConditionEqualTo,
		},
		Reward:   models.AchievementReward{Type: models.RewardBadge, Value: "perfect_score_badge"},
		IsActive: true,
	},
	{
		ID:          "high_achiever",
		Title:       "High Achiever",
		Description: "Score above 90% in 5 exams",
		Icon:        "🏆",
		Category:    models.CategoryPerformance,
		Criteria: models.AchievementCriteria{
			Type:      models.CriteriaScoreThreshold,
			Value:     90,
			Condition: models.ConditionGreaterThan,
		},
		Reward:   models.AchievementReward{Type: models.RewardBadge, Value: "high_achiever_badge"},
		IsActive: true,
	},
	{
		ID:          "accuracy_master",
		Title:       "Accuracy Master",
		Description: "Maintain 95% accuracy over 10 exams",
		Icon:        "🎪",
		Category:    models.CategoryPerformance,
		Criteria: models.AchievementCriteria{
			Type:      models.CriteriaAccuracyThreshold,
			Value:     95,
			Condition: models.ConditionGreaterThan,
		},
		Reward:   models.AchievementReward{Type: models.RewardBadge, Value: "accuracy_master_badge"},
		IsActive: true,
	},
	{
		ID:          "dedicated_learner",
		Title:       "Dedicated Learner",
		Description: "Complete 10 exams",
		Icon:        "📚",
		Category:    models.CategoryParticipation,
		Criteria: models.AchievementCriteria{
			Type:      models.CriteriaExamCount,
			Value:     10,
			Condition: models.ConditionGreaterThan,
			Timeframe: "all_time",
		},
		Reward:   models.AchievementReward{Type: models.RewardBadge, Value: "dedicated_learner_badge"},
		IsActive: true,
	},
	{
		ID:          "exam_marathon",
		Title:       "Exam Marathon",
		Description: "Complete 50 exams",
		Icon:        "🏃",
		Category:    models.CategoryParticipation,
		Criteria: models.AchievementCriteria{
			Type:      models.CriteriaExamCount,
			Value:     50,
			Condition: models.ConditionGreaterThan,
			Timeframe: "all_time",
		},
		Reward:   models.AchievementReward{Type: models.RewardBadge, Value: "exam_marathon_badge"},
		IsActive: true,
	},
	{
		ID:          "week_warrior",
		Title:       "Week Warrior",
		Description: "Complete exams for 7 consecutive days",
		Icon:        "🔥",
		Category:    models.CategoryStreak,
		Criteria: models.AchievementCriteria{
			Type:      models.CriteriaStreak,
			Value:     7,
			Condition: models.ConditionGreaterThan,
			Timeframe: "daily",
		},
		Reward:   models.AchievementReward{Type: models.RewardBadge, Value: "week_warrior_badge"},
		IsActive: true,
	},
	{
		ID:          "unstoppable",
		Title:       "Unstoppable",
		Description: "Maintain a 30-day learning streak",
		Icon:        "⚡",
		Category:    models.CategoryStreak,
		Criteria: models.AchievementCriteria{
			Type:      models.CriteriaStreak,
			Value:     30,
			Condition: models.ConditionGreaterThan,
			Timeframe: "daily",
		},
		Reward:   models.AchievementReward{Type: models.RewardBadge, Value: "unstoppable_badge"},
		IsActive: true,
	},
	{
		ID:          "speed_demon",
		Title:       "Speed Demon",
		Description: "Complete an exam in under 5 minutes with 80%+ score",
		Icon:        "💨",
		Category:    models.CategorySpecial,
		Criteria: models.AchievementCriteria{
			Type:      models.CriteriaTimeSpent,
			Value:     300, // seconds
			Condition: models.ConditionLessThan,
		},
		Reward:   models.AchievementReward{Type: models.RewardBadge, Value: "speed_demon_badge"},
		IsActive: true,
	},
	{
		ID:          "chapter_master",
		Title:       "Chapter Master",
		Description: "Complete all questions in a chapter with 90%+ accuracy",
		Icon:        "👑",
		Category:    models.CategoryMilestone,
		Criteria: models.AchievementCriteria{
			Type:      models.CriteriaChapterMastery,
			Value:     90,
			Condition: models.ConditionGreaterThan,
		},
		Reward:   models.AchievementReward{Type: models.RewardBadge, Value: "chapter_master_badge"},
		IsActive: true,
	},
}

// ByCategory filters the catalog.
func ByCategory(category models.AchievementCategory) []models.Achievement {
	var out []models.Achievement
	for _, a := range Catalog {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// ByID looks up one catalog entry.
func ByID(id string) (models.Achievement, bool) {
	for _, a := range Catalog {
		if a.ID == id {
			return a, true
		}
	}
	return models.Achievement{}, false
}
