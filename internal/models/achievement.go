package models

import (
	"time"
)

type AchievementCategory string

const (
	CategoryPerformance   AchievementCategory = "performance"
	CategoryParticipation AchievementCategory = "participation"
	CategoryStreak        AchievementCategory = "streak"
	CategoryMilestone     AchievementCategory = "milestone"
	CategorySpecial       AchievementCategory = "special"
)

type CriteriaType string

const (
	CriteriaExamCount         CriteriaType = "exam_count"
	CriteriaScoreThreshold    CriteriaType = "score_threshold"
	CriteriaAccuracyThreshold CriteriaType = "accuracy_threshold"
	CriteriaStreak            CriteriaType = "streak"
	CriteriaTimeSpent         CriteriaType = "time_spent"
	CriteriaChapterMastery    CriteriaType = "chapter_mastery"
)

type CriteriaCondition string

const (
	ConditionGreaterThan CriteriaCondition = "greater_than"
	ConditionEqualTo     CriteriaCondition = "equal_to"
	ConditionLessThan    CriteriaCondition = "less_than"
)

type AchievementCriteria struct {
	Type      CriteriaType      `json:"type"`
	Value     int               `json:"value"`
	Condition CriteriaCondition `json:"condition"`
	Timeframe string            `json:"timeframe,omitempty"` // daily, weekly, monthly, all_time
}

type RewardType string

const (
	RewardBadge  RewardType = "badge"
	RewardPoints RewardType = "points"
	RewardTitle  RewardType = "title"
)

type AchievementReward struct {
	Type  RewardType `json:"type"`
	Value string     `json:"value"`
}

// Achievement is one entry of the static catalog. The catalog is never
// mutated at runtime.
type Achievement struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Category    AchievementCategory `json:"category"`
	Criteria    AchievementCriteria `json:"criteria"`
	Reward      AchievementReward   `json:"reward"`
	IsActive    bool                `json:"is_active"`
}

// UserAchievement joins a user with a catalog entry. One row per
// (user, achievement) pair.
type UserAchievement struct {
	ID            string     `json:"id" gorm:"primaryKey;size:64"`
	UserID        string     `json:"user_id" gorm:"not null;index:idx_user_achievement,unique;size:255"`
	AchievementID string     `json:"achievement_id" gorm:"not null;index:idx_user_achievement,unique;size:64"`
	Progress      int        `json:"progress"` // 0-100
	IsCompleted   bool       `json:"is_completed"`
	UnlockedAt    *time.Time `json:"unlocked_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
