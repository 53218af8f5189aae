package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserStatistics is the cumulative per-user aggregate. It only grows;
// nothing here is ever recomputed from scratch.
type UserStatistics struct {
	UserID string `json:"user_id" gorm:"primaryKey;size:255"`

	TotalExamsAttempted    int     `json:"total_exams_attempted"`
	TotalQuestionsAnswered int     `json:"total_questions_answered"`
	TotalCorrectAnswers    int     `json:"total_correct_answers"`
	AverageScore           float64 `json:"average_score"`
	BestScore              int     `json:"best_score"` // high-water mark
	CurrentStreak          int     `json:"current_streak"`
	LongestStreak          int     `json:"longest_streak"`
	TotalTimeSpent         int     `json:"total_time_spent"` // seconds

	// Date (midnight, UTC) of the most recent completed exam; drives the
	// consecutive-day streak rule.
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`

	ChapterStats   datatypes.JSONType[[]ChapterStats] `json:"chapter_stats" gorm:"type:jsonb"`
	RecentActivity datatypes.JSONType[[]UserActivity] `json:"recent_activity" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserStatistics) TableName() string {
	return "user_statistics"
}

type ChapterStats struct {
	ChapterID         string    `json:"chapter_id"`
	AttemptsCount     int       `json:"attempts_count"`
	QuestionsAnswered int       `json:"questions_answered"`
	CorrectAnswers    int       `json:"correct_answers"`
	AverageScore      float64   `json:"average_score"`
	Accuracy          int       `json:"accuracy"` // percentage
	TimeSpent         int       `json:"time_spent"`
	LastAttempted     time.Time `json:"last_attempted"`
}

type ActivityType string

const (
	ActivityExamCompleted       ActivityType = "exam_completed"
	ActivityAchievementUnlocked ActivityType = "achievement_unlocked"
	ActivityStreakMilestone     ActivityType = "streak_milestone"
)

type UserActivity struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
}
