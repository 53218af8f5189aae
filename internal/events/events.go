// Package events defines the outbound event envelope and its payloads.
// Publishing is fire-and-forget: a failed publish is logged, never
// surfaced to the request path.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/quizmaster-pro/exam-service/internal/models"
)

const (
	// Source identifies this service in every published event.
	Source = "exam-service"

	// Version is the event schema version.
	Version = "1.0"
)

// Event types.
const (
	ExamStarted         = "exam.started"
	ExamCompleted       = "exam.completed"
	AchievementUnlocked = "achievement.unlocked"
	QuestionReported    = "question.reported"
	UserRegistered      = "user.registered"
)

// Event is the envelope every published message shares.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope around the given payload.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    Source,
		Version:   Version,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ===== PAYLOADS =====

type ExamStartedEvent struct {
	SessionID     string   `json:"session_id"`
	StudentID     string   `json:"student_id"`
	ChapterIDs    []string `json:"chapter_ids"`
	QuestionCount int      `json:"question_count"`
	TimeLimit     int      `json:"time_limit"`
}

type ExamCompletedEvent struct {
	SessionID  string              `json:"session_id"`
	StudentID  string              `json:"student_id"`
	Score      int                 `json:"score"`
	Accuracy   float64             `json:"accuracy"`
	TimeSpent  int                 `json:"time_spent"`
	EndReason  models.SubmitReason `json:"end_reason"`
	ResultID   string              `json:"result_id"`
	FinishedAt time.Time           `json:"finished_at"`
}

type AchievementUnlockedEvent struct {
	UserID        string    `json:"user_id"`
	AchievementID string    `json:"achievement_id"`
	Title         string    `json:"title"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

type QuestionReportedEvent struct {
	ReportID   string              `json:"report_id"`
	QuestionID string              `json:"question_id"`
	StudentID  string              `json:"student_id"`
	Reason     models.ReportReason `json:"reason"`
}

type UserRegisteredEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
