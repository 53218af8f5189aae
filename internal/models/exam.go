package models

import (
	"time"

	"gorm.io/datatypes"
)

// Unanswered is the sentinel stored in an answer slot until the student
// picks an option.
const Unanswered = -1

type SessionState string

const (
	SessionNotStarted SessionState = "not_started"
	SessionInProgress SessionState = "in_progress"
	SessionSubmitted  SessionState = "submitted"
)

type SubmitReason string

const (
	SubmitManual       SubmitReason = "manual"
	SubmitTimerExpired SubmitReason = "timer_expired"
)

// ExamSettings is the user-chosen exam configuration produced by the
// setup step and consumed when a session starts.
type ExamSettings struct {
	SelectedChapters   []string `json:"selected_chapters" validate:"required,min=1"`
	QuestionCount      int      `json:"question_count" validate:"required,min=1"`
	TimeLimit          int      `json:"time_limit,omitempty" validate:"omitempty,min=60,max=14400"` // seconds; 0 means default
	RandomizeQuestions bool     `json:"randomize_questions"`
	ShowExplanations   bool     `json:"show_explanations"`
}

// ExamSession is one attempt at an exam. Answers is parallel to
// Questions; both always have the same length.
type ExamSession struct {
	ID         string                      `json:"id" gorm:"primaryKey;size:64"`
	StudentID  string                      `json:"student_id" gorm:"not null;index;size:255"`
	ChapterIDs datatypes.JSONSlice[string] `json:"chapter_ids" gorm:"type:jsonb"`

	Questions datatypes.JSONType[[]Question] `json:"-" gorm:"type:jsonb"`
	Answers   datatypes.JSONSlice[int]       `json:"answers" gorm:"type:jsonb"`

	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Duration    int        `json:"duration"` // allotted seconds
	IsCompleted bool       `json:"is_completed" gorm:"index"`
	Score       *int       `json:"score,omitempty"`
	TimeSpent   int        `json:"time_spent"` // seconds

	EndReason *string `json:"end_reason,omitempty" gorm:"size:32"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ExamSession) TableName() string {
	return "exam_sessions"
}

// ExamResult is the derived, read-only view over a completed session.
type ExamResult struct {
	ID               string `json:"id" gorm:"primaryKey;size:64"`
	ExamSessionID    string `json:"exam_session_id" gorm:"not null;index;size:64"`
	StudentID        string `json:"student_id" gorm:"not null;index;size:255"`
	Score            int    `json:"score"`
	TotalQuestions   int    `json:"total_questions"`
	CorrectAnswers   int    `json:"correct_answers"`
	WrongAnswers     int    `json:"wrong_answers"`
	SkippedQuestions int    `json:"skipped_questions"`
	Accuracy         int    `json:"accuracy"` // percentage
	TimeSpent        int    `json:"time_spent"`

	ChapterResults datatypes.JSONType[[]ChapterResult] `json:"chapter_results" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
}

func (ExamResult) TableName() string {
	return "exam_results"
}

// ChapterResult is the per-chapter slice of a result, in first-seen
// chapter order.
type ChapterResult struct {
	ChapterID      string `json:"chapter_id"`
	ChapterTitle   string `json:"chapter_title,omitempty"`
	TotalQuestions int    `json:"total_questions"`
	CorrectAnswers int    `json:"correct_answers"`
	Accuracy       int    `json:"accuracy"`
}
