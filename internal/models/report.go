package models

import (
	"time"
)

type ReportReason string

const (
	ReportIncorrectAnswer ReportReason = "incorrect_answer"
	ReportUnclearQuestion ReportReason = "unclear_question"
	ReportTechnicalIssue  ReportReason = "technical_issue"
	ReportOther           ReportReason = "other"
)

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportReviewed  ReportStatus = "reviewed"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

// Report is a student-filed complaint about one question.
type Report struct {
	ID          string       `json:"id" gorm:"primaryKey;size:64"`
	QuestionID  string       `json:"question_id" gorm:"not null;index;size:64"`
	StudentID   string       `json:"student_id" gorm:"not null;index;size:255"`
	Reason      ReportReason `json:"reason" gorm:"not null;size:32"`
	Description string       `json:"description" gorm:"type:text"`
	Status      ReportStatus `json:"status" gorm:"default:pending;index;size:16"`

	AdminResponse *string    `json:"admin_response,omitempty" gorm:"type:text"`
	ReviewedBy    *string    `json:"reviewed_by,omitempty" gorm:"size:255"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Report) TableName() string {
	return "reports"
}
