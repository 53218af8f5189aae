package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Question struct {
	ID        string `json:"id" gorm:"primaryKey;size:64"`
	ChapterID string `json:"chapter_id" gorm:"not null;index;size:64" validate:"required"`
	Text      string `json:"question" gorm:"type:text;not null" validate:"required,min=10,max=500"`

	// Ordered option list; CorrectAnswer is a zero-based index into it.
	Options       datatypes.JSONSlice[string] `json:"options" gorm:"type:jsonb" validate:"min=2,max=6"`
	CorrectAnswer int                         `json:"correct_answer" gorm:"not null" validate:"min=0"`

	Explanation *string                     `json:"explanation,omitempty" gorm:"type:text"`
	Difficulty  DifficultyLevel             `json:"difficulty" gorm:"default:medium;index"`
	Tags        datatypes.JSONSlice[string] `json:"tags" gorm:"type:jsonb"`
	IsActive    bool                        `json:"is_active" gorm:"default:true;index"`
	ReportCount int                         `json:"report_count" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Question) TableName() string {
	return "questions"
}

// HasValidAnswer reports whether the correct-answer index points into the
// option list.
func (q Question) HasValidAnswer() bool {
	return q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options)
}
