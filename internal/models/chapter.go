package models

import (
	"time"

	"gorm.io/gorm"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

type Chapter struct {
	ID          string          `json:"id" gorm:"primaryKey;size:64"`
	Title       string          `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Description string          `json:"description" gorm:"type:text"`
	Difficulty  DifficultyLevel `json:"difficulty" gorm:"default:medium;index"`
	IsActive    bool            `json:"is_active" gorm:"default:true;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Computed, not stored
	QuestionCount int `json:"question_count" gorm:"-"`
}

func (Chapter) TableName() string {
	return "chapters"
}
