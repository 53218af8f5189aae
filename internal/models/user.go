package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:255"`
	FullName string   `json:"full_name" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     UserRole `json:"role" gorm:"not null;size:20;index"`

	// Profile info
	AvatarURL *string `json:"avatar_url" gorm:"size:500"`
	Bio       *string `json:"bio" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// Account is the role-tagged view of a user. Exactly one concrete type
// exists per role; callers resolve it with a type switch instead of
// reaching into role-specific fields dynamically.
type Account interface {
	AccountID() string
	AccountRole() UserRole
}

// StudentAccount carries the fields only students have.
type StudentAccount struct {
	User
	TotalExamsAttempted    int     `json:"total_exams_attempted"`
	TotalQuestionsAnswered int     `json:"total_questions_answered"`
	TotalCorrectAnswers    int     `json:"total_correct_answers"`
	AverageScore           float64 `json:"average_score"`
	Rank                   int     `json:"rank"`
}

func (s StudentAccount) AccountID() string     { return s.ID }
func (s StudentAccount) AccountRole() UserRole { return RoleStudent }

// AdminAccount carries the fields only admins have.
type AdminAccount struct {
	User
	Permissions []string `json:"permissions"`
}

func (a AdminAccount) AccountID() string     { return a.ID }
func (a AdminAccount) AccountRole() UserRole { return RoleAdmin }
