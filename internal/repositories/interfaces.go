package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/quizmaster-pro/exam-service/internal/models"
)

// NotFoundError marks an entity lookup miss. Handlers map it to a
// redirect-style 404 rather than a failure.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsNotFoundError reports whether err is a lookup miss.
func IsNotFoundError(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ===== FILTERS =====

type QuestionFilters struct {
	ChapterID  *string
	Difficulty *models.DifficultyLevel
	ActiveOnly bool
	Search     string
	Page       int
	Size       int
}

type ReportFilters struct {
	Status     *models.ReportStatus
	QuestionID *string
	Page       int
	Size       int
}

// ===== REPOSITORY INTERFACES =====

type ChapterRepository interface {
	Create(ctx context.Context, chapter *models.Chapter) error
	GetByID(ctx context.Context, id string) (*models.Chapter, error)
	Update(ctx context.Context, chapter *models.Chapter) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, includeInactive bool) ([]*models.Chapter, error)
}

type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id string) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)
	GetByChapters(ctx context.Context, chapterIDs []string, activeOnly bool) ([]models.Question, error)
	CountByChapter(ctx context.Context, chapterID string) (int64, error)
	IncrementReportCount(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

type SessionRepository interface {
	SaveSession(ctx context.Context, session *models.ExamSession) error
	GetSessionByID(ctx context.Context, id string) (*models.ExamSession, error)
	SaveResult(ctx context.Context, result *models.ExamResult) error
	GetResultBySession(ctx context.Context, sessionID string) (*models.ExamResult, error)
	ListResultsByStudent(ctx context.Context, studentID string, limit int) ([]*models.ExamResult, error)
	ListRecentResults(ctx context.Context, limit int) ([]*models.ExamResult, error)
	CountResults(ctx context.Context) (int64, error)
}

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	Update(ctx context.Context, report *models.Report) error
	List(ctx context.Context, filters ReportFilters) ([]*models.Report, int64, error)
}

type StatisticsRepository interface {
	Get(ctx context.Context, userID string) (*models.UserStatistics, error)
	Save(ctx context.Context, stats *models.UserStatistics) error
}

type AchievementRepository interface {
	GetByUser(ctx context.Context, userID string) ([]models.UserAchievement, error)
	Upsert(ctx context.Context, rows []models.UserAchievement) error
}

// Repository aggregates every sub-repository behind one handle.
type Repository interface {
	Chapter() ChapterRepository
	Question() QuestionRepository
	User() UserRepository
	Session() SessionRepository
	Report() ReportRepository
	Statistics() StatisticsRepository
	Achievement() AchievementRepository

	Ping(ctx context.Context) error
	Close() error
}
