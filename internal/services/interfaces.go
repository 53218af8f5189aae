package services

import (
	"context"
	"io"
	"time"

	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
	"github.com/quizmaster-pro/exam-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Request DTOs live next to their validation rules.
type LoginRequest = validator.LoginRequest
type RegisterRequest = validator.RegisterRequest
type StartExamRequest = validator.StartExamRequest
type ChapterCreateRequest = validator.ChapterCreateRequest
type ChapterUpdateRequest = validator.ChapterUpdateRequest
type QuestionCreateRequest = validator.QuestionCreateRequest
type QuestionUpdateRequest = validator.QuestionUpdateRequest
type ReportCreateRequest = validator.ReportCreateRequest
type ReportUpdateRequest = validator.ReportUpdateRequest

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// ExamQuestionView is a question as presented to the student: the
// correct answer and explanation stay hidden until that index has been
// revealed (immediate-explanation mode) or the exam is over.
type ExamQuestionView struct {
	ID            string                 `json:"id"`
	ChapterID     string                 `json:"chapter_id"`
	Text          string                 `json:"question"`
	Options       []string               `json:"options"`
	Difficulty    models.DifficultyLevel `json:"difficulty"`
	CorrectAnswer *int                   `json:"correct_answer,omitempty"`
	Explanation   *string                `json:"explanation,omitempty"`
}

type ExamSessionResponse struct {
	SessionID     string              `json:"session_id"`
	State         models.SessionState `json:"state"`
	Position      int                 `json:"position"`
	TimeRemaining int                 `json:"time_remaining"`
	Duration      int                 `json:"duration"`
	Questions     []ExamQuestionView  `json:"questions"`
	Answers       []int               `json:"answers"`
	Flagged       []int               `json:"flagged"`
}

type QuestionListResponse struct {
	Questions []*models.Question `json:"questions"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	Size      int                `json:"size"`
}

type ReportListResponse struct {
	Reports []*models.Report `json:"reports"`
	Total   int64            `json:"total"`
}

// AchievementProgress pairs a catalog entry with the user's row.
type AchievementProgress struct {
	models.Achievement
	Progress    int        `json:"progress"`
	IsCompleted bool       `json:"is_completed"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

type DashboardOverview struct {
	TotalUsers     int64 `json:"total_users"`
	TotalChapters  int64 `json:"total_chapters"`
	TotalQuestions int64 `json:"total_questions"`
	TotalExams     int64 `json:"total_exams"`
	PendingReports int64 `json:"pending_reports"`

	DifficultyDistribution map[models.DifficultyLevel]int64 `json:"difficulty_distribution"`
	RecentResults          []*models.ExamResult             `json:"recent_results"`
}

type ChapterAnalytics struct {
	ChapterID     string                 `json:"chapter_id"`
	Title         string                 `json:"title"`
	Difficulty    models.DifficultyLevel `json:"difficulty"`
	QuestionCount int64                  `json:"question_count"`
	ReportCount   int                    `json:"report_count"`
	AttemptCount  int64                  `json:"attempt_count"`
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ===== SERVICE INTERFACES =====

// AuthService is the mocked authentication flow: demo accounts, opaque
// tokens in the key-value store, an artificial delay standing in for a
// real identity provider round trip.
type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (models.Account, error)

	GetTheme(ctx context.Context, userID string) (string, error)
	SetTheme(ctx context.Context, userID, theme string) error
}

// ExamService owns the in-flight session registry and the full exam
// lifecycle, from settings validation to result persistence.
type ExamService interface {
	Start(ctx context.Context, studentID string, req *StartExamRequest) (*ExamSessionResponse, error)
	Get(ctx context.Context, sessionID, studentID string) (*ExamSessionResponse, error)
	Answer(ctx context.Context, sessionID, studentID string, questionIndex, optionIndex int) (*ExamSessionResponse, error)
	Navigate(ctx context.Context, sessionID, studentID string, target int) (*ExamSessionResponse, error)
	ToggleFlag(ctx context.Context, sessionID, studentID string, questionIndex int) (*ExamSessionResponse, error)
	Submit(ctx context.Context, sessionID, studentID string) (*models.ExamResult, error)
	TimeRemaining(ctx context.Context, sessionID, studentID string) (int, error)

	LastResult(ctx context.Context, studentID string) (*models.ExamResult, error)
	History(ctx context.Context, studentID string, limit int) ([]*models.ExamResult, error)
}

// StatisticsService maintains the cumulative per-user aggregates.
type StatisticsService interface {
	Get(ctx context.Context, userID string) (*models.UserStatistics, error)
	RecordExam(ctx context.Context, session models.ExamSession, result *models.ExamResult) (*models.UserStatistics, error)
}

type AchievementService interface {
	Catalog(ctx context.Context) []models.Achievement
	GetUserProgress(ctx context.Context, userID string) ([]AchievementProgress, error)
	// EvaluateOnExam re-runs the catalog after an exam and returns the
	// rows newly unlocked by it.
	EvaluateOnExam(ctx context.Context, userID string, stats models.UserStatistics, timeSpent, score int) ([]models.UserAchievement, error)
}

type ChapterService interface {
	List(ctx context.Context, includeInactive bool) ([]*models.Chapter, error)
	GetByID(ctx context.Context, id string) (*models.Chapter, error)
	Create(ctx context.Context, req *ChapterCreateRequest) (*models.Chapter, error)
	Update(ctx context.Context, id string, req *ChapterUpdateRequest) (*models.Chapter, error)
	Delete(ctx context.Context, id string) error
}

type QuestionService interface {
	List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error)
	GetByID(ctx context.Context, id string) (*models.Question, error)
	GetByChapter(ctx context.Context, chapterID string) ([]models.Question, error)
	Create(ctx context.Context, req *QuestionCreateRequest) (*models.Question, error)
	Update(ctx context.Context, id string, req *QuestionUpdateRequest) (*models.Question, error)
	Delete(ctx context.Context, id string) error
}

type ReportService interface {
	Create(ctx context.Context, studentID string, req *ReportCreateRequest) (*models.Report, error)
	List(ctx context.Context, filters repositories.ReportFilters) (*ReportListResponse, error)
	UpdateStatus(ctx context.Context, id, adminID string, req *ReportUpdateRequest) (*models.Report, error)
}

type DashboardService interface {
	Overview(ctx context.Context) (*DashboardOverview, error)
	ChapterAnalytics(ctx context.Context) ([]ChapterAnalytics, error)
}

// ImportExportService moves the question bank in and out as xlsx.
type ImportExportService interface {
	ExportQuestions(ctx context.Context, w io.Writer) error
	ImportQuestions(ctx context.Context, r io.Reader) (*ImportResult, error)
}

// ServiceManager aggregates every service behind one handle with a
// shared lifecycle.
type ServiceManager interface {
	Auth() AuthService
	Exam() ExamService
	Statistics() StatisticsService
	Achievement() AchievementService
	Chapter() ChapterService
	Question() QuestionService
	Report() ReportService
	Dashboard() DashboardService
	ImportExport() ImportExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
