// Package memory holds the in-process repository implementation backing
// the mock data mode: every entity lives in mutex-guarded maps seeded
// from a static catalog. It is the default driver and the one tests
// run against.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
)

type repositoryManager struct {
	mu sync.RWMutex

	chapters  map[string]models.Chapter
	questions map[string]models.Question
	users     map[string]models.User
	sessions  map[string]models.ExamSession
	results   map[string]models.ExamResult // keyed by result ID
	reports   map[string]models.Report
	stats     map[string]models.UserStatistics
	userAch   map[string]map[string]models.UserAchievement // userID -> achievementID -> row
}

// NewRepository builds a repository seeded with the demo chapters,
// questions and users.
func NewRepository() repositories.Repository {
	m := &repositoryManager{
		chapters:  make(map[string]models.Chapter),
		questions: make(map[string]models.Question),
		users:     make(map[string]models.User),
		sessions:  make(map[string]models.ExamSession),
		results:   make(map[string]models.ExamResult),
		reports:   make(map[string]models.Report),
		stats:     make(map[string]models.UserStatistics),
		userAch:   make(map[string]map[string]models.UserAchievement),
	}
	m.seed()
	return m
}

// NewEmptyRepository builds a repository with no seed data. Tests use
// it when they want full control over the fixtures.
func NewEmptyRepository() repositories.Repository {
	m := &repositoryManager{
		chapters:  make(map[string]models.Chapter),
		questions: make(map[string]models.Question),
		users:     make(map[string]models.User),
		sessions:  make(map[string]models.ExamSession),
		results:   make(map[string]models.ExamResult),
		reports:   make(map[string]models.Report),
		stats:     make(map[string]models.UserStatistics),
		userAch:   make(map[string]map[string]models.UserAchievement),
	}
	return m
}

func (m *repositoryManager) Chapter() repositories.ChapterRepository         { return (*chapterRepo)(m) }
func (m *repositoryManager) Question() repositories.QuestionRepository       { return (*questionRepo)(m) }
func (m *repositoryManager) User() repositories.UserRepository               { return (*userRepo)(m) }
func (m *repositoryManager) Session() repositories.SessionRepository         { return (*sessionRepo)(m) }
func (m *repositoryManager) Report() repositories.ReportRepository           { return (*reportRepo)(m) }
func (m *repositoryManager) Statistics() repositories.StatisticsRepository   { return (*statsRepo)(m) }
func (m *repositoryManager) Achievement() repositories.AchievementRepository { return (*achRepo)(m) }

func (m *repositoryManager) Ping(ctx context.Context) error { return nil }
func (m *repositoryManager) Close() error                   { return nil }

// ===== CHAPTERS =====

type chapterRepo repositoryManager

func (r *chapterRepo) Create(ctx context.Context, chapter *models.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	chapter.CreatedAt = now
	chapter.UpdatedAt = now
	r.chapters[chapter.ID] = *chapter
	return nil
}

func (r *chapterRepo) GetByID(ctx context.Context, id string) (*models.Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	chapter, ok := r.chapters[id]
	if !ok {
		return nil, repositories.NewNotFoundError("chapter", id)
	}
	return &chapter, nil
}

func (r *chapterRepo) Update(ctx context.Context, chapter *models.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chapters[chapter.ID]; !ok {
		return repositories.NewNotFoundError("chapter", chapter.ID)
	}
	chapter.UpdatedAt = time.Now()
	r.chapters[chapter.ID] = *chapter
	return nil
}

func (r *chapterRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chapters[id]; !ok {
		return repositories.NewNotFoundError("chapter", id)
	}
	delete(r.chapters, id)
	return nil
}

func (r *chapterRepo) List(ctx context.Context, includeInactive bool) ([]*models.Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Chapter, 0, len(r.chapters))
	for _, chapter := range r.chapters {
		if !includeInactive && !chapter.IsActive {
			continue
		}
		c := chapter
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ===== QUESTIONS =====

type questionRepo repositoryManager

func (r *questionRepo) Create(ctx context.Context, question *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	question.CreatedAt = now
	question.UpdatedAt = now
	r.questions[question.ID] = *question
	return nil
}

func (r *questionRepo) GetByID(ctx context.Context, id string) (*models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	question, ok := r.questions[id]
	if !ok {
		return nil, repositories.NewNotFoundError("question", id)
	}
	return &question, nil
}

func (r *questionRepo) Update(ctx context.Context, question *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[question.ID]; !ok {
		return repositories.NewNotFoundError("question", question.ID)
	}
	question.UpdatedAt = time.Now()
	r.questions[question.ID] = *question
	return nil
}

func (r *questionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[id]; !ok {
		return repositories.NewNotFoundError("question", id)
	}
	delete(r.questions, id)
	return nil
}

func (r *questionRepo) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*models.Question
	for _, question := range r.questions {
		if filters.ChapterID != nil && question.ChapterID != *filters.ChapterID {
			continue
		}
		if filters.Difficulty != nil && question.Difficulty != *filters.Difficulty {
			continue
		}
		if filters.ActiveOnly && !question.IsActive {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(question.Text), strings.ToLower(filters.Search)) {
			continue
		}
		q := question
		matched = append(matched, &q)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if filters.Size > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * filters.Size
		if start >= len(matched) {
			return nil, total, nil
		}
		end := start + filters.Size
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (r *questionRepo) GetByChapters(ctx context.Context, chapterIDs []string, activeOnly bool) ([]models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(chapterIDs))
	for _, id := range chapterIDs {
		wanted[id] = true
	}

	var out []models.Question
	for _, question := range r.questions {
		if !wanted[question.ChapterID] {
			continue
		}
		if activeOnly && !question.IsActive {
			continue
		}
		out = append(out, question)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *questionRepo) CountByChapter(ctx context.Context, chapterID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, question := range r.questions {
		if question.ChapterID == chapterID && question.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *questionRepo) IncrementReportCount(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	question, ok := r.questions[id]
	if !ok {
		return repositories.NewNotFoundError("question", id)
	}
	question.ReportCount++
	question.UpdatedAt = time.Now()
	r.questions[id] = question
	return nil
}

// ===== USERS =====

type userRepo repositoryManager

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.NewNotFoundError("user", id)
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, repositories.NewNotFoundError("user", email)
}

func (r *userRepo) List(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		u := user
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ===== SESSIONS / RESULTS =====

type sessionRepo repositoryManager

func (r *sessionRepo) SaveSession(ctx context.Context, session *models.ExamSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.UpdatedAt = time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.UpdatedAt
	}
	r.sessions[session.ID] = *session
	return nil
}

func (r *sessionRepo) GetSessionByID(ctx context.Context, id string) (*models.ExamSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, repositories.NewNotFoundError("exam session", id)
	}
	return &session, nil
}

func (r *sessionRepo) SaveResult(ctx context.Context, result *models.ExamResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[result.ID] = *result
	return nil
}

func (r *sessionRepo) GetResultBySession(ctx context.Context, sessionID string) (*models.ExamResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, result := range r.results {
		if result.ExamSessionID == sessionID {
			res := result
			return &res, nil
		}
	}
	return nil, repositories.NewNotFoundError("exam result", sessionID)
}

func (r *sessionRepo) ListResultsByStudent(ctx context.Context, studentID string, limit int) ([]*models.ExamResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.ExamResult
	for _, result := range r.results {
		if result.StudentID == studentID {
			res := result
			out = append(out, &res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *sessionRepo) ListRecentResults(ctx context.Context, limit int) ([]*models.ExamResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.ExamResult, 0, len(r.results))
	for _, result := range r.results {
		res := result
		out = append(out, &res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *sessionRepo) CountResults(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.results)), nil
}

// ===== REPORTS =====

type reportRepo repositoryManager

func (r *reportRepo) Create(ctx context.Context, report *models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	report.CreatedAt = now
	report.UpdatedAt = now
	r.reports[report.ID] = *report
	return nil
}

func (r *reportRepo) GetByID(ctx context.Context, id string) (*models.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, repositories.NewNotFoundError("report", id)
	}
	return &report, nil
}

func (r *reportRepo) Update(ctx context.Context, report *models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[report.ID]; !ok {
		return repositories.NewNotFoundError("report", report.ID)
	}
	report.UpdatedAt = time.Now()
	r.reports[report.ID] = *report
	return nil
}

func (r *reportRepo) List(ctx context.Context, filters repositories.ReportFilters) ([]*models.Report, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*models.Report
	for _, report := range r.reports {
		if filters.Status != nil && report.Status != *filters.Status {
			continue
		}
		if filters.QuestionID != nil && report.QuestionID != *filters.QuestionID {
			continue
		}
		rep := report
		matched = append(matched, &rep)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, int64(len(matched)), nil
}

// ===== STATISTICS =====

type statsRepo repositoryManager

func (r *statsRepo) Get(ctx context.Context, userID string) (*models.UserStatistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats, ok := r.stats[userID]
	if !ok {
		return nil, repositories.NewNotFoundError("user statistics", userID)
	}
	return &stats, nil
}

func (r *statsRepo) Save(ctx context.Context, stats *models.UserStatistics) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats.UpdatedAt = time.Now()
	if stats.CreatedAt.IsZero() {
		stats.CreatedAt = stats.UpdatedAt
	}
	r.stats[stats.UserID] = *stats
	return nil
}

// ===== USER ACHIEVEMENTS =====

type achRepo repositoryManager

func (r *achRepo) GetByUser(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := r.userAch[userID]
	out := make([]models.UserAchievement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AchievementID < out[j].AchievementID })
	return out, nil
}

func (r *achRepo) Upsert(ctx context.Context, rows []models.UserAchievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		byAch := r.userAch[row.UserID]
		if byAch == nil {
			byAch = make(map[string]models.UserAchievement)
			r.userAch[row.UserID] = byAch
		}
		byAch[row.AchievementID] = row
	}
	return nil
}
