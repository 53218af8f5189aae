package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/quizmaster-pro/exam-service/internal/achievements"
	"github.com/quizmaster-pro/exam-service/internal/events"
	"github.com/quizmaster-pro/exam-service/internal/exam"
	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
	"github.com/quizmaster-pro/exam-service/internal/store"
	"github.com/quizmaster-pro/exam-service/internal/validator"
)

const finalizeTimeout = 10 * time.Second

type examService struct {
	repo        repositories.Repository
	kv          store.KVStore
	publisher   events.EventPublisher
	statistics  StatisticsService
	achievement AchievementService
	logger      *slog.Logger
	validator   *validator.Validator
	limits      exam.Limits

	mu       sync.RWMutex
	sessions map[string]*exam.Session

	sessionOpts []exam.SessionOption
}

func NewExamService(
	repo repositories.Repository,
	kv store.KVStore,
	publisher events.EventPublisher,
	statistics StatisticsService,
	achievement AchievementService,
	logger *slog.Logger,
	v *validator.Validator,
	limits exam.Limits,
	opts ...exam.SessionOption,
) ExamService {
	return &examService{
		repo:        repo,
		kv:          kv,
		publisher:   publisher,
		statistics:  statistics,
		achievement: achievement,
		logger:      logger,
		validator:   v,
		limits:      limits,
		sessions:    make(map[string]*exam.Session),
		sessionOpts: opts,
	}
}

func (s *examService) Start(ctx context.Context, studentID string, req *StartExamRequest) (*ExamSessionResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	settings := models.ExamSettings{
		SelectedChapters:   req.SelectedChapters,
		QuestionCount:      req.QuestionCount,
		TimeLimit:          req.TimeLimit,
		RandomizeQuestions: req.RandomizeQuestions,
		ShowExplanations:   req.ShowExplanations,
	}

	bank, err := s.repo.Question().GetByChapters(ctx, settings.SelectedChapters, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load question bank: %w", err)
	}

	session, err := exam.NewSession(studentID, settings, bank, s.limits, s.sessionOpts...)
	if err != nil {
		return nil, err
	}
	session.OnCompleted(s.finalize)

	// The setup artifact survives until submit so an interrupted exam
	// can be restarted with the same settings.
	if err := s.kv.Set(ctx, store.ExamSettingsKey(studentID), settings, 0); err != nil {
		s.logger.Warn("failed to persist exam settings", "student_id", studentID, "error", err)
	}

	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	s.publishEvent(ctx, events.NewEvent(events.ExamStarted, events.ExamStartedEvent{
		SessionID:     session.ID(),
		StudentID:     studentID,
		ChapterIDs:    settings.SelectedChapters,
		QuestionCount: len(session.Questions()),
		TimeLimit:     session.Snapshot().Duration,
	}))

	s.logger.Info("exam started",
		"session_id", session.ID(),
		"student_id", studentID,
		"questions", len(session.Questions()))

	return s.respond(session), nil
}

func (s *examService) Get(ctx context.Context, sessionID, studentID string) (*ExamSessionResponse, error) {
	session, err := s.lookup(sessionID, studentID)
	if err != nil {
		return nil, err
	}
	return s.respond(session), nil
}

func (s *examService) Answer(ctx context.Context, sessionID, studentID string, questionIndex, optionIndex int) (*ExamSessionResponse, error) {
	session, err := s.lookup(sessionID, studentID)
	if err != nil {
		return nil, err
	}
	if session.State() == models.SessionSubmitted {
		return nil, ErrSessionAlreadyEnded
	}
	session.SelectAnswer(questionIndex, optionIndex)
	return s.respond(session), nil
}

func (s *examService) Navigate(ctx context.Context, sessionID, studentID string, target int) (*ExamSessionResponse, error) {
	session, err := s.lookup(sessionID, studentID)
	if err != nil {
		return nil, err
	}
	session.Navigate(target)
	return s.respond(session), nil
}

func (s *examService) ToggleFlag(ctx context.Context, sessionID, studentID string, questionIndex int) (*ExamSessionResponse, error) {
	session, err := s.lookup(sessionID, studentID)
	if err != nil {
		return nil, err
	}
	session.ToggleFlag(questionIndex)
	return s.respond(session), nil
}

func (s *examService) Submit(ctx context.Context, sessionID, studentID string) (*models.ExamResult, error) {
	session, err := s.lookup(sessionID, studentID)
	if err != nil {
		return nil, err
	}
	return session.Submit(models.SubmitManual), nil
}

func (s *examService) TimeRemaining(ctx context.Context, sessionID, studentID string) (int, error) {
	session, err := s.lookup(sessionID, studentID)
	if err != nil {
		return 0, err
	}
	return session.Remaining(), nil
}

func (s *examService) LastResult(ctx context.Context, studentID string) (*models.ExamResult, error) {
	var sessionID string
	if err := s.kv.Get(ctx, store.LastSessionKey(studentID), &sessionID); err == nil {
		result, err := s.repo.Session().GetResultBySession(ctx, sessionID)
		if err == nil {
			return result, nil
		}
	}

	// Fall back to the stored history when the KV artifact is missing.
	results, err := s.repo.Session().ListResultsByStudent(ctx, studentID, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrResultNotFound
	}
	return results[0], nil
}

func (s *examService) History(ctx context.Context, studentID string, limit int) ([]*models.ExamResult, error) {
	results, err := s.repo.Session().ListResultsByStudent(ctx, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load exam history: %w", err)
	}
	return results, nil
}

// finalize runs exactly once per session, on manual submit or timer
// expiry. It may be called from the timer goroutine, so it builds its
// own context rather than borrowing a request's.
func (s *examService) finalize(session *exam.Session, result *models.ExamResult, reason models.SubmitReason) {
	ctx, cancel := context.WithTimeout(context.Background(), finalizeTimeout)
	defer cancel()

	studentID := session.StudentID()
	snapshot := session.Snapshot()

	if err := s.repo.Session().SaveSession(ctx, &snapshot); err != nil {
		s.logger.Error("failed to persist exam session", "session_id", snapshot.ID, "error", err)
	}
	if err := s.repo.Session().SaveResult(ctx, result); err != nil {
		s.logger.Error("failed to persist exam result", "session_id", snapshot.ID, "error", err)
	}

	// The setup artifact is consumed; the last-session pointer replaces it.
	if err := s.kv.Delete(ctx, store.ExamSettingsKey(studentID)); err != nil {
		s.logger.Warn("failed to delete exam settings", "student_id", studentID, "error", err)
	}
	if err := s.kv.Set(ctx, store.LastSessionKey(studentID), snapshot.ID, 0); err != nil {
		s.logger.Warn("failed to store last session pointer", "student_id", studentID, "error", err)
	}

	stats, err := s.statistics.RecordExam(ctx, snapshot, result)
	if err != nil {
		s.logger.Error("failed to update statistics", "student_id", studentID, "error", err)
	}

	if stats != nil {
		unlocked, err := s.achievement.EvaluateOnExam(ctx, studentID, *stats, result.TimeSpent, result.Score)
		if err != nil {
			s.logger.Error("failed to evaluate achievements", "student_id", studentID, "error", err)
		}
		for _, row := range unlocked {
			title := row.AchievementID
			if entry, ok := achievements.ByID(row.AchievementID); ok {
				title = entry.Title
			}
			s.publishEvent(ctx, events.NewEvent(events.AchievementUnlocked, events.AchievementUnlockedEvent{
				UserID:        studentID,
				AchievementID: row.AchievementID,
				Title:         title,
				UnlockedAt:    *row.UnlockedAt,
			}))
		}
	}

	s.publishEvent(ctx, events.NewEvent(events.ExamCompleted, events.ExamCompletedEvent{
		SessionID:  snapshot.ID,
		StudentID:  studentID,
		Score:      result.Score,
		Accuracy:   float64(result.Accuracy),
		TimeSpent:  result.TimeSpent,
		EndReason:  reason,
		ResultID:   result.ID,
		FinishedAt: result.CreatedAt,
	}))

	s.mu.Lock()
	delete(s.sessions, snapshot.ID)
	s.mu.Unlock()

	s.logger.Info("exam completed",
		"session_id", snapshot.ID,
		"student_id", studentID,
		"score", result.Score,
		"reason", reason)
}

func (s *examService) lookup(sessionID, studentID string) (*exam.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.StudentID() != studentID {
		return nil, ErrSessionNotOwned
	}
	return session, nil
}

func (s *examService) respond(session *exam.Session) *ExamSessionResponse {
	snapshot := session.Snapshot()
	questions := session.Questions()
	finished := session.State() == models.SessionSubmitted

	views := make([]ExamQuestionView, len(questions))
	for i, q := range questions {
		view := ExamQuestionView{
			ID:         q.ID,
			ChapterID:  q.ChapterID,
			Text:       q.Text,
			Options:    q.Options,
			Difficulty: q.Difficulty,
		}
		if finished || session.Revealed(i) {
			answer := q.CorrectAnswer
			view.CorrectAnswer = &answer
			view.Explanation = q.Explanation
		}
		views[i] = view
	}

	return &ExamSessionResponse{
		SessionID:     session.ID(),
		State:         session.State(),
		Position:      session.Position(),
		TimeRemaining: session.Remaining(),
		Duration:      snapshot.Duration,
		Questions:     views,
		Answers:       session.Answers(),
		Flagged:       session.Flagged(),
	}
}

func (s *examService) publishEvent(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", "event_type", event.Type, "error", err)
	}
}
