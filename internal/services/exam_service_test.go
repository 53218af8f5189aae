package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/quizmaster-pro/exam-service/internal/events"
	"github.com/quizmaster-pro/exam-service/internal/exam"
	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
	"github.com/quizmaster-pro/exam-service/internal/repositories/memory"
	"github.com/quizmaster-pro/exam-service/internal/store"
	"github.com/quizmaster-pro/exam-service/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type examServiceFixture struct {
	service   ExamService
	repo      repositories.Repository
	kv        store.KVStore
	publisher *events.MockEventPublisher
}

func newExamServiceFixture(t *testing.T) *examServiceFixture {
	t.Helper()

	logger := testLogger()
	repo := memory.NewRepository()
	kv := store.NewMemoryStore()
	publisher := events.NewMockEventPublisher(logger)
	v := validator.New()

	statistics := NewStatisticsService(repo, logger)
	achievement := NewAchievementService(repo, logger)
	limits := exam.Limits{MinQuestions: 1, MaxQuestions: 100, DefaultTimeLimit: 3600}

	service := NewExamService(repo, kv, publisher, statistics, achievement, logger, v, limits)

	return &examServiceFixture{
		service:   service,
		repo:      repo,
		kv:        kv,
		publisher: publisher,
	}
}

func startExam(t *testing.T, f *examServiceFixture, studentID string) *ExamSessionResponse {
	t.Helper()
	resp, err := f.service.Start(context.Background(), studentID, &StartExamRequest{
		SelectedChapters: []string{"1", "2", "3"},
		QuestionCount:    3,
		TimeLimit:        600,
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return resp
}

func TestExamService_StartValidatesSettings(t *testing.T) {
	f := newExamServiceFixture(t)
	ctx := context.Background()

	t.Run("empty chapter selection", func(t *testing.T) {
		_, err := f.service.Start(ctx, "student-1", &StartExamRequest{QuestionCount: 5})
		if err == nil {
			t.Fatal("expected validation error for empty chapters")
		}
	})

	t.Run("count above available", func(t *testing.T) {
		_, err := f.service.Start(ctx, "student-1", &StartExamRequest{
			SelectedChapters: []string{"5"},
			QuestionCount:    50,
		})
		var ve *exam.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Start = %v, want exam.ValidationError", err)
		}
	})
}

func TestExamService_StartStoresSettingsArtifact(t *testing.T) {
	f := newExamServiceFixture(t)
	startExam(t, f, "student-1")

	var saved models.ExamSettings
	if err := f.kv.Get(context.Background(), store.ExamSettingsKey("student-1"), &saved); err != nil {
		t.Fatalf("settings artifact missing: %v", err)
	}
	if saved.QuestionCount != 3 {
		t.Errorf("saved QuestionCount = %d, want 3", saved.QuestionCount)
	}
}

func TestExamService_OwnershipEnforced(t *testing.T) {
	f := newExamServiceFixture(t)
	resp := startExam(t, f, "student-1")
	ctx := context.Background()

	if _, err := f.service.Get(ctx, resp.SessionID, "someone-else"); !errors.Is(err, ErrSessionNotOwned) {
		t.Errorf("Get as other student = %v, want ErrSessionNotOwned", err)
	}
	if _, err := f.service.Get(ctx, "missing-session", "student-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get missing = %v, want ErrSessionNotFound", err)
	}
}

func TestExamService_AnswerAndSubmitFlow(t *testing.T) {
	f := newExamServiceFixture(t)
	ctx := context.Background()
	resp := startExam(t, f, "student-1")

	// Questions arrive in bank order when randomization is off.
	if len(resp.Questions) != 3 {
		t.Fatalf("question count = %d, want 3", len(resp.Questions))
	}

	// Seeded correct answers for questions 1..3 are 1, 0, 0.
	for i, correct := range []int{1, 0, 0} {
		if _, err := f.service.Answer(ctx, resp.SessionID, "student-1", i, correct); err != nil {
			t.Fatalf("Answer(%d): %v", i, err)
		}
	}

	result, err := f.service.Submit(ctx, resp.SessionID, "student-1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Score != 100 || result.CorrectAnswers != 3 {
		t.Errorf("result = score %d correct %d, want 100/3", result.Score, result.CorrectAnswers)
	}

	t.Run("session persisted", func(t *testing.T) {
		saved, err := f.repo.Session().GetSessionByID(ctx, resp.SessionID)
		if err != nil {
			t.Fatalf("GetSessionByID: %v", err)
		}
		if !saved.IsCompleted || saved.Score == nil || *saved.Score != 100 {
			t.Errorf("persisted session = %+v, want completed with score 100", saved)
		}
	})

	t.Run("settings artifact consumed", func(t *testing.T) {
		var settings models.ExamSettings
		err := f.kv.Get(ctx, store.ExamSettingsKey("student-1"), &settings)
		if !store.IsNotFound(err) {
			t.Errorf("settings after submit = %v, want ErrNotFound", err)
		}
	})

	t.Run("last result reachable", func(t *testing.T) {
		last, err := f.service.LastResult(ctx, "student-1")
		if err != nil {
			t.Fatalf("LastResult: %v", err)
		}
		if last.ID != result.ID {
			t.Errorf("LastResult = %s, want %s", last.ID, result.ID)
		}
	})

	t.Run("statistics updated", func(t *testing.T) {
		stats, err := f.repo.Statistics().Get(ctx, "student-1")
		if err != nil {
			t.Fatalf("statistics missing: %v", err)
		}
		if stats.TotalExamsAttempted != 1 || stats.BestScore != 100 {
			t.Errorf("stats = %d exams best %d, want 1/100", stats.TotalExamsAttempted, stats.BestScore)
		}
	})

	t.Run("achievements unlocked", func(t *testing.T) {
		rows, err := f.repo.Achievement().GetByUser(ctx, "student-1")
		if err != nil {
			t.Fatalf("GetByUser: %v", err)
		}
		unlocked := make(map[string]bool)
		for _, row := range rows {
			if row.IsCompleted {
				unlocked[row.AchievementID] = true
			}
		}
		for _, want := range []string{"first_exam", "perfect_score", "speed_demon"} {
			if !unlocked[want] {
				t.Errorf("achievement %s not unlocked", want)
			}
		}
	})

	t.Run("events published", func(t *testing.T) {
		byType := make(map[string]int)
		for _, e := range f.publisher.GetPublishedEvents() {
			byType[e.Type]++
			if e.Source != events.Source || e.Version != events.Version || e.ID == "" {
				t.Errorf("malformed envelope: %+v", e)
			}
		}
		if byType[events.ExamStarted] != 1 || byType[events.ExamCompleted] != 1 {
			t.Errorf("event counts = %v, want one exam.started and one exam.completed", byType)
		}
		if byType[events.AchievementUnlocked] == 0 {
			t.Error("no achievement.unlocked event published")
		}
	})

	t.Run("answer after submit rejected", func(t *testing.T) {
		_, err := f.service.Answer(ctx, resp.SessionID, "student-1", 0, 2)
		// The registry drops finished sessions, so this surfaces as
		// not-found rather than already-ended.
		if !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionAlreadyEnded) {
			t.Errorf("Answer after submit = %v", err)
		}
	})
}

func TestExamService_HidesAnswersUntilRevealed(t *testing.T) {
	f := newExamServiceFixture(t)
	ctx := context.Background()

	resp, err := f.service.Start(ctx, "student-1", &StartExamRequest{
		SelectedChapters: []string{"1"},
		QuestionCount:    2,
		ShowExplanations: true,
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	for _, view := range resp.Questions {
		if view.CorrectAnswer != nil || view.Explanation != nil {
			t.Fatalf("unanswered question leaks answer: %+v", view)
		}
	}

	resp, err = f.service.Answer(ctx, resp.SessionID, "student-1", 0, 1)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if resp.Questions[0].CorrectAnswer == nil {
		t.Error("answered question should reveal the correct answer in explanation mode")
	}
	if resp.Questions[1].CorrectAnswer != nil {
		t.Error("untouched question must stay hidden")
	}
}

func TestExamService_TimerExpiryFinalizes(t *testing.T) {
	logger := testLogger()
	repo := memory.NewRepository()
	kv := store.NewMemoryStore()
	publisher := events.NewMockEventPublisher(logger)
	v := validator.New()

	statistics := NewStatisticsService(repo, logger)
	achievement := NewAchievementService(repo, logger)
	limits := exam.Limits{MinQuestions: 1, MaxQuestions: 100, DefaultTimeLimit: 3600}

	service := NewExamService(repo, kv, publisher, statistics, achievement, logger, v, limits,
		exam.WithTimerTick(5*time.Millisecond))

	ctx := context.Background()
	resp, err := service.Start(ctx, "student-1", &StartExamRequest{
		SelectedChapters: []string{"1"},
		QuestionCount:    2,
		TimeLimit:        1,
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		if _, err := repo.Session().GetSessionByID(ctx, resp.SessionID); err == nil {
			break
		}
		select {
		case <-deadline:
			t.Fatal("session not finalized after timer expiry")
		case <-time.After(10 * time.Millisecond):
		}
	}

	saved, err := repo.Session().GetSessionByID(ctx, resp.SessionID)
	if err != nil {
		t.Fatalf("GetSessionByID: %v", err)
	}
	if saved.EndReason == nil || *saved.EndReason != string(models.SubmitTimerExpired) {
		t.Errorf("end reason = %v, want timer_expired", saved.EndReason)
	}
}
