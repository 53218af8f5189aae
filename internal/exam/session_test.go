package exam

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/quizmaster-pro/exam-service/internal/models"
)

var testLimits = Limits{MinQuestions: 1, MaxQuestions: 100, DefaultTimeLimit: 3600}

func testBank(chapterID string, count int) []models.Question {
	bank := make([]models.Question, count)
	for i := range bank {
		bank[i] = models.Question{
			ID:            fmt.Sprintf("%s-q%d", chapterID, i+1),
			ChapterID:     chapterID,
			Text:          fmt.Sprintf("question %d of chapter %s", i+1, chapterID),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 1,
			IsActive:      true,
		}
	}
	return bank
}

func mustSession(t *testing.T, settings models.ExamSettings, bank []models.Question, opts ...SessionOption) *Session {
	t.Helper()
	s, err := NewSession("student-1", settings, bank, testLimits, opts...)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestNewSession_Validation(t *testing.T) {
	bank := testBank("1", 10)

	t.Run("empty chapter selection", func(t *testing.T) {
		_, err := NewSession("student-1", models.ExamSettings{QuestionCount: 5}, bank, testLimits)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
		if verr.Field != "selected_chapters" {
			t.Errorf("field = %q, want selected_chapters", verr.Field)
		}
	})

	t.Run("question count exceeds available", func(t *testing.T) {
		settings := models.ExamSettings{SelectedChapters: []string{"1"}, QuestionCount: 20}
		_, err := NewSession("student-1", settings, bank, testLimits)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("question count below minimum", func(t *testing.T) {
		limits := Limits{MinQuestions: 5, MaxQuestions: 100, DefaultTimeLimit: 3600}
		settings := models.ExamSettings{SelectedChapters: []string{"1"}, QuestionCount: 2}
		if _, err := NewSession("student-1", settings, bank, limits); err == nil {
			t.Fatal("expected validation error, got nil")
		}
	})

	t.Run("inactive questions do not count as available", func(t *testing.T) {
		small := testBank("1", 10)
		for i := 5; i < 10; i++ {
			small[i].IsActive = false
		}
		settings := models.ExamSettings{SelectedChapters: []string{"1"}, QuestionCount: 6}
		if _, err := NewSession("student-1", settings, small, testLimits); err == nil {
			t.Fatal("expected validation error, got nil")
		}
	})
}

func TestNewSession_Selection(t *testing.T) {
	bank := append(testBank("1", 5), testBank("2", 5)...)

	t.Run("ordered subset without randomize", func(t *testing.T) {
		settings := models.ExamSettings{SelectedChapters: []string{"1"}, QuestionCount: 3}
		s := mustSession(t, settings, bank)

		qs := s.Questions()
		if len(qs) != 3 {
			t.Fatalf("len(questions) = %d, want 3", len(qs))
		}
		for i, q := range qs {
			if want := fmt.Sprintf("1-q%d", i+1); q.ID != want {
				t.Errorf("questions[%d].ID = %q, want %q", i, q.ID, want)
			}
		}
		if got := len(s.Answers()); got != 3 {
			t.Errorf("len(answers) = %d, want 3", got)
		}
	})

	t.Run("shuffle is a permutation", func(t *testing.T) {
		settings := models.ExamSettings{
			SelectedChapters:   []string{"1", "2"},
			QuestionCount:      10,
			RandomizeQuestions: true,
		}
		s := mustSession(t, settings, bank, WithRand(rand.New(rand.NewSource(42))))

		seen := make(map[string]bool)
		for _, q := range s.Questions() {
			seen[q.ID] = true
		}
		if len(seen) != 10 {
			t.Errorf("shuffled selection has %d distinct questions, want 10", len(seen))
		}
	})

	t.Run("answers parallel to questions in every state", func(t *testing.T) {
		settings := models.ExamSettings{SelectedChapters: []string{"1"}, QuestionCount: 5}
		s := mustSession(t, settings, bank)

		if len(s.Answers()) != len(s.Questions()) {
			t.Fatal("answers not parallel to questions after start")
		}
		s.SelectAnswer(0, 1)
		s.Submit(models.SubmitManual)
		if len(s.Answers()) != len(s.Questions()) {
			t.Fatal("answers not parallel to questions after submit")
		}
	})
}

func TestSession_SelectAnswer(t *testing.T) {
	bank := testBank("1", 4)
	settings := models.ExamSettings{SelectedChapters: []string{"1"}, QuestionCount: 4}

	t.Run("records and allows change without explanations", func(t *testing.T) {
		s := mustSession(t, settings, bank)
		s.SelectAnswer(0, 2)
		s.SelectAnswer(0, 1)
		if got := s.Answers()[0]; got != 1 {
			t.Errorf("answers[0] = %d, want 1 (re-selection allowed)", got)
		}
	})

	t.Run("locks after first answer with explanations", func(t *testing.T) {
		withExpl := settings
		withExpl.ShowExplanations = true
		s := mustSession(t, withExpl, bank)

		s.SelectAnswer(0, 2)
		s.SelectAnswer(0, 1)
		if got := s.Answers()[0]; got != 2 {
			t.Errorf("answers[0] = %d, want 2 (locked on first answer)", got)
		}
		if !s.Revealed(0) {
			t.Error("explanation not revealed for answered question")
		}
		if s.Revealed(1) {
			t.Error("explanation revealed for untouched question")
		}
	})

	t.Run("out of range is a no-op", func(t *testing.T) {
		s := mustSession(t, settings, bank)
		s.SelectAnswer(-1, 0)
		s.SelectAnswer(99, 0)
		s.SelectAnswer(0, 99)
		for i, a := range s.Answers() {
			if a != models.Unanswered {
				t.Errorf("answers[%d] = %d, want unanswered", i, a)
			}
		}
	})

	t.Run("ignored after submit", func(t *testing.T) {
		s := mustSession(t, settings, bank)
		s.Submit(models.SubmitManual)
		s.SelectAnswer(0, 1)
		if got := s.Answers()[0]; got != models.Unanswered {
			t.Errorf("answers[0] = %d after post-submit select, want unanswered", got)
		}
	})
}

func TestSession_Navigate(t *testing.T) {
	bank := testBank("1", 5)
	settings := models.ExamSettings{SelectedChapters: []string{"1"}, QuestionCount: 5}
	s := mustSession(t, settings, bank)

	if got := s.Navigate(3); got != 3 {
		t.Errorf("Navigate(3) = %d, want 3", got)
	}
	if got := s.Navigate(99); got != 4 {
		t.Errorf("Navigate(99) = %d, want clamp to 4", got)
	}
	if got := s.Navigate(-7); got != 0 {
		t.Errorf("Navigate(-7) = %d, want clamp to 0", got)
	}
	if got := s.Next(); got != 1 {
		t.Errorf("Next() = %d, want 1", got)
	}
	if got := s.Prev(); got != 0 {
		t.Errorf("Prev() = %d, want 0", got)
	}
}

func TestSession_ToggleFlag(t *testing.T) {
	bank := testBank("1", 3)
	settings := models.ExamSettings{SelectedChapters: []string{"1"}, QuestionCount: 3}
	s := mustSession(t, settings, bank)

	s.ToggleFlag(1)
	s.ToggleFlag(2)
	s.ToggleFlag(1)
	s.ToggleFlag(99) // no-op

	got := s.Flagged()
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("Flagged() = %v, want [2]", got)
	}
}

func TestSession_SubmitScoring(t *testing.T) {
	question := models.Question{
		ID:            "1",
		ChapterID:     "1",
		Text:          "the scenario question",
		Options:       []string{"w", "x", "y", "z"},
		CorrectAnswer: 1,
		IsActive:      true,
	}
	settings := models.ExamSettings{
		SelectedChapters: []string{"1"},
		QuestionCount:    1,
		ShowExplanations: true,
	}

	t.Run("correct answer scores 100", func(t *testing.T) {
		s := mustSession(t, settings, []models.Question{question})
		s.SelectAnswer(0, 1)
		result := s.Submit(models.SubmitManual)

		if result.Score != 100 || result.CorrectAnswers != 1 || result.WrongAnswers != 0 || result.SkippedQuestions != 0 {
			t.Errorf("result = score %d correct %d wrong %d skipped %d, want 100/1/0/0",
				result.Score, result.CorrectAnswers, result.WrongAnswers, result.SkippedQuestions)
		}
	})

	t.Run("wrong answer scores 0", func(t *testing.T) {
		s := mustSession(t, settings, []models.Question{question})
		s.SelectAnswer(0, 0)
		result := s.Submit(models.SubmitManual)

		if result.Score != 0 || result.WrongAnswers != 1 {
			t.Errorf("result = score %d wrong %d, want 0/1", result.Score, result.WrongAnswers)
		}
	})

	t.Run("submit is idempotent", func(t *testing.T) {
		s := mustSession(t, settings, []models.Question{question})
		s.SelectAnswer(0, 1)
		first := s.Submit(models.SubmitManual)
		second := s.Submit(models.SubmitTimerExpired)

		if first != second {
			t.Error("second submit returned a different result")
		}
		if s.State() != models.SessionSubmitted {
			t.Errorf("state = %s, want submitted", s.State())
		}
	})

	t.Run("time spent never negative", func(t *testing.T) {
		s := mustSession(t, settings, []models.Question{question})
		result := s.Submit(models.SubmitManual)
		if result.TimeSpent < 0 {
			t.Errorf("TimeSpent = %d, want >= 0", result.TimeSpent)
		}
	})
}

func TestSession_TimerExpiryAutoSubmits(t *testing.T) {
	bank := testBank("1", 2)
	settings := models.ExamSettings{
		SelectedChapters: []string{"1"},
		QuestionCount:    2,
		TimeLimit:        2,
	}

	s := mustSession(t, settings, bank, WithTimerTick(time.Millisecond))

	done := make(chan models.SubmitReason, 2)
	s.OnCompleted(func(_ *Session, _ *models.ExamResult, reason models.SubmitReason) {
		done <- reason
	})
	s.SelectAnswer(0, 1)

	select {
	case reason := <-done:
		if reason != models.SubmitTimerExpired {
			t.Errorf("reason = %s, want timer_expired", reason)
		}
	case <-time.After(time.Second):
		t.Fatal("session not auto-submitted on expiry")
	}

	select {
	case <-done:
		t.Fatal("completion listener fired more than once")
	case <-time.After(20 * time.Millisecond):
	}

	result := s.Result()
	if result == nil {
		t.Fatal("no result after auto-submit")
	}
	if result.CorrectAnswers != 1 || result.SkippedQuestions != 1 {
		t.Errorf("result = correct %d skipped %d, want 1/1", result.CorrectAnswers, result.SkippedQuestions)
	}
	if got := s.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d after expiry, want 0", got)
	}
}

func TestSession_Snapshot(t *testing.T) {
	bank := testBank("1", 3)
	settings := models.ExamSettings{SelectedChapters: []string{"1"}, QuestionCount: 3}
	s := mustSession(t, settings, bank)

	s.SelectAnswer(0, 1)
	s.SelectAnswer(1, 0)

	snap := s.Snapshot()
	if snap.IsCompleted || snap.EndTime != nil || snap.Score != nil {
		t.Error("in-progress snapshot carries completion fields")
	}

	s.Submit(models.SubmitManual)
	snap = s.Snapshot()
	if !snap.IsCompleted || snap.EndTime == nil || snap.Score == nil {
		t.Fatal("completed snapshot missing completion fields")
	}
	if *snap.Score != 33 {
		t.Errorf("score = %d, want 33 (1 of 3 correct)", *snap.Score)
	}
	if got := *snap.EndReason; got != string(models.SubmitManual) {
		t.Errorf("end reason = %q, want manual", got)
	}
}
