package exam

import (
	"testing"

	"github.com/quizmaster-pro/exam-service/internal/models"
)

func scoringQuestion(id, chapter string, correct int) models.Question {
	return models.Question{
		ID:            id,
		ChapterID:     chapter,
		Options:       []string{"a", "b", "c", "d"},
		CorrectAnswer: correct,
		IsActive:      true,
	}
}

func TestEvaluate(t *testing.T) {
	questions := []models.Question{
		scoringQuestion("q1", "1", 0),
		scoringQuestion("q2", "1", 1),
		scoringQuestion("q3", "2", 2),
		scoringQuestion("q4", "2", 3),
	}

	tests := []struct {
		name    string
		answers []int
		want    Tally
	}{
		{
			name:    "all correct",
			answers: []int{0, 1, 2, 3},
			want:    Tally{Total: 4, Correct: 4, Accuracy: 100},
		},
		{
			name:    "all skipped",
			answers: []int{models.Unanswered, models.Unanswered, models.Unanswered, models.Unanswered},
			want:    Tally{Total: 4, Skipped: 4},
		},
		{
			name:    "mixed",
			answers: []int{0, 2, models.Unanswered, 3},
			want:    Tally{Total: 4, Correct: 2, Wrong: 1, Skipped: 1, Accuracy: 50},
		},
		{
			name:    "rounding",
			answers: []int{0, models.Unanswered, models.Unanswered, models.Unanswered},
			want:    Tally{Total: 4, Correct: 1, Skipped: 3, Accuracy: 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(questions, tt.answers)
			if got != tt.want {
				t.Errorf("Evaluate() = %+v, want %+v", got, tt.want)
			}
			if got.Correct+got.Wrong+got.Skipped != got.Total {
				t.Errorf("counts %d+%d+%d do not sum to total %d",
					got.Correct, got.Wrong, got.Skipped, got.Total)
			}
			if got.Accuracy < 0 || got.Accuracy > 100 {
				t.Errorf("accuracy %d outside [0,100]", got.Accuracy)
			}
		})
	}

	t.Run("empty sheet", func(t *testing.T) {
		got := Evaluate(nil, nil)
		if got.Total != 0 || got.Accuracy != 0 {
			t.Errorf("Evaluate(nil) = %+v, want zero tally", got)
		}
	})
}

func TestChapterBreakdown(t *testing.T) {
	questions := []models.Question{
		scoringQuestion("q1", "algebra", 0),
		scoringQuestion("q2", "geometry", 1),
		scoringQuestion("q3", "algebra", 2),
		scoringQuestion("q4", "calculus", 0),
	}
	answers := []int{0, 0, 2, models.Unanswered}

	got := ChapterBreakdown(questions, answers)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 chapters", len(got))
	}

	// First-seen chapter order must hold.
	wantOrder := []string{"algebra", "geometry", "calculus"}
	for i, want := range wantOrder {
		if got[i].ChapterID != want {
			t.Errorf("breakdown[%d] = %s, want %s", i, got[i].ChapterID, want)
		}
	}

	algebra := got[0]
	if algebra.TotalQuestions != 2 || algebra.CorrectAnswers != 2 || algebra.Accuracy != 100 {
		t.Errorf("algebra = %+v, want 2/2 at 100%%", algebra)
	}
	geometry := got[1]
	if geometry.TotalQuestions != 1 || geometry.CorrectAnswers != 0 || geometry.Accuracy != 0 {
		t.Errorf("geometry = %+v, want 1/0 at 0%%", geometry)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		part, total, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 1, 100},
		{0, 5, 0},
	}
	for _, tt := range tests {
		if got := Percentage(tt.part, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.part, tt.total, got, tt.want)
		}
	}
}
