package exam

import (
	"math"

	"github.com/quizmaster-pro/exam-service/internal/models"
)

// Tally is the outcome counts of a completed answer sheet. Correct,
// Wrong and Skipped always sum to Total.
type Tally struct {
	Total    int
	Correct  int
	Wrong    int
	Skipped  int
	Accuracy int // round(100 * correct / total), 0 when total is 0
}

// Evaluate scores an answer sheet against its question list. Unanswered
// slots count as skipped; for the score they are simply not correct.
func Evaluate(questions []models.Question, answers []int) Tally {
	t := Tally{Total: len(questions)}
	for i, q := range questions {
		switch {
		case i >= len(answers) || answers[i] == models.Unanswered:
			t.Skipped++
		case answers[i] == q.CorrectAnswer:
			t.Correct++
		default:
			t.Wrong++
		}
	}
	t.Accuracy = Percentage(t.Correct, t.Total)
	return t
}

// ChapterBreakdown groups the presented questions by chapter, in
// first-seen chapter order, and scores each group.
func ChapterBreakdown(questions []models.Question, answers []int) []models.ChapterResult {
	index := make(map[string]int)
	var out []models.ChapterResult

	for i, q := range questions {
		pos, ok := index[q.ChapterID]
		if !ok {
			pos = len(out)
			index[q.ChapterID] = pos
			out = append(out, models.ChapterResult{ChapterID: q.ChapterID})
		}
		out[pos].TotalQuestions++
		if i < len(answers) && answers[i] == q.CorrectAnswer {
			out[pos].CorrectAnswers++
		}
	}
	for i := range out {
		out[i].Accuracy = Percentage(out[i].CorrectAnswers, out[i].TotalQuestions)
	}
	return out
}

// Percentage returns round(100 * part / total), or 0 when total is 0.
func Percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
