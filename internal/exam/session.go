package exam

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/quizmaster-pro/exam-service/internal/models"
)

// Limits bounds the question count a session may be configured with and
// supplies the fallback time limit.
type Limits struct {
	MinQuestions     int
	MaxQuestions     int
	DefaultQuestions int
	DefaultTimeLimit int // seconds
}

// ValidationError is the only fatal failure the engine produces: bad
// initialization input. Everything after a session starts is a no-op
// instead.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid exam settings: %s %s", e.Field, e.Message)
}

// Session is one attempt at an exam: a state machine over a fixed
// question list with an answer slot per question and a countdown timer
// driving auto-submit. All methods are safe for use from the timer
// goroutine and the request path.
type Session struct {
	mu sync.Mutex

	id        string
	studentID string
	settings  models.ExamSettings

	questions []models.Question
	answers   []int
	flagged   map[int]bool
	revealed  map[int]bool
	current   int

	state     models.SessionState
	startTime time.Time
	endTime   time.Time
	duration  int
	timer     *Timer

	result      *models.ExamResult
	endReason   models.SubmitReason
	onCompleted func(*Session, *models.ExamResult, models.SubmitReason)
}

type SessionOption func(*sessionConfig)

type sessionConfig struct {
	rng          *rand.Rand
	tickInterval time.Duration
}

// WithRand fixes the shuffle source, making question selection
// deterministic.
func WithRand(rng *rand.Rand) SessionOption {
	return func(c *sessionConfig) {
		c.rng = rng
	}
}

// WithTimerTick overrides the session timer tick. Only tests should
// need this.
func WithTimerTick(d time.Duration) SessionOption {
	return func(c *sessionConfig) {
		c.tickInterval = d
	}
}

// NewSession validates settings against the bank, selects the question
// subset and starts the countdown. On validation failure no partial
// session is created.
func NewSession(studentID string, settings models.ExamSettings, bank []models.Question, limits Limits, opts ...SessionOption) (*Session, error) {
	cfg := &sessionConfig{
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		tickInterval: time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(settings.SelectedChapters) == 0 {
		return nil, &ValidationError{Field: "selected_chapters", Message: "must not be empty"}
	}

	if settings.QuestionCount == 0 && limits.DefaultQuestions > 0 {
		settings.QuestionCount = limits.DefaultQuestions
	}

	available := filterBank(bank, settings.SelectedChapters)
	maxAllowed := limits.MaxQuestions
	if len(available) < maxAllowed {
		maxAllowed = len(available)
	}
	if settings.QuestionCount < limits.MinQuestions {
		return nil, &ValidationError{
			Field:   "question_count",
			Message: fmt.Sprintf("must be at least %d", limits.MinQuestions),
		}
	}
	if settings.QuestionCount > maxAllowed {
		return nil, &ValidationError{
			Field:   "question_count",
			Message: fmt.Sprintf("must not exceed %d", maxAllowed),
		}
	}

	selected := make([]models.Question, len(available))
	copy(selected, available)
	if settings.RandomizeQuestions {
		cfg.rng.Shuffle(len(selected), func(i, j int) {
			selected[i], selected[j] = selected[j], selected[i]
		})
	}
	selected = selected[:settings.QuestionCount]

	answers := make([]int, len(selected))
	for i := range answers {
		answers[i] = models.Unanswered
	}

	duration := settings.TimeLimit
	if duration <= 0 {
		duration = limits.DefaultTimeLimit
	}

	s := &Session{
		id:        uuid.NewString(),
		studentID: studentID,
		settings:  settings,
		questions: selected,
		answers:   answers,
		flagged:   make(map[int]bool),
		revealed:  make(map[int]bool),
		state:     models.SessionInProgress,
		startTime: time.Now(),
		duration:  duration,
		timer:     NewTimer(duration, WithTickInterval(cfg.tickInterval)),
	}
	s.timer.OnExpire(func() {
		s.Submit(models.SubmitTimerExpired)
	})
	s.timer.Start()

	return s, nil
}

func filterBank(bank []models.Question, chapters []string) []models.Question {
	selected := make(map[string]bool, len(chapters))
	for _, id := range chapters {
		selected[id] = true
	}

	var out []models.Question
	for _, q := range bank {
		if q.IsActive && selected[q.ChapterID] {
			out = append(out, q)
		}
	}
	return out
}

// OnCompleted registers a listener invoked exactly once, when the
// session is finalized (manual submit or timer expiry). The listener is
// called outside the session lock.
func (s *Session) OnCompleted(fn func(*Session, *models.ExamResult, models.SubmitReason)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCompleted = fn
}

// SelectAnswer records an option choice for the question at index.
// Out-of-range input and calls on a finished session are ignored. When
// immediate explanations are enabled the first answer commits: the
// choice is locked and the explanation revealed for that index.
func (s *Session) SelectAnswer(index, optionIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.SessionInProgress {
		return
	}
	if index < 0 || index >= len(s.questions) {
		return
	}
	if optionIndex < 0 || optionIndex >= len(s.questions[index].Options) {
		return
	}
	if s.settings.ShowExplanations && s.answers[index] != models.Unanswered {
		return // committed on first answer
	}

	s.answers[index] = optionIndex
	if s.settings.ShowExplanations {
		s.revealed[index] = true
	}
}

// Navigate moves the current-position pointer to target, clamped to the
// question range. Never mutates answers.
func (s *Session) Navigate(target int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if target < 0 {
		target = 0
	}
	if max := len(s.questions) - 1; target > max {
		target = max
	}
	if s.state == models.SessionInProgress {
		s.current = target
	}
	return s.current
}

// Next advances to the following question, Prev to the preceding one.
func (s *Session) Next() int { return s.Navigate(s.Position() + 1) }
func (s *Session) Prev() int { return s.Navigate(s.Position() - 1) }

// ToggleFlag marks or unmarks a question for review. Purely advisory.
func (s *Session) ToggleFlag(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.SessionInProgress {
		return
	}
	if index < 0 || index >= len(s.questions) {
		return
	}
	if s.flagged[index] {
		delete(s.flagged, index)
	} else {
		s.flagged[index] = true
	}
}

// Submit finalizes the session. The first call computes and caches the
// result; every later call returns that same result unchanged, so the
// manual submit and the timer expiry can race safely.
func (s *Session) Submit(reason models.SubmitReason) *models.ExamResult {
	s.mu.Lock()
	if s.state == models.SessionSubmitted {
		result := s.result
		s.mu.Unlock()
		return result
	}

	s.state = models.SessionSubmitted
	s.endTime = time.Now()
	s.endReason = reason

	timeSpent := s.duration - s.timer.Remaining()
	if timeSpent < 0 {
		timeSpent = 0
	}

	tally := Evaluate(s.questions, s.answers)
	now := s.endTime
	s.result = &models.ExamResult{
		ID:               uuid.NewString(),
		ExamSessionID:    s.id,
		StudentID:        s.studentID,
		Score:            tally.Accuracy,
		TotalQuestions:   tally.Total,
		CorrectAnswers:   tally.Correct,
		WrongAnswers:     tally.Wrong,
		SkippedQuestions: tally.Skipped,
		Accuracy:         tally.Accuracy,
		TimeSpent:        timeSpent,
		CreatedAt:        now,
	}
	s.result.ChapterResults = datatypes.NewJSONType(ChapterBreakdown(s.questions, s.answers))

	result := s.result
	listener := s.onCompleted
	s.mu.Unlock()

	// Stopping after the state flip: the expiry the stop fires lands on
	// an already-submitted session and no-ops.
	s.timer.Stop()

	if listener != nil {
		listener(s, result, reason)
	}
	return result
}

// Snapshot returns the persistent form of the session.
func (s *Session) Snapshot() models.ExamSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := models.ExamSession{
		ID:         s.id,
		StudentID:  s.studentID,
		ChapterIDs: append([]string(nil), s.settings.SelectedChapters...),
		Answers:    append([]int(nil), s.answers...),
		StartTime:  s.startTime,
		Duration:   s.duration,
	}
	sess.Questions = datatypes.NewJSONType(append([]models.Question(nil), s.questions...))
	if s.state == models.SessionSubmitted {
		end := s.endTime
		sess.EndTime = &end
		sess.IsCompleted = true
		score := s.result.Score
		sess.Score = &score
		sess.TimeSpent = s.result.TimeSpent
		reason := string(s.endReason)
		sess.EndReason = &reason
	}
	return sess
}

func (s *Session) ID() string                    { return s.id }
func (s *Session) StudentID() string             { return s.studentID }
func (s *Session) Settings() models.ExamSettings { return s.settings }
func (s *Session) Remaining() int                { return s.timer.Remaining() }

// Position returns the current question index.
func (s *Session) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// State returns the lifecycle state.
func (s *Session) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Questions returns the presented question list.
func (s *Session) Questions() []models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Question(nil), s.questions...)
}

// Answers returns a copy of the answer array. Its length always equals
// the question count.
func (s *Session) Answers() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.answers...)
}

// Flagged returns the flagged indices in ascending order.
func (s *Session) Flagged() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]int, 0, len(s.flagged))
	for i := range s.questions {
		if s.flagged[i] {
			out = append(out, i)
		}
	}
	return out
}

// Revealed reports whether the explanation for index has been shown.
func (s *Session) Revealed(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revealed[index]
}

// Result returns the finalized result, or nil while in progress.
func (s *Session) Result() *models.ExamResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}
