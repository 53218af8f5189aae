package validator

// LoginRequest is the credentials payload for the mocked auth flow.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterRequest creates a new student account.
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type ChapterCreateRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Difficulty  string `json:"difficulty" validate:"required,difficulty"`
}

type ChapterUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Difficulty  *string `json:"difficulty" validate:"omitempty,difficulty"`
	IsActive    *bool   `json:"is_active"`
}

type QuestionCreateRequest struct {
	ChapterID     string   `json:"chapter_id" validate:"required"`
	Text          string   `json:"question" validate:"required,min=10,max=500"`
	Options       []string `json:"options" validate:"required,min=2,max=6,dive,required"`
	CorrectAnswer int      `json:"correct_answer" validate:"min=0"`
	Explanation   *string  `json:"explanation" validate:"omitempty,max=1000"`
	Difficulty    string   `json:"difficulty" validate:"required,difficulty"`
	Tags          []string `json:"tags" validate:"max=10,dive,max=50"`
}

type QuestionUpdateRequest struct {
	ChapterID     *string  `json:"chapter_id"`
	Text          *string  `json:"question" validate:"omitempty,min=10,max=500"`
	Options       []string `json:"options" validate:"omitempty,min=2,max=6,dive,required"`
	CorrectAnswer *int     `json:"correct_answer" validate:"omitempty,min=0"`
	Explanation   *string  `json:"explanation" validate:"omitempty,max=1000"`
	Difficulty    *string  `json:"difficulty" validate:"omitempty,difficulty"`
	Tags          []string `json:"tags" validate:"omitempty,max=10,dive,max=50"`
	IsActive      *bool    `json:"is_active"`
}

// StartExamRequest carries the exam settings chosen on the setup
// screen. Count and time bounds are enforced by the session engine,
// not by tags, so the error can name the configured limits.
type StartExamRequest struct {
	SelectedChapters   []string `json:"selected_chapters" validate:"required,min=1,dive,required"`
	QuestionCount      int      `json:"question_count" validate:"min=0"`
	TimeLimit          int      `json:"time_limit" validate:"min=0"`
	RandomizeQuestions bool     `json:"randomize_questions"`
	ShowExplanations   bool     `json:"show_explanations"`
}

type AnswerRequest struct {
	QuestionIndex int `json:"question_index" validate:"min=0"`
	OptionIndex   int `json:"option_index" validate:"min=0"`
}

type NavigateRequest struct {
	Target int `json:"target" validate:"min=0"`
}

type FlagRequest struct {
	QuestionIndex int `json:"question_index" validate:"min=0"`
}

type ReportCreateRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	Reason     string `json:"reason" validate:"required,report_reason"`
	Details    string `json:"details" validate:"max=1000"`
}

type ReportUpdateRequest struct {
	Status string `json:"status" validate:"required,report_status"`
}

type ThemeRequest struct {
	Theme string `json:"theme" validate:"required,theme"`
}
