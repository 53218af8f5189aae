package services

import "errors"

var (
	ErrSessionNotFound      = errors.New("exam session not found")
	ErrSessionNotOwned      = errors.New("exam session belongs to another student")
	ErrSessionAlreadyEnded  = errors.New("exam session already submitted")
	ErrResultNotFound       = errors.New("exam result not found")
	ErrChapterNotFound      = errors.New("chapter not found")
	ErrChapterHasQuestions  = errors.New("chapter still has questions")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrReportNotFound       = errors.New("report not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailExists          = errors.New("email already exists")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrImportFileUnreadable = errors.New("import file could not be parsed")
)
