package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
	"github.com/quizmaster-pro/exam-service/internal/validator"
)

type questionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuestionService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) QuestionService {
	return &questionService{repo: repo, logger: logger, validator: v}
}

func (s *questionService) List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error) {
	questions, total, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return &QuestionListResponse{
		Questions: questions,
		Total:     total,
		Page:      filters.Page,
		Size:      filters.Size,
	}, nil
}

func (s *questionService) GetByID(ctx context.Context, id string) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

func (s *questionService) GetByChapter(ctx context.Context, chapterID string) ([]models.Question, error) {
	if _, err := s.repo.Chapter().GetByID(ctx, chapterID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}

	questions, err := s.repo.Question().GetByChapters(ctx, []string{chapterID}, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions by chapter: %w", err)
	}
	return questions, nil
}

func (s *questionService) Create(ctx context.Context, req *QuestionCreateRequest) (*models.Question, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}
	if req.CorrectAnswer >= len(req.Options) {
		return nil, validator.ValidationErrors{{
			Field:   "correct_answer",
			Message: "must index into the option list",
			Value:   req.CorrectAnswer,
		}}
	}
	if _, err := s.repo.Chapter().GetByID(ctx, req.ChapterID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}

	question := &models.Question{
		ID:            uuid.NewString(),
		ChapterID:     req.ChapterID,
		Text:          req.Text,
		Options:       datatypes.JSONSlice[string](req.Options),
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
		Difficulty:    models.DifficultyLevel(req.Difficulty),
		Tags:          datatypes.JSONSlice[string](req.Tags),
		IsActive:      true,
	}
	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("question created", "question_id", question.ID, "chapter_id", question.ChapterID)
	return question, nil
}

func (s *questionService) Update(ctx context.Context, id string, req *QuestionUpdateRequest) (*models.Question, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if req.ChapterID != nil {
		if _, err := s.repo.Chapter().GetByID(ctx, *req.ChapterID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrChapterNotFound
			}
			return nil, fmt.Errorf("failed to get chapter: %w", err)
		}
		question.ChapterID = *req.ChapterID
	}
	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.Options != nil {
		question.Options = datatypes.JSONSlice[string](req.Options)
	}
	if req.CorrectAnswer != nil {
		question.CorrectAnswer = *req.CorrectAnswer
	}
	if req.Explanation != nil {
		question.Explanation = req.Explanation
	}
	if req.Difficulty != nil {
		question.Difficulty = models.DifficultyLevel(*req.Difficulty)
	}
	if req.Tags != nil {
		question.Tags = datatypes.JSONSlice[string](req.Tags)
	}
	if req.IsActive != nil {
		question.IsActive = *req.IsActive
	}

	if !question.HasValidAnswer() {
		return nil, validator.ValidationErrors{{
			Field:   "correct_answer",
			Message: "must index into the option list",
			Value:   question.CorrectAnswer,
		}}
	}

	if err := s.repo.Question().Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return question, nil
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Question().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to delete question: %w", err)
	}

	s.logger.Info("question deleted", "question_id", id)
	return nil
}
