package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
	"github.com/quizmaster-pro/exam-service/internal/validator"
)

type chapterService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewChapterService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) ChapterService {
	return &chapterService{repo: repo, logger: logger, validator: v}
}

// List returns chapters with live question counts attached.
func (s *chapterService) List(ctx context.Context, includeInactive bool) ([]*models.Chapter, error) {
	chapters, err := s.repo.Chapter().List(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}

	for _, chapter := range chapters {
		count, err := s.repo.Question().CountByChapter(ctx, chapter.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count questions for chapter %s: %w", chapter.ID, err)
		}
		chapter.QuestionCount = int(count)
	}
	return chapters, nil
}

func (s *chapterService) GetByID(ctx context.Context, id string) (*models.Chapter, error) {
	chapter, err := s.repo.Chapter().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}

	count, err := s.repo.Question().CountByChapter(ctx, chapter.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	chapter.QuestionCount = int(count)
	return chapter, nil
}

func (s *chapterService) Create(ctx context.Context, req *ChapterCreateRequest) (*models.Chapter, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	chapter := &models.Chapter{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Difficulty:  models.DifficultyLevel(req.Difficulty),
		IsActive:    true,
	}
	if err := s.repo.Chapter().Create(ctx, chapter); err != nil {
		return nil, fmt.Errorf("failed to create chapter: %w", err)
	}

	s.logger.Info("chapter created", "chapter_id", chapter.ID, "title", chapter.Title)
	return chapter, nil
}

func (s *chapterService) Update(ctx context.Context, id string, req *ChapterUpdateRequest) (*models.Chapter, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	chapter, err := s.repo.Chapter().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}

	if req.Title != nil {
		chapter.Title = *req.Title
	}
	if req.Description != nil {
		chapter.Description = *req.Description
	}
	if req.Difficulty != nil {
		chapter.Difficulty = models.DifficultyLevel(*req.Difficulty)
	}
	if req.IsActive != nil {
		chapter.IsActive = *req.IsActive
	}

	if err := s.repo.Chapter().Update(ctx, chapter); err != nil {
		return nil, fmt.Errorf("failed to update chapter: %w", err)
	}
	return chapter, nil
}

func (s *chapterService) Delete(ctx context.Context, id string) error {
	count, err := s.repo.Question().CountByChapter(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count questions: %w", err)
	}
	if count > 0 {
		return ErrChapterHasQuestions
	}

	if err := s.repo.Chapter().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrChapterNotFound
		}
		return fmt.Errorf("failed to delete chapter: %w", err)
	}

	s.logger.Info("chapter deleted", "chapter_id", id)
	return nil
}
