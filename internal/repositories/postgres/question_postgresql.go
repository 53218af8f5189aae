package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (r *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	if err := r.db.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (r *QuestionPostgreSQL) GetByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.NewNotFoundError("question", id)
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return &question, nil
}

func (r *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	result := r.db.WithContext(ctx).Model(&models.Question{}).Where("id = ?", question.ID).Updates(question)
	if result.Error != nil {
		return fmt.Errorf("failed to update question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.NewNotFoundError("question", question.ID)
	}
	return nil
}

func (r *QuestionPostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Question{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.NewNotFoundError("question", id)
	}
	return nil
}

func (r *QuestionPostgreSQL) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Question{})
	query = r.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count questions: %w", err)
	}

	if filters.Size > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(filters.Size).Offset((page - 1) * filters.Size)
	}

	var questions []*models.Question
	if err := query.Order("id ASC").Find(&questions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, total, nil
}

func (r *QuestionPostgreSQL) GetByChapters(ctx context.Context, chapterIDs []string, activeOnly bool) ([]models.Question, error) {
	if len(chapterIDs) == 0 {
		return []models.Question{}, nil
	}

	query := r.db.WithContext(ctx).Where("chapter_id IN ?", chapterIDs)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var questions []models.Question
	if err := query.Order("id ASC").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to get questions by chapters: %w", err)
	}
	return questions, nil
}

func (r *QuestionPostgreSQL) CountByChapter(ctx context.Context, chapterID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("chapter_id = ? AND is_active = ?", chapterID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count questions by chapter: %w", err)
	}
	return count, nil
}

func (r *QuestionPostgreSQL) IncrementReportCount(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", id).
		UpdateColumn("report_count", gorm.Expr("report_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment report count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.NewNotFoundError("question", id)
	}
	return nil
}

func (r *QuestionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	if filters.ChapterID != nil {
		query = query.Where("chapter_id = ?", *filters.ChapterID)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filters.Search != "" {
		searchTerm := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(text) LIKE ?", searchTerm)
	}
	return query
}
