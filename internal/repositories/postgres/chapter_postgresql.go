package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
)

type ChapterPostgreSQL struct {
	db *gorm.DB
}

func NewChapterPostgreSQL(db *gorm.DB) repositories.ChapterRepository {
	return &ChapterPostgreSQL{db: db}
}

func (r *ChapterPostgreSQL) Create(ctx context.Context, chapter *models.Chapter) error {
	if err := r.db.WithContext(ctx).Create(chapter).Error; err != nil {
		return fmt.Errorf("failed to create chapter: %w", err)
	}
	return nil
}

func (r *ChapterPostgreSQL) GetByID(ctx context.Context, id string) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := r.db.WithContext(ctx).First(&chapter, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.NewNotFoundError("chapter", id)
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return &chapter, nil
}

func (r *ChapterPostgreSQL) Update(ctx context.Context, chapter *models.Chapter) error {
	result := r.db.WithContext(ctx).Model(&models.Chapter{}).Where("id = ?", chapter.ID).Updates(chapter)
	if result.Error != nil {
		return fmt.Errorf("failed to update chapter: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.NewNotFoundError("chapter", chapter.ID)
	}
	return nil
}

func (r *ChapterPostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Chapter{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete chapter: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.NewNotFoundError("chapter", id)
	}
	return nil
}

func (r *ChapterPostgreSQL) List(ctx context.Context, includeInactive bool) ([]*models.Chapter, error) {
	query := r.db.WithContext(ctx).Model(&models.Chapter{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var chapters []*models.Chapter
	if err := query.Order("id ASC").Find(&chapters).Error; err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	return chapters, nil
}
