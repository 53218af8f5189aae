package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
)

type ReportPostgreSQL struct {
	db *gorm.DB
}

func NewReportPostgreSQL(db *gorm.DB) repositories.ReportRepository {
	return &ReportPostgreSQL{db: db}
}

func (r *ReportPostgreSQL) Create(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *ReportPostgreSQL) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.NewNotFoundError("report", id)
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &report, nil
}

func (r *ReportPostgreSQL) Update(ctx context.Context, report *models.Report) error {
	result := r.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", report.ID).Updates(report)
	if result.Error != nil {
		return fmt.Errorf("failed to update report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.NewNotFoundError("report", report.ID)
	}
	return nil
}

func (r *ReportPostgreSQL) List(ctx context.Context, filters repositories.ReportFilters) ([]*models.Report, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Report{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.QuestionID != nil {
		query = query.Where("question_id = ?", *filters.QuestionID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	if filters.Size > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(filters.Size).Offset((page - 1) * filters.Size)
	}

	var reports []*models.Report
	if err := query.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}
