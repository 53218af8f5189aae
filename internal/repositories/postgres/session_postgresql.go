package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

func (r *SessionPostgreSQL) SaveSession(ctx context.Context, session *models.ExamSession) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(session).Error
	if err != nil {
		return fmt.Errorf("failed to save exam session: %w", err)
	}
	return nil
}

func (r *SessionPostgreSQL) GetSessionByID(ctx context.Context, id string) (*models.ExamSession, error) {
	var session models.ExamSession
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.NewNotFoundError("exam session", id)
		}
		return nil, fmt.Errorf("failed to get exam session: %w", err)
	}
	return &session, nil
}

func (r *SessionPostgreSQL) SaveResult(ctx context.Context, result *models.ExamResult) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(result).Error
	if err != nil {
		return fmt.Errorf("failed to save exam result: %w", err)
	}
	return nil
}

func (r *SessionPostgreSQL) GetResultBySession(ctx context.Context, sessionID string) (*models.ExamResult, error) {
	var result models.ExamResult
	if err := r.db.WithContext(ctx).First(&result, "exam_session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.NewNotFoundError("exam result", sessionID)
		}
		return nil, fmt.Errorf("failed to get exam result: %w", err)
	}
	return &result, nil
}

func (r *SessionPostgreSQL) ListResultsByStudent(ctx context.Context, studentID string, limit int) ([]*models.ExamResult, error) {
	query := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var results []*models.ExamResult
	if err := query.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to list exam results: %w", err)
	}
	return results, nil
}

func (r *SessionPostgreSQL) ListRecentResults(ctx context.Context, limit int) ([]*models.ExamResult, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var results []*models.ExamResult
	if err := query.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent exam results: %w", err)
	}
	return results, nil
}

func (r *SessionPostgreSQL) CountResults(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ExamResult{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count exam results: %w", err)
	}
	return count, nil
}
