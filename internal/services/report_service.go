package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quizmaster-pro/exam-service/internal/events"
	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
	"github.com/quizmaster-pro/exam-service/internal/validator"
)

type reportService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewReportService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) ReportService {
	return &reportService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *reportService) Create(ctx context.Context, studentID string, req *ReportCreateRequest) (*models.Report, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	if _, err := s.repo.Question().GetByID(ctx, req.QuestionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	report := &models.Report{
		ID:          uuid.NewString(),
		QuestionID:  req.QuestionID,
		StudentID:   studentID,
		Reason:      models.ReportReason(req.Reason),
		Description: req.Details,
		Status:      models.ReportPending,
	}
	if err := s.repo.Report().Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	if err := s.repo.Question().IncrementReportCount(ctx, req.QuestionID); err != nil {
		s.logger.Warn("failed to increment report count", "question_id", req.QuestionID, "error", err)
	}

	if err := s.publisher.Publish(ctx, events.NewEvent(events.QuestionReported, events.QuestionReportedEvent{
		ReportID:   report.ID,
		QuestionID: report.QuestionID,
		StudentID:  studentID,
		Reason:     report.Reason,
	})); err != nil {
		s.logger.Warn("event publish failed", "event_type", events.QuestionReported, "error", err)
	}

	s.logger.Info("question reported", "report_id", report.ID, "question_id", report.QuestionID)
	return report, nil
}

func (s *reportService) List(ctx context.Context, filters repositories.ReportFilters) (*ReportListResponse, error) {
	reports, total, err := s.repo.Report().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return &ReportListResponse{Reports: reports, Total: total}, nil
}

func (s *reportService) UpdateStatus(ctx context.Context, id, adminID string, req *ReportUpdateRequest) (*models.Report, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	report, err := s.repo.Report().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	now := time.Now()
	report.Status = models.ReportStatus(req.Status)
	report.ReviewedBy = &adminID
	report.ReviewedAt = &now

	if err := s.repo.Report().Update(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}

	s.logger.Info("report status updated", "report_id", id, "status", report.Status)
	return report, nil
}
