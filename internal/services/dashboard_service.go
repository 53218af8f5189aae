package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
)

// recentResultsWindow bounds the result scan behind the admin overview
// and the per-chapter attempt tallies.
const recentResultsWindow = 100

type dashboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger}
}

func (s *dashboardService) Overview(ctx context.Context) (*DashboardOverview, error) {
	users, err := s.repo.User().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	chapters, err := s.repo.Chapter().List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}

	questions, totalQuestions, err := s.repo.Question().List(ctx, repositories.QuestionFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	distribution := make(map[models.DifficultyLevel]int64)
	for _, q := range questions {
		distribution[q.Difficulty]++
	}

	totalExams, err := s.repo.Session().CountResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count exam results: %w", err)
	}

	pending := models.ReportPending
	_, pendingReports, err := s.repo.Report().List(ctx, repositories.ReportFilters{Status: &pending})
	if err != nil {
		return nil, fmt.Errorf("failed to count pending reports: %w", err)
	}

	recent, err := s.repo.Session().ListRecentResults(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent results: %w", err)
	}

	return &DashboardOverview{
		TotalUsers:             int64(len(users)),
		TotalChapters:          int64(len(chapters)),
		TotalQuestions:         totalQuestions,
		TotalExams:             totalExams,
		PendingReports:         pendingReports,
		DifficultyDistribution: distribution,
		RecentResults:          recent,
	}, nil
}

func (s *dashboardService) ChapterAnalytics(ctx context.Context) ([]ChapterAnalytics, error) {
	chapters, err := s.repo.Chapter().List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}

	// Attempt tallies come from the recent-result window, not a full
	// table scan.
	recent, err := s.repo.Session().ListRecentResults(ctx, recentResultsWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent results: %w", err)
	}
	attempts := make(map[string]int64)
	for _, result := range recent {
		for _, cr := range result.ChapterResults.Data() {
			attempts[cr.ChapterID]++
		}
	}

	out := make([]ChapterAnalytics, 0, len(chapters))
	for _, chapter := range chapters {
		count, err := s.repo.Question().CountByChapter(ctx, chapter.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count questions for chapter %s: %w", chapter.ID, err)
		}

		chapterID := chapter.ID
		questions, _, err := s.repo.Question().List(ctx, repositories.QuestionFilters{ChapterID: &chapterID})
		if err != nil {
			return nil, fmt.Errorf("failed to list questions for chapter %s: %w", chapter.ID, err)
		}
		reportCount := 0
		for _, q := range questions {
			reportCount += q.ReportCount
		}

		out = append(out, ChapterAnalytics{
			ChapterID:     chapter.ID,
			Title:         chapter.Title,
			Difficulty:    chapter.Difficulty,
			QuestionCount: count,
			ReportCount:   reportCount,
			AttemptCount:  attempts[chapter.ID],
		})
	}
	return out, nil
}
