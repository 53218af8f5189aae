package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
)

const questionSheet = "Questions"

// Column layout of the question workbook. Import and export share it.
var questionColumns = []string{
	"ID", "Chapter ID", "Question", "Options", "Correct Answer",
	"Explanation", "Difficulty", "Tags", "Active",
}

// optionSeparator joins the option list into one cell.
const optionSeparator = " | "

type importExportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewImportExportService(repo repositories.Repository, logger *slog.Logger) ImportExportService {
	return &importExportService{repo: repo, logger: logger}
}

func (s *importExportService) ExportQuestions(ctx context.Context, w io.Writer) error {
	questions, _, err := s.repo.Question().List(ctx, repositories.QuestionFilters{})
	if err != nil {
		return fmt.Errorf("failed to list questions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(questionSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, name := range questionColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(questionSheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, q := range questions {
		explanation := ""
		if q.Explanation != nil {
			explanation = *q.Explanation
		}
		row := []interface{}{
			q.ID,
			q.ChapterID,
			q.Text,
			strings.Join(q.Options, optionSeparator),
			q.CorrectAnswer,
			explanation,
			string(q.Difficulty),
			strings.Join(q.Tags, ","),
			q.IsActive,
		}
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(questionSheet, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i+2, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("questions exported", "count", len(questions))
	return nil
}

func (s *importExportService) ImportQuestions(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ErrImportFileUnreadable
	}
	defer f.Close()

	rows, err := f.GetRows(questionSheet)
	if err != nil {
		return nil, ErrImportFileUnreadable
	}
	if len(rows) < 2 {
		return &ImportResult{}, nil
	}

	result := &ImportResult{}
	for i, row := range rows[1:] {
		rowNum := i + 2

		question, err := s.parseRow(row)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		if _, err := s.repo.Chapter().GetByID(ctx, question.ChapterID); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: unknown chapter %s", rowNum, question.ChapterID))
			continue
		}

		if err := s.repo.Question().Create(ctx, question); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		result.Imported++
	}

	s.logger.Info("questions imported", "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

func (s *importExportService) parseRow(row []string) (*models.Question, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	text := cell(2)
	if text == "" {
		return nil, fmt.Errorf("question text is empty")
	}

	options := strings.Split(cell(3), optionSeparator)
	for i := range options {
		options[i] = strings.TrimSpace(options[i])
	}
	if len(options) < 2 {
		return nil, fmt.Errorf("needs at least 2 options")
	}

	correct, err := strconv.Atoi(cell(4))
	if err != nil || correct < 0 || correct >= len(options) {
		return nil, fmt.Errorf("correct answer must index into the option list")
	}

	difficulty := models.DifficultyLevel(cell(6))
	switch difficulty {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	case "":
		difficulty = models.DifficultyMedium
	default:
		return nil, fmt.Errorf("unknown difficulty %q", cell(6))
	}

	question := &models.Question{
		ID:            cell(0),
		ChapterID:     cell(1),
		Text:          text,
		Options:       datatypes.JSONSlice[string](options),
		CorrectAnswer: correct,
		Difficulty:    difficulty,
		IsActive:      true,
	}
	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	if question.ChapterID == "" {
		return nil, fmt.Errorf("chapter id is empty")
	}
	if explanation := cell(5); explanation != "" {
		question.Explanation = &explanation
	}
	if tags := cell(7); tags != "" {
		parts := strings.Split(tags, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		question.Tags = datatypes.JSONSlice[string](parts)
	}
	if active := cell(8); active != "" {
		question.IsActive = strings.EqualFold(active, "true") || active == "1"
	}

	return question, nil
}
