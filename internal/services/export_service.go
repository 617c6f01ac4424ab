package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/smart-result/records-service/internal/models"
	"github.com/smart-result/records-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// CourseResultSheet renders every recorded result of a course as an xlsx
// sheet, one row per student.
func (s *exportService) CourseResultSheet(ctx context.Context, courseID string, actor Actor) (*ExportedSheet, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("course", courseID)
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	if err := s.authorizeExport(course, actor); err != nil {
		return nil, err
	}

	results, _, err := s.repo.Result().List(ctx, repositories.ResultFilters{CourseID: &courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	content, err := renderResultSheet(course, results)
	if err != nil {
		return nil, fmt.Errorf("failed to render sheet: %w", err)
	}

	s.logger.Info("Result sheet exported", "course_id", courseID, "rows", len(results))

	return &ExportedSheet{
		Filename: fmt.Sprintf("%s_results.xlsx", course.Code),
		Content:  content,
	}, nil
}

func (s *exportService) authorizeExport(course *models.Course, actor Actor) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.Role == models.RoleLecturer && course.LecturerID != nil && *course.LecturerID == actor.ActorID {
		return nil
	}
	return NewPermissionError(actor.ActorID, "result_sheet", "export", "not the course lecturer")
}

func renderResultSheet(course *models.Course, results []*models.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Matric No", "Student", "Course", "Session", "Semester", "Score", "Grade", "Published"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, result := range results {
		values := []interface{}{
			result.Student.MatricNo,
			result.Student.User.FullName(),
			course.Code,
			result.Enrollment.Session,
			string(result.Enrollment.Semester),
			result.Score,
			string(result.Grade),
			result.Published,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
