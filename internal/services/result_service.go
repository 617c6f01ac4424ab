package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/smart-result/records-service/internal/events"
	"github.com/smart-result/records-service/internal/models"
	"github.com/smart-result/records-service/internal/repositories"
	"github.com/smart-result/records-service/internal/validator"
)

type resultService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewResultService(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) ResultService {
	return &resultService{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      validator,
	}
}

func (s *resultService) Submit(ctx context.Context, req *SubmitResultRequest, actor Actor) (*SubmitResultResponse, error) {
	s.logger.Info("Submitting result", "enrollment_id", req.EnrollmentID, "actor_id", actor.ActorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	enrollment, err := s.repo.Enrollment().GetByIDWithRelations(ctx, req.EnrollmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("enrollment", req.EnrollmentID)
		}
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}

	course := enrollment.Course
	if course.LecturerID == nil {
		return nil, NewConflictError("result", "course has no assigned lecturer")
	}
	if err := s.authorizeCourseWrite(actor, course.LecturerID); err != nil {
		return nil, err
	}

	result := &models.Result{
		EnrollmentID: enrollment.ID,
		CourseID:     enrollment.CourseID,
		StudentID:    enrollment.StudentID,
		LecturerID:   *course.LecturerID,
		Score:        req.Score,
		Grade:        GradeForScore(req.Score),
	}

	// The unique index on enrollment_id makes this an overwrite when a
	// result already exists; only score and grade change.
	if err := s.repo.Result().Upsert(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to store result: %w", err)
	}

	resp := &SubmitResultResponse{Result: result}
	if err := s.publishResultRecorded(ctx, result, enrollment); err != nil {
		resp.Warning = "result recorded, but the student notification could not be dispatched"
	}

	return resp, nil
}

func (s *resultService) GetByEnrollment(ctx context.Context, enrollmentID string, actor Actor) (*models.Result, error) {
	result, err := s.repo.Result().GetByEnrollment(ctx, enrollmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("result", enrollmentID)
		}
		return nil, fmt.Errorf("failed to load result: %w", err)
	}

	// Students only see their own released results.
	if actor.Role == models.RoleStudent {
		if result.StudentID != actor.ActorID {
			return nil, NewPermissionError(actor.ActorID, "result", "read", "result belongs to another student")
		}
		if !result.Published {
			return nil, NewNotFoundError("result", enrollmentID)
		}
	}

	return result, nil
}

func (s *resultService) List(ctx context.Context, filters repositories.ResultFilters, actor Actor) (*ResultListResponse, error) {
	// Scope the query to what the caller may see.
	switch actor.Role {
	case models.RoleStudent:
		filters.StudentID = &actor.ActorID
		published := true
		filters.Published = &published
	case models.RoleLecturer:
		filters.LecturerID = &actor.ActorID
	}

	results, total, err := s.repo.Result().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	return &ResultListResponse{
		Results: results,
		Total:   total,
		Limit:   filters.Limit,
		Offset:  filters.Offset,
	}, nil
}

func (s *resultService) PublishCourse(ctx context.Context, req *PublishResultsRequest, actor Actor) (int, error) {
	if err := s.validator.Validate(req); err != nil {
		return 0, err
	}

	course, err := s.repo.Course().GetByID(ctx, req.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return 0, NewNotFoundError("course", req.CourseID)
		}
		return 0, fmt.Errorf("failed to load course: %w", err)
	}
	if err := s.authorizeCourseWrite(actor, course.LecturerID); err != nil {
		return 0, err
	}

	var flipped int
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		results, _, err := tx.Result().List(ctx, repositories.ResultFilters{CourseID: &req.CourseID})
		if err != nil {
			return fmt.Errorf("failed to list course results: %w", err)
		}
		for _, result := range results {
			if result.Published == req.Published {
				continue
			}
			if err := tx.Result().SetPublished(ctx, result.ID, req.Published); err != nil {
				return fmt.Errorf("failed to update result %s: %w", result.ID, err)
			}
			flipped++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Course results visibility updated",
		"course_id", req.CourseID, "published", req.Published, "results", flipped)
	return flipped, nil
}

// authorizeCourseWrite allows admins and the course's assigned lecturer.
func (s *resultService) authorizeCourseWrite(actor Actor, courseLecturerID *string) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.Role == models.RoleLecturer && courseLecturerID != nil && *courseLecturerID == actor.ActorID {
		return nil
	}
	return NewPermissionError(actor.ActorID, "result", "write", "not the course lecturer")
}

// publishResultRecorded emits the notification event. Delivery is
// best-effort: the result row has already committed and stays committed,
// so a failure here only surfaces as a warning to the caller.
func (s *resultService) publishResultRecorded(ctx context.Context, result *models.Result, enrollment *models.Enrollment) error {
	payload := events.ResultRecordedEvent{
		ResultID:     result.ID,
		EnrollmentID: result.EnrollmentID,
		CourseCode:   enrollment.Course.Code,
		CourseTitle:  enrollment.Course.Title,
		StudentName:  enrollment.Student.User.FullName(),
		StudentEmail: enrollment.Student.User.Email,
		Score:        result.Score,
		Grade:        string(result.Grade),
	}

	event, err := events.NewEvent(events.TypeResultRecorded, payload)
	if err != nil {
		s.logger.Error("Failed to build result event", "result_id", result.ID, "error", err)
		return err
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish result event", "result_id", result.ID, "error", err)
		return err
	}
	return nil
}
