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

type courseService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewCourseService(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) CourseService {
	return &courseService{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      validator,
	}
}

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest, actor Actor) (*models.Course, error) {
	s.logger.Info("Creating course", "code", req.Code, "actor_id", actor.ActorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		return nil, NewPermissionError(actor.ActorID, "course", "create", "admin only")
	}

	if req.LecturerID != nil {
		exists, err := s.repo.Lecturer().ExistsByID(ctx, *req.LecturerID)
		if err != nil {
			return nil, fmt.Errorf("failed to check lecturer: %w", err)
		}
		if !exists {
			return nil, NewNotFoundError("lecturer", *req.LecturerID)
		}
	}

	course := &models.Course{
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
		Department:  req.Department,
		CreditUnits: req.CreditUnits,
		Level:       req.Level,
		Semester:    req.Semester,
		LecturerID:  req.LecturerID,
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, NewConflictError("course", "course code already exists")
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.Course().GetByIDWithLecturer(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("course", id)
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error) {
	courses, total, err := s.repo.Course().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return &CourseListResponse{
		Courses: courses,
		Total:   total,
		Limit:   filters.Limit,
		Offset:  filters.Offset,
	}, nil
}

func (s *courseService) Update(ctx context.Context, id string, req *UpdateCourseRequest, actor Actor) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		return nil, NewPermissionError(actor.ActorID, "course", "update", "admin only")
	}

	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("course", id)
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Department != nil {
		course.Department = *req.Department
	}
	if req.CreditUnits != nil {
		course.CreditUnits = *req.CreditUnits
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.Semester != nil {
		course.Semester = *req.Semester
	}

	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	return course, nil
}

func (s *courseService) AssignLecturer(ctx context.Context, courseID string, req *AssignLecturerRequest, actor Actor) (*models.Course, error) {
	s.logger.Info("Assigning lecturer", "course_id", courseID, "lecturer_id", req.LecturerID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		return nil, NewPermissionError(actor.ActorID, "course", "assign_lecturer", "admin only")
	}

	var lecturer *models.Lecturer
	if req.LecturerID != nil {
		var err error
		lecturer, err = s.repo.Lecturer().GetByID(ctx, *req.LecturerID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, NewNotFoundError("lecturer", *req.LecturerID)
			}
			return nil, fmt.Errorf("failed to load lecturer: %w", err)
		}
	}

	if err := s.repo.Course().SetLecturer(ctx, courseID, req.LecturerID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("course", courseID)
		}
		return nil, fmt.Errorf("failed to assign lecturer: %w", err)
	}

	course, err := s.repo.Course().GetByIDWithLecturer(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload course: %w", err)
	}

	if lecturer != nil {
		s.publishLecturerAssigned(ctx, course, lecturer)
	}

	return course, nil
}

func (s *courseService) publishLecturerAssigned(ctx context.Context, course *models.Course, lecturer *models.Lecturer) {
	payload := events.LecturerAssignedEvent{
		CourseID:      course.ID,
		CourseCode:    course.Code,
		CourseTitle:   course.Title,
		LecturerName:  lecturer.User.FullName(),
		LecturerEmail: lecturer.User.Email,
	}

	event, err := events.NewEvent(events.TypeLecturerAssigned, payload)
	if err != nil {
		s.logger.Error("Failed to build assignment event", "course_id", course.ID, "error", err)
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish assignment event", "course_id", course.ID, "error", err)
	}
}
