package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/smart-result/records-service/internal/models"
	"github.com/smart-result/records-service/internal/repositories"
	"github.com/smart-result/records-service/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewEnrollmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, req *EnrollRequest, actor Actor) (*models.Enrollment, error) {
	s.logger.Info("Enrolling student", "student_id", req.StudentID, "course_id", req.CourseID, "session", req.Session)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.authorizeLedgerWrite(req.StudentID, actor); err != nil {
		return nil, err
	}

	exists, err := s.repo.Student().ExistsByID(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check student: %w", err)
	}
	if !exists {
		return nil, NewNotFoundError("student", req.StudentID)
	}
	if _, err := s.repo.Course().GetByID(ctx, req.CourseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("course", req.CourseID)
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	enrollment := &models.Enrollment{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Session:   req.Session,
		Semester:  req.Semester,
	}

	// Concurrent duplicate enrollments race on the unique offering index;
	// the loser surfaces here as a duplicate-key error.
	if err := s.repo.Enrollment().Create(ctx, enrollment); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, NewConflictError("enrollment", "student is already enrolled in this offering")
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	return enrollment, nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, req *UnenrollRequest, actor Actor) (int, error) {
	s.logger.Info("Unenrolling student", "student_id", req.StudentID, "course_id", req.CourseID)

	if err := s.validator.Validate(req); err != nil {
		return 0, err
	}
	if err := s.authorizeLedgerWrite(req.StudentID, actor); err != nil {
		return 0, err
	}

	var removed int
	// The existence check and the delete run in one transaction so a result
	// submitted mid-unenroll cannot be orphaned.
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		ids, err := tx.Enrollment().IDsByStudentCourse(ctx, req.StudentID, req.CourseID)
		if err != nil {
			return fmt.Errorf("failed to load enrollments: %w", err)
		}
		// Removing what is not there is a no-op, not an error.
		if len(ids) == 0 {
			return nil
		}

		hasResult, err := tx.Result().ExistsForEnrollments(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to check results: %w", err)
		}
		if hasResult {
			return NewConflictError("enrollment", "a result has been recorded for this enrollment")
		}

		deleted, err := tx.Enrollment().DeleteByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to delete enrollments: %w", err)
		}
		removed = int(deleted)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *enrollmentService) List(ctx context.Context, filters repositories.EnrollmentFilters, actor Actor) (*EnrollmentListResponse, error) {
	// Students only list their own ledger.
	if actor.Role == models.RoleStudent {
		filters.StudentID = &actor.ActorID
	}

	enrollments, total, err := s.repo.Enrollment().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	return &EnrollmentListResponse{
		Enrollments: enrollments,
		Total:       total,
		Limit:       filters.Limit,
		Offset:      filters.Offset,
	}, nil
}

// authorizeLedgerWrite restricts enrollment changes to admins; students may
// act on their own record.
func (s *enrollmentService) authorizeLedgerWrite(studentID string, actor Actor) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.Role == models.RoleStudent && actor.ActorID == studentID {
		return nil
	}
	return NewPermissionError(actor.ActorID, "enrollment", "write", "not the student's own record")
}
