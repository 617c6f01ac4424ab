package repositories

import (
	"context"

	"github.com/smart-result/records-service/internal/models"
)

type EnrollmentRepository interface {
	// Create inserts a new enrollment. A duplicate (student, course, session,
	// semester) tuple surfaces as a duplicate-key error from the store's
	// unique index, never as a second row.
	Create(ctx context.Context, enrollment *models.Enrollment) error

	// GetByIDWithRelations loads the enrollment joined with its Course and
	// Student (including the student's User, for notification addressing).
	GetByID(ctx context.Context, id string) (*models.Enrollment, error)
	GetByIDWithRelations(ctx context.Context, id string) (*models.Enrollment, error)

	GetByOffering(ctx context.Context, studentID, courseID, session string, semester models.Semester) (*models.Enrollment, error)
	List(ctx context.Context, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)

	// IDsByStudentCourse returns ids of all enrollments matching the pair,
	// any session/semester.
	IDsByStudentCourse(ctx context.Context, studentID, courseID string) ([]string, error)

	// DeleteByIDs bulk-removes enrollments and reports how many rows went.
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}
