package repositories

import (
	"context"

	"github.com/smart-result/records-service/internal/models"
)

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	GetByIDWithLecturer(ctx context.Context, id string) (*models.Course, error)
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	Update(ctx context.Context, course *models.Course) error

	// SetLecturer writes the nullable owner assignment; nil clears it.
	SetLecturer(ctx context.Context, courseID string, lecturerID *string) error
}
