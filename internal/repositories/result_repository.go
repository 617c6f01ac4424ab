package repositories

import (
	"context"

	"github.com/smart-result/records-service/internal/models"
)

type ResultRepository interface {
	// Upsert persists the result keyed on its unique enrollment_id. On
	// conflict only score, grade and updated_at are overwritten; the
	// original course/student/lecturer attribution is preserved. The
	// receiver is refreshed with the stored row either way.
	Upsert(ctx context.Context, result *models.Result) error

	GetByID(ctx context.Context, id string) (*models.Result, error)
	GetByEnrollment(ctx context.Context, enrollmentID string) (*models.Result, error)
	List(ctx context.Context, filters ResultFilters) ([]*models.Result, int64, error)

	// ExistsForEnrollments reports whether any of the given enrollments
	// already carries a result (unenroll guard).
	ExistsForEnrollments(ctx context.Context, enrollmentIDs []string) (bool, error)

	SetPublished(ctx context.Context, id string, published bool) error

	// PendingByLecturer aggregates, per assigned lecturer, enrollments still
	// missing a result and results not yet published. Read-only; feeds the
	// reminder sweep.
	PendingByLecturer(ctx context.Context) ([]*LecturerPendingSummary, error)
}

type NotificationLogRepository interface {
	Create(ctx context.Context, log *models.NotificationLog) error
	ListRecent(ctx context.Context, limit int) ([]*models.NotificationLog, error)
}

type DashboardRepository interface {
	GetStats(ctx context.Context) (*DashboardStats, error)
}
