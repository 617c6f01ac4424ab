package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smart-result/records-service/internal/models"
	"github.com/smart-result/records-service/internal/repositories"
)

type resultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &resultPostgreSQL{db: db}
}

// Upsert writes the result through ON CONFLICT (enrollment_id). Racing
// submissions for the same enrollment both land on the one row; the update
// branch touches only score, grade and updated_at so the first submission's
// attribution survives resubmission.
func (r *resultPostgreSQL) Upsert(ctx context.Context, result *models.Result) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "grade", "updated_at"}),
		}).
		Create(result).Error
	if err != nil {
		return fmt.Errorf("failed to upsert result: %w", err)
	}

	// On the conflict path the insert candidate's id loses to the stored
	// row; reload so callers always see the authoritative record.
	var stored models.Result
	err = r.db.WithContext(ctx).
		First(&stored, "enrollment_id = ?", result.EnrollmentID).Error
	if err != nil {
		return fmt.Errorf("failed to reload upserted result: %w", err)
	}
	*result = stored

	return nil
}

func (r *resultPostgreSQL) GetByID(ctx context.Context, id string) (*models.Result, error) {
	var result models.Result
	err := r.db.WithContext(ctx).First(&result, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return &result, nil
}

func (r *resultPostgreSQL) GetByEnrollment(ctx context.Context, enrollmentID string) (*models.Result, error) {
	var result models.Result
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Student").
		Preload("Student.User").
		First(&result, "enrollment_id = ?", enrollmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get result by enrollment: %w", err)
	}
	return &result, nil
}

func (r *resultPostgreSQL) List(ctx context.Context, filters repositories.ResultFilters) ([]*models.Result, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Result{})

	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.LecturerID != nil {
		query = query.Where("lecturer_id = ?", *filters.LecturerID)
	}
	if filters.Published != nil {
		query = query.Where("published = ?", *filters.Published)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count results: %w", err)
	}

	var results []*models.Result
	query = ApplyPaginationAndSort(query, "updated_at", "desc", filters.Limit, filters.Offset)
	err := query.
		Preload("Enrollment").
		Preload("Course").
		Preload("Student").
		Preload("Student.User").
		Find(&results).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list results: %w", err)
	}

	return results, total, nil
}

func (r *resultPostgreSQL) ExistsForEnrollments(ctx context.Context, enrollmentIDs []string) (bool, error) {
	if len(enrollmentIDs) == 0 {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Result{}).
		Where("enrollment_id IN ?", enrollmentIDs).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check results for enrollments: %w", err)
	}
	return count > 0, nil
}

func (r *resultPostgreSQL) SetPublished(ctx context.Context, id string, published bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Result{}).
		Where("id = ?", id).
		Update("published", published)
	if result.Error != nil {
		return fmt.Errorf("failed to set result published: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// PendingByLecturer builds the reminder backlog in one pass: for each
// lecturer with at least one assigned course, count enrollments on those
// courses with no result row, and results still unpublished.
func (r *resultPostgreSQL) PendingByLecturer(ctx context.Context) ([]*repositories.LecturerPendingSummary, error) {
	var summaries []*repositories.LecturerPendingSummary

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			l.id AS lecturer_id,
			u.email AS lecturer_email,
			u.first_name || ' ' || u.last_name AS lecturer_name,
			COUNT(e.id) FILTER (WHERE e.id IS NOT NULL AND res.id IS NULL) AS missing_results,
			COUNT(res.id) FILTER (WHERE res.published = false) AS unpublished_count
		FROM lecturers l
		JOIN users u ON u.id = l.user_id
		JOIN courses c ON c.lecturer_id = l.id AND c.deleted_at IS NULL
		LEFT JOIN enrollments e ON e.course_id = c.id
		LEFT JOIN results res ON res.enrollment_id = e.id
		GROUP BY l.id, u.email, u.first_name, u.last_name
		HAVING COUNT(e.id) FILTER (WHERE e.id IS NOT NULL AND res.id IS NULL) > 0
			OR COUNT(res.id) FILTER (WHERE res.published = false) > 0
	`).Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate pending results: %w", err)
	}

	return summaries, nil
}
