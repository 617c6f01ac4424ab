package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/smart-result/records-service/internal/models"
	"github.com/smart-result/records-service/internal/repositories"
)

type lecturerPostgreSQL struct {
	db *gorm.DB
}

func NewLecturerPostgreSQL(db *gorm.DB) repositories.LecturerRepository {
	return &lecturerPostgreSQL{db: db}
}

func (r *lecturerPostgreSQL) GetByID(ctx context.Context, id string) (*models.Lecturer, error) {
	var lecturer models.Lecturer
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&lecturer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lecturer: %w", err)
	}
	return &lecturer, nil
}

func (r *lecturerPostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.Lecturer, error) {
	var lecturer models.Lecturer
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&lecturer, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lecturer by user: %w", err)
	}
	return &lecturer, nil
}

func (r *lecturerPostgreSQL) GetByStaffID(ctx context.Context, staffID string) (*models.Lecturer, error) {
	var lecturer models.Lecturer
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&lecturer, "staff_id = ?", staffID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lecturer by staff id: %w", err)
	}
	return &lecturer, nil
}

func (r *lecturerPostgreSQL) List(ctx context.Context, filters repositories.LecturerFilters) ([]*models.Lecturer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Lecturer{})

	if filters.Department != nil {
		query = query.Where("department = ?", *filters.Department)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count lecturers: %w", err)
	}

	var lecturers []*models.Lecturer
	query = ApplyPaginationAndSort(query, "created_at", "desc", filters.Limit, filters.Offset)
	if err := query.Preload("User").Preload("Courses").Find(&lecturers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list lecturers: %w", err)
	}

	return lecturers, total, nil
}

func (r *lecturerPostgreSQL) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Lecturer{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check lecturer existence: %w", err)
	}
	return count > 0, nil
}
