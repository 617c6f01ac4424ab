package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/smart-result/records-service/internal/models"
	"github.com/smart-result/records-service/internal/repositories"
)

type dashboardPostgreSQL struct {
	db *gorm.DB
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardPostgreSQL{db: db}
}

// GetStats collects the admin dashboard counters. Pending results are
// enrollments with no result row yet.
func (r *dashboardPostgreSQL) GetStats(ctx context.Context) (*repositories.DashboardStats, error) {
	stats := &repositories.DashboardStats{}
	db := r.db.WithContext(ctx)

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Student{}, &stats.StudentCount},
		{&models.Lecturer{}, &stats.LecturerCount},
		{&models.Course{}, &stats.CourseCount},
		{&models.Enrollment{}, &stats.EnrollmentCount},
		{&models.Result{}, &stats.ResultCount},
	}

	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count dashboard stat: %w", err)
		}
	}

	err := db.Model(&models.Enrollment{}).
		Joins("LEFT JOIN results ON results.enrollment_id = enrollments.id").
		Where("results.id IS NULL").
		Count(&stats.PendingResults).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pending results: %w", err)
	}

	return stats, nil
}
