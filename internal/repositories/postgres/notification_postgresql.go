package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/smart-result/records-service/internal/models"
	"github.com/smart-result/records-service/internal/repositories"
)

type notificationLogPostgreSQL struct {
	db *gorm.DB
}

func NewNotificationLogPostgreSQL(db *gorm.DB) repositories.NotificationLogRepository {
	return &notificationLogPostgreSQL{db: db}
}

func (r *notificationLogPostgreSQL) Create(ctx context.Context, log *models.NotificationLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create notification log: %w", err)
	}
	return nil
}

func (r *notificationLogPostgreSQL) ListRecent(ctx context.Context, limit int) ([]*models.NotificationLog, error) {
	if limit <= 0 {
		limit = 50
	}

	var logs []*models.NotificationLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notification logs: %w", err)
	}
	return logs, nil
}
