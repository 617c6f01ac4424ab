package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smart-result/records-service/internal/cache"
	"github.com/smart-result/records-service/internal/events"
	"github.com/smart-result/records-service/internal/repositories"
)

// reminderService periodically finds lecturers with missing or unpublished
// results and emits one reminder event per lecturer. A redis marker keyed on
// the lecturer suppresses repeats within the sweep interval, so restarting
// the process does not re-spam everyone.
type reminderService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	markers        *cache.CacheHelper
	interval       time.Duration
	logger         *slog.Logger
}

func NewReminderService(repo repositories.Repository, eventPublisher events.EventPublisher, markers *cache.CacheHelper, interval time.Duration, logger *slog.Logger) ReminderService {
	return &reminderService{
		repo:           repo,
		eventPublisher: eventPublisher,
		markers:        markers,
		interval:       interval,
		logger:         logger,
	}
}

func (s *reminderService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Reminder sweep started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Reminder sweep stopped")
			return
		case <-ticker.C:
			sent, err := s.RunSweep(ctx)
			if err != nil {
				s.logger.Error("Reminder sweep failed", "error", err)
				continue
			}
			s.logger.Info("Reminder sweep completed", "reminders_sent", sent)
		}
	}
}

func (s *reminderService) RunSweep(ctx context.Context) (int, error) {
	summaries, err := s.repo.Result().PendingByLecturer(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending summaries: %w", err)
	}

	var sent int
	for _, summary := range summaries {
		if summary.MissingResults == 0 && summary.UnpublishedCount == 0 {
			continue
		}
		if s.recentlyNotified(ctx, summary.LecturerID) {
			continue
		}

		if err := s.publishReminder(ctx, summary); err != nil {
			s.logger.Error("Failed to publish reminder", "lecturer_id", summary.LecturerID, "error", err)
			continue
		}

		s.markNotified(ctx, summary.LecturerID)
		sent++
	}

	return sent, nil
}

func (s *reminderService) publishReminder(ctx context.Context, summary *repositories.LecturerPendingSummary) error {
	payload := events.ReminderDueEvent{
		LecturerID:       summary.LecturerID,
		LecturerName:     summary.LecturerName,
		LecturerEmail:    summary.LecturerEmail,
		MissingResults:   summary.MissingResults,
		UnpublishedCount: summary.UnpublishedCount,
	}

	event, err := events.NewEvent(events.TypeReminderDue, payload)
	if err != nil {
		return err
	}
	return s.eventPublisher.Publish(ctx, event)
}

func (s *reminderService) recentlyNotified(ctx context.Context, lecturerID string) bool {
	if s.markers == nil {
		return false
	}
	exists, err := s.markers.Exists(ctx, lecturerID)
	if err != nil && !errors.Is(err, cache.ErrCacheNotAvailable) {
		s.logger.Warn("Reminder marker check failed", "lecturer_id", lecturerID, "error", err)
	}
	return exists
}

func (s *reminderService) markNotified(ctx context.Context, lecturerID string) {
	if s.markers == nil {
		return
	}
	if err := s.markers.SetString(ctx, lecturerID, time.Now().UTC().Format(time.RFC3339), s.interval); err != nil {
		s.logger.Warn("Reminder marker write failed", "lecturer_id", lecturerID, "error", err)
	}
}
