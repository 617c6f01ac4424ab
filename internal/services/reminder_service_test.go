package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/smart-result/records-service/internal/cache"
	"github.com/smart-result/records-service/internal/events"
	"github.com/smart-result/records-service/internal/models"
)

func TestReminderService_RunSweep(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(logger)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	markers := cache.NewCacheHelper(client, "reminder:")

	interval := time.Hour
	service := NewReminderService(repo, publisher, markers, interval, logger)

	lecturer := repo.addLecturer("Ada Obi", "ada@staff.edu")
	idle := repo.addLecturer("Ngozi Eze", "ngozi@staff.edu")
	student := repo.addStudent("Chidi Okafor", "chidi@students.edu")
	course := repo.addCourse("CSC201", &lecturer.ID)
	repo.addCourse("CSC305", &idle.ID)
	repo.addEnrollment(student.ID, course.ID, "2025/2026", models.SemesterFirst)

	t.Run("lecturer with backlog gets one reminder", func(t *testing.T) {
		sent, err := service.RunSweep(ctx)
		if err != nil {
			t.Fatalf("RunSweep: %v", err)
		}
		if sent != 1 {
			t.Fatalf("expected 1 reminder, got %d", sent)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}
		var payload events.ReminderDueEvent
		if err := json.Unmarshal(published[0].Data, &payload); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if payload.LecturerID != lecturer.ID {
			t.Errorf("reminded %s, want %s", payload.LecturerID, lecturer.ID)
		}
		if payload.MissingResults != 1 {
			t.Errorf("missing results %d, want 1", payload.MissingResults)
		}
	})

	t.Run("repeat sweep inside the interval is suppressed", func(t *testing.T) {
		publisher.ClearEvents()

		sent, err := service.RunSweep(ctx)
		if err != nil {
			t.Fatalf("RunSweep: %v", err)
		}
		if sent != 0 {
			t.Fatalf("expected suppression, got %d reminders", sent)
		}
	})

	t.Run("marker expiry re-enables the reminder", func(t *testing.T) {
		publisher.ClearEvents()
		mr.FastForward(interval + time.Minute)

		sent, err := service.RunSweep(ctx)
		if err != nil {
			t.Fatalf("RunSweep: %v", err)
		}
		if sent != 1 {
			t.Fatalf("expected 1 reminder after expiry, got %d", sent)
		}
	})

	t.Run("recording the result clears the backlog", func(t *testing.T) {
		publisher.ClearEvents()
		mr.FastForward(interval + time.Minute)

		enrollments, _, err := repo.Enrollment().List(ctx, listAllEnrollments())
		if err != nil {
			t.Fatalf("list enrollments: %v", err)
		}
		result := &models.Result{
			EnrollmentID: enrollments[0].ID,
			CourseID:     course.ID,
			StudentID:    student.ID,
			LecturerID:   lecturer.ID,
			Score:        80,
			Grade:        models.GradeA,
			Published:    true,
		}
		if err := repo.Result().Upsert(ctx, result); err != nil {
			t.Fatalf("seed result: %v", err)
		}

		sent, err := service.RunSweep(ctx)
		if err != nil {
			t.Fatalf("RunSweep: %v", err)
		}
		if sent != 0 {
			t.Fatalf("expected no reminders once results are in, got %d", sent)
		}
	})
}
