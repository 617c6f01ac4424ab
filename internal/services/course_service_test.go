package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/smart-result/records-service/internal/events"
	"github.com/smart-result/records-service/internal/models"
	"github.com/smart-result/records-service/internal/validator"
)

func newCourseFixture(t *testing.T) (*mockRepository, *events.MockEventPublisher, CourseService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(logger)
	service := NewCourseService(repo, publisher, logger, validator.New())
	return repo, publisher, service
}

func TestCourseService_Create(t *testing.T) {
	ctx := context.Background()
	admin := Actor{ActorID: "admin", Role: models.RoleAdmin}

	_, _, service := newCourseFixture(t)

	req := &CreateCourseRequest{
		Code:        "CSC201",
		Title:       "Data Structures",
		Department:  "Computer Science",
		CreditUnits: 3,
		Level:       200,
		Semester:    models.SemesterFirst,
	}

	t.Run("creates unassigned course", func(t *testing.T) {
		course, err := service.Create(ctx, req, admin)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if course.LecturerID != nil {
			t.Error("new course should have no lecturer")
		}
	})

	t.Run("duplicate code is a conflict", func(t *testing.T) {
		_, err := service.Create(ctx, req, admin)
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("bad course code is rejected", func(t *testing.T) {
		bad := *req
		bad.Code = "badcode"
		_, err := service.Create(ctx, &bad, admin)
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("expected validation errors, got %v", err)
		}
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		other := *req
		other.Code = "CSC305"
		_, err := service.Create(ctx, &other, Actor{ActorID: "someone", Role: models.RoleLecturer})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestCourseService_AssignLecturer(t *testing.T) {
	ctx := context.Background()
	admin := Actor{ActorID: "admin", Role: models.RoleAdmin}

	repo, publisher, service := newCourseFixture(t)
	lecturer := repo.addLecturer("Ada Obi", "ada@staff.edu")
	course := repo.addCourse("CSC201", nil)

	t.Run("assignment sets owner and notifies", func(t *testing.T) {
		updated, err := service.AssignLecturer(ctx, course.ID, &AssignLecturerRequest{LecturerID: &lecturer.ID}, admin)
		if err != nil {
			t.Fatalf("AssignLecturer failed: %v", err)
		}
		if updated.LecturerID == nil || *updated.LecturerID != lecturer.ID {
			t.Fatalf("lecturer not assigned")
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}
		var payload events.LecturerAssignedEvent
		if err := json.Unmarshal(published[0].Data, &payload); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if payload.LecturerEmail != "ada@staff.edu" {
			t.Errorf("event addressed to %s", payload.LecturerEmail)
		}
	})

	t.Run("clearing the owner emits nothing", func(t *testing.T) {
		publisher.ClearEvents()

		updated, err := service.AssignLecturer(ctx, course.ID, &AssignLecturerRequest{LecturerID: nil}, admin)
		if err != nil {
			t.Fatalf("unassign failed: %v", err)
		}
		if updated.LecturerID != nil {
			t.Error("lecturer not cleared")
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("unassignment should not notify")
		}
	})

	t.Run("unknown lecturer", func(t *testing.T) {
		ghost := "33333333-3333-3333-3333-333333333333"
		_, err := service.AssignLecturer(ctx, course.ID, &AssignLecturerRequest{LecturerID: &ghost}, admin)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := service.AssignLecturer(ctx, "44444444-4444-4444-4444-444444444444",
			&AssignLecturerRequest{LecturerID: &lecturer.ID}, admin)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCourseService_Update(t *testing.T) {
	ctx := context.Background()
	admin := Actor{ActorID: "admin", Role: models.RoleAdmin}

	repo, _, service := newCourseFixture(t)
	course := repo.addCourse("CSC201", nil)

	title := "Advanced Data Structures"
	units := 4
	updated, err := service.Update(ctx, course.ID, &UpdateCourseRequest{Title: &title, CreditUnits: &units}, admin)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != title || updated.CreditUnits != units {
		t.Errorf("partial update not applied: %+v", updated)
	}
	// Untouched fields keep their values
	if updated.Code != "CSC201" || updated.Semester != models.SemesterFirst {
		t.Errorf("unrelated fields changed: %+v", updated)
	}
}
