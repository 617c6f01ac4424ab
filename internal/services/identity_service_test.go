package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/smart-result/records-service/internal/cache"
	"github.com/smart-result/records-service/internal/models"
	"github.com/smart-result/records-service/internal/repositories"
	"github.com/smart-result/records-service/internal/validator"
)

func newIdentityFixture(t *testing.T) (*mockRepository, IdentityService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := newMockRepository()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := cache.NewSessionStore(client, time.Hour)

	service := NewIdentityService(repo, sessions, logger, validator.New())
	return repo, service
}

func seedUser(t *testing.T, repo *mockRepository, email, password string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}
	switch role {
	case models.RoleStudent:
		user.Student = &models.Student{MatricNo: "MAT/0001", Department: "Physics", Level: 100}
	case models.RoleLecturer:
		user.Lecturer = &models.Lecturer{StaffID: "STF/0001", Department: "Physics"}
	}
	if err := repo.User().Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestIdentityService_Login(t *testing.T) {
	ctx := context.Background()
	repo, service := newIdentityFixture(t)
	user := seedUser(t, repo, "chidi@students.edu", "secret123", models.RoleStudent)

	t.Run("valid credentials mint a session", func(t *testing.T) {
		resp, err := service.Login(ctx, &LoginRequest{
			Email:    user.Email,
			Password: "secret123",
			Role:     models.RoleStudent,
		})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Token == "" {
			t.Fatal("no session token")
		}

		actor, err := service.Resolve(ctx, resp.Token)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if actor.UserID != user.ID || actor.Role != models.RoleStudent {
			t.Errorf("resolved wrong actor: %+v", actor)
		}
		if actor.ActorID != user.Student.ID {
			t.Errorf("actor id %s, want student profile id %s", actor.ActorID, user.Student.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Login(ctx, &LoginRequest{
			Email:    user.Email,
			Password: "wrong",
			Role:     models.RoleStudent,
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("role mismatch fails like a bad password", func(t *testing.T) {
		_, err := service.Login(ctx, &LoginRequest{
			Email:    user.Email,
			Password: "secret123",
			Role:     models.RoleAdmin,
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown account fails like a bad password", func(t *testing.T) {
		_, err := service.Login(ctx, &LoginRequest{
			Email:    "nobody@students.edu",
			Password: "secret123",
			Role:     models.RoleStudent,
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestIdentityService_Logout(t *testing.T) {
	ctx := context.Background()
	repo, service := newIdentityFixture(t)
	user := seedUser(t, repo, "ada@staff.edu", "secret123", models.RoleLecturer)

	resp, err := service.Login(ctx, &LoginRequest{Email: user.Email, Password: "secret123", Role: models.RoleLecturer})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := service.Logout(ctx, resp.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := service.Resolve(ctx, resp.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
}

func TestIdentityService_Provisioning(t *testing.T) {
	ctx := context.Background()
	admin := Actor{ActorID: "admin", Role: models.RoleAdmin}

	_, service := newIdentityFixture(t)

	t.Run("add lecturer creates user and profile", func(t *testing.T) {
		user, err := service.AddLecturer(ctx, &AddLecturerRequest{
			Email:      "ada@staff.edu",
			Password:   "secret123",
			FirstName:  "Ada",
			LastName:   "Obi",
			StaffID:    "STF/1001",
			Department: "Computer Science",
		}, admin)
		if err != nil {
			t.Fatalf("AddLecturer failed: %v", err)
		}
		if user.Lecturer == nil || user.Lecturer.ID == "" {
			t.Fatal("lecturer profile missing")
		}
		if user.Password == "secret123" {
			t.Fatal("password stored in plaintext")
		}

		// The new account can log in straight away.
		if _, err := service.Login(ctx, &LoginRequest{
			Email: "ada@staff.edu", Password: "secret123", Role: models.RoleLecturer,
		}); err != nil {
			t.Fatalf("fresh lecturer cannot log in: %v", err)
		}
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		_, err := service.AddStudent(ctx, &AddStudentRequest{
			Email:      "ada@staff.edu",
			Password:   "secret123",
			FirstName:  "Impostor",
			LastName:   "User",
			MatricNo:   "MAT/2001",
			Department: "Physics",
			Level:      100,
		}, admin)
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("non-admin cannot provision", func(t *testing.T) {
		_, err := service.AddStudent(ctx, &AddStudentRequest{
			Email:      "new@students.edu",
			Password:   "secret123",
			FirstName:  "New",
			LastName:   "Student",
			MatricNo:   "MAT/2002",
			Department: "Physics",
			Level:      100,
		}, Actor{ActorID: "someone", Role: models.RoleLecturer})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestIdentityService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	repo, service := newIdentityFixture(t)

	if err := service.EnsureAdmin(ctx, "admin@records.local", "bootstrap"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	// Second call is a no-op, not an error.
	if err := service.EnsureAdmin(ctx, "admin@records.local", "bootstrap"); err != nil {
		t.Fatalf("EnsureAdmin should be idempotent: %v", err)
	}

	role := models.RoleAdmin
	users, total, err := repo.User().List(ctx, repositories.UserFilters{Role: &role})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected exactly one admin, got %d", total)
	}
	if users[0].Email != "admin@records.local" {
		t.Errorf("unexpected admin email %s", users[0].Email)
	}
}
