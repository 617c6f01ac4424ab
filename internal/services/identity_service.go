package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/smart-result/records-service/internal/cache"
	"github.com/smart-result/records-service/internal/models"
	"github.com/smart-result/records-service/internal/repositories"
	"github.com/smart-result/records-service/internal/validator"
)

type identityService struct {
	repo      repositories.Repository
	sessions  *cache.SessionStore
	logger    *slog.Logger
	validator *validator.Validator
}

func NewIdentityService(repo repositories.Repository, sessions *cache.SessionStore, logger *slog.Logger, validator *validator.Validator) IdentityService {
	return &identityService{
		repo:      repo,
		sessions:  sessions,
		logger:    logger,
		validator: validator,
	}
}

func (s *identityService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// Same error as a bad password so probes can't enumerate accounts.
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Role != req.Role {
		return nil, ErrInvalidCredentials
	}

	actorID, err := s.actorIDFor(ctx, user)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Create(ctx, user.ID, actorID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)

	return &LoginResponse{
		Token: session.Token,
		User:  toUserResponse(user),
	}, nil
}

func (s *identityService) Resolve(ctx context.Context, token string) (*Actor, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	return &Actor{
		UserID:  session.UserID,
		ActorID: session.ActorID,
		Role:    models.UserRole(session.Role),
	}, nil
}

func (s *identityService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *identityService) AddLecturer(ctx context.Context, req *AddLecturerRequest, actor Actor) (*models.User, error) {
	s.logger.Info("Adding lecturer", "email", req.Email, "staff_id", req.StaffID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		return nil, NewPermissionError(actor.ActorID, "lecturer", "create", "admin only")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:     req.Email,
		Password:  string(hash),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleLecturer,
		Lecturer: &models.Lecturer{
			StaffID:    req.StaffID,
			Department: req.Department,
		},
	}

	// User and profile persist in one insert; the nested Lecturer rides the
	// same transaction.
	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, NewConflictError("lecturer", "email or staff id already registered")
		}
		return nil, fmt.Errorf("failed to create lecturer: %w", err)
	}

	return user, nil
}

func (s *identityService) AddStudent(ctx context.Context, req *AddStudentRequest, actor Actor) (*models.User, error) {
	s.logger.Info("Adding student", "email", req.Email, "matric_no", req.MatricNo)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		return nil, NewPermissionError(actor.ActorID, "student", "create", "admin only")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:     req.Email,
		Password:  string(hash),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleStudent,
		Student: &models.Student{
			MatricNo:   req.MatricNo,
			Department: req.Department,
			Level:      req.Level,
		},
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, NewConflictError("student", "email or matric number already registered")
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	return user, nil
}

func (s *identityService) GetProfile(ctx context.Context, userID string) (*UserResponse, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("user", userID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return toUserResponse(user), nil
}

func (s *identityService) ListUsers(ctx context.Context, filters repositories.UserFilters, actor Actor) (*UserListResponse, error) {
	if actor.Role != models.RoleAdmin {
		return nil, NewPermissionError(actor.ActorID, "users", "list", "admin only")
	}

	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return &UserListResponse{
		Users:  users,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}, nil
}

func (s *identityService) EnsureAdmin(ctx context.Context, email, password string) error {
	if password == "" {
		s.logger.Warn("Admin seed skipped, no password configured")
		return nil
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "System",
		LastName:  "Administrator",
		Role:      models.RoleAdmin,
	}

	if err := s.repo.User().Create(ctx, admin); err != nil {
		// A concurrent replica may have seeded it first.
		if repositories.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	s.logger.Info("Admin account seeded", "email", email)
	return nil
}

// actorIDFor resolves the role-specific profile id used for ownership
// checks. Admins act under their user id.
func (s *identityService) actorIDFor(ctx context.Context, user *models.User) (string, error) {
	switch user.Role {
	case models.RoleStudent:
		if user.Student != nil {
			return user.Student.ID, nil
		}
		student, err := s.repo.Student().GetByUserID(ctx, user.ID)
		if err != nil {
			return "", fmt.Errorf("failed to load student profile: %w", err)
		}
		return student.ID, nil
	case models.RoleLecturer:
		if user.Lecturer != nil {
			return user.Lecturer.ID, nil
		}
		lecturer, err := s.repo.Lecturer().GetByUserID(ctx, user.ID)
		if err != nil {
			return "", fmt.Errorf("failed to load lecturer profile: %w", err)
		}
		return lecturer.ID, nil
	default:
		return user.ID, nil
	}
}

func toUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		Student:   user.Student,
		Lecturer:  user.Lecturer,
	}
}
