package services

import (
	"context"

	"github.com/smart-result/records-service/internal/models"
	"github.com/smart-result/records-service/internal/repositories"
	"github.com/smart-result/records-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type LoginRequest = validator.LoginRequest
type AddLecturerRequest = validator.AddLecturerRequest
type AddStudentRequest = validator.AddStudentRequest
type CreateCourseRequest = validator.CreateCourseRequest
type UpdateCourseRequest = validator.UpdateCourseRequest
type AssignLecturerRequest = validator.AssignLecturerRequest
type EnrollRequest = validator.EnrollRequest
type UnenrollRequest = validator.UnenrollRequest
type SubmitResultRequest = validator.SubmitResultRequest
type PublishResultsRequest = validator.PublishResultsRequest

// Actor identifies the authenticated caller: the user record plus the
// role-specific profile id (student id, lecturer id, or the user id again
// for admins).
type Actor struct {
	UserID  string          `json:"user_id"`
	ActorID string          `json:"actor_id"`
	Role    models.UserRole `json:"role"`
}

type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

type UserResponse struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Role      models.UserRole  `json:"role"`
	Student   *models.Student  `json:"student,omitempty"`
	Lecturer  *models.Lecturer `json:"lecturer,omitempty"`
}

type ResultListResponse struct {
	Results []*models.Result `json:"results"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

type EnrollmentListResponse struct {
	Enrollments []*models.Enrollment `json:"enrollments"`
	Total       int64                `json:"total"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

type CourseListResponse struct {
	Courses []*models.Course `json:"courses"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

type UserListResponse struct {
	Users  []*models.User `json:"users"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// SubmitResultResponse carries the stored result plus a non-blocking
// warning when the notification event could not be published. The write
// itself has already committed either way.
type SubmitResultResponse struct {
	Result  *models.Result `json:"result"`
	Warning string         `json:"warning,omitempty"`
}

// ExportedSheet is a rendered spreadsheet ready to stream to the client.
type ExportedSheet struct {
	Filename string
	Content  []byte
}

// ===== SERVICE INTERFACES =====

// ResultService owns the result lifecycle: scoring, grading, release.
type ResultService interface {
	// Submit records or overwrites the score for an enrollment. Repeated
	// submissions for the same enrollment converge on one row.
	Submit(ctx context.Context, req *SubmitResultRequest, actor Actor) (*SubmitResultResponse, error)

	GetByEnrollment(ctx context.Context, enrollmentID string, actor Actor) (*models.Result, error)
	List(ctx context.Context, filters repositories.ResultFilters, actor Actor) (*ResultListResponse, error)

	// PublishCourse flips visibility for every recorded result of a course.
	PublishCourse(ctx context.Context, req *PublishResultsRequest, actor Actor) (int, error)
}

// EnrollmentService owns the enrollment ledger.
type EnrollmentService interface {
	Enroll(ctx context.Context, req *EnrollRequest, actor Actor) (*models.Enrollment, error)

	// Unenroll removes all of the pair's enrollments and reports how many
	// went, refusing when any of them already carries a result. Removing
	// nothing is not an error.
	Unenroll(ctx context.Context, req *UnenrollRequest, actor Actor) (int, error)

	List(ctx context.Context, filters repositories.EnrollmentFilters, actor Actor) (*EnrollmentListResponse, error)
}

// CourseService owns the course catalog.
type CourseService interface {
	Create(ctx context.Context, req *CreateCourseRequest, actor Actor) (*models.Course, error)
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error)
	Update(ctx context.Context, id string, req *UpdateCourseRequest, actor Actor) (*models.Course, error)

	// AssignLecturer sets or clears the course owner; assignment emits a
	// notification event to the new owner.
	AssignLecturer(ctx context.Context, courseID string, req *AssignLecturerRequest, actor Actor) (*models.Course, error)
}

// IdentityService owns login, sessions and account provisioning.
type IdentityService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)

	// Resolve maps a bearer token back to its actor, refreshing the
	// session's sliding expiry.
	Resolve(ctx context.Context, token string) (*Actor, error)

	Logout(ctx context.Context, token string) error

	AddLecturer(ctx context.Context, req *AddLecturerRequest, actor Actor) (*models.User, error)
	AddStudent(ctx context.Context, req *AddStudentRequest, actor Actor) (*models.User, error)
	GetProfile(ctx context.Context, userID string) (*UserResponse, error)
	ListUsers(ctx context.Context, filters repositories.UserFilters, actor Actor) (*UserListResponse, error)

	// EnsureAdmin seeds the bootstrap admin account on startup when it does
	// not exist yet.
	EnsureAdmin(ctx context.Context, email, password string) error
}

// DashboardService aggregates counters for the admin landing page.
type DashboardService interface {
	GetStats(ctx context.Context) (*repositories.DashboardStats, error)
}

// ExportService renders result sheets for download.
type ExportService interface {
	CourseResultSheet(ctx context.Context, courseID string, actor Actor) (*ExportedSheet, error)
}

// ReminderService periodically nudges lecturers with outstanding results.
type ReminderService interface {
	// Start launches the sweep loop; it returns when ctx is cancelled.
	Start(ctx context.Context)

	// RunSweep performs one pass and reports how many reminders went out.
	RunSweep(ctx context.Context) (int, error)
}

// NotificationService consumes domain events and delivers emails.
type NotificationService interface {
	// Start launches the consumer loop; it returns when ctx is cancelled.
	Start(ctx context.Context) error
}

// ServiceManager wires and owns all service instances.
type ServiceManager interface {
	Initialize(ctx context.Context) error

	Result() ResultService
	Enrollment() EnrollmentService
	Course() CourseService
	Identity() IdentityService
	Dashboard() DashboardService
	Export() ExportService

	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
