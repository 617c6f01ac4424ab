package validator

import (
	"github.com/smart-result/records-service/internal/models"
)

// LoginRequest represents a credential login.
type LoginRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=4"`
	Role     models.UserRole `json:"role" validate:"required,oneof=STUDENT LECTURER ADMIN"`
}

// AddLecturerRequest represents the request structure for registering a lecturer
type AddLecturerRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	FirstName  string `json:"first_name" validate:"required,min=1,max=100"`
	LastName   string `json:"last_name" validate:"required,min=1,max=100"`
	StaffID    string `json:"staff_id" validate:"required,min=2,max=30"`
	Department string `json:"department" validate:"required,min=2,max=100"`
}

// AddStudentRequest represents the request structure for registering a student
type AddStudentRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	FirstName  string `json:"first_name" validate:"required,min=1,max=100"`
	LastName   string `json:"last_name" validate:"required,min=1,max=100"`
	MatricNo   string `json:"matric_no" validate:"required,min=2,max=30"`
	Department string `json:"department" validate:"required,min=2,max=100"`
	Level      int    `json:"level" validate:"required,student_level"`
}

// CreateCourseRequest represents the request structure for creating courses
type CreateCourseRequest struct {
	Code        string          `json:"code" validate:"required,course_code"`
	Title       string          `json:"title" validate:"required,min=1,max=200"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
	Department  string          `json:"department" validate:"required,min=2,max=100"`
	CreditUnits int             `json:"credit_units" validate:"required,min=1,max=6"`
	Level       int             `json:"level" validate:"required,student_level"`
	Semester    models.Semester `json:"semester" validate:"required,oneof=FIRST SECOND"`
	LecturerID  *string         `json:"lecturer_id" validate:"omitempty,uuid"`
}

// UpdateCourseRequest represents a partial course update
type UpdateCourseRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Department  *string          `json:"department" validate:"omitempty,min=2,max=100"`
	CreditUnits *int             `json:"credit_units" validate:"omitempty,min=1,max=6"`
	Level       *int             `json:"level" validate:"omitempty,student_level"`
	Semester    *models.Semester `json:"semester" validate:"omitempty,oneof=FIRST SECOND"`
}

// AssignLecturerRequest sets or clears a course's lecturer. A nil LecturerID
// unassigns the course.
type AssignLecturerRequest struct {
	LecturerID *string `json:"lecturer_id" validate:"omitempty,uuid"`
}

// EnrollRequest registers a student for a course offering
type EnrollRequest struct {
	StudentID string          `json:"student_id" validate:"required,uuid"`
	CourseID  string          `json:"course_id" validate:"required,uuid"`
	Session   string          `json:"session" validate:"required,academic_session"`
	Semester  models.Semester `json:"semester" validate:"required,oneof=FIRST SECOND"`
}

// UnenrollRequest removes a student from a course
type UnenrollRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	CourseID  string `json:"course_id" validate:"required,uuid"`
}

// SubmitResultRequest records or overwrites a score for an enrollment
type SubmitResultRequest struct {
	EnrollmentID string  `json:"enrollment_id" validate:"required,uuid"`
	Score        float64 `json:"score" validate:"score_range"`
}

// PublishResultsRequest releases results for a course so students can see them
type PublishResultsRequest struct {
	CourseID  string `json:"course_id" validate:"required,uuid"`
	Published bool   `json:"published"`
}
