package repositories

import (
	"time"

	"github.com/smart-result/records-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role      *models.UserRole `json:"role"`
	Query     string           `json:"query"` // name or email search
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
	SortBy    string           `json:"sort_by"`
	SortOrder string           `json:"sort_order"`
}

type StudentFilters struct {
	Department *string `json:"department"`
	Level      *int    `json:"level"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
}

type LecturerFilters struct {
	Department *string `json:"department"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
}

type CourseFilters struct {
	Department *string          `json:"department"`
	Level      *int             `json:"level"`
	Semester   *models.Semester `json:"semester"`
	LecturerID *string          `json:"lecturer_id"`
	Unassigned bool             `json:"unassigned"` // only courses with no lecturer
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
	SortBy     string           `json:"sort_by"`
	SortOrder  string           `json:"sort_order"`
}

type EnrollmentFilters struct {
	StudentID *string          `json:"student_id"`
	CourseID  *string          `json:"course_id"`
	Session   *string          `json:"session"`
	Semester  *models.Semester `json:"semester"`
	DateFrom  *time.Time       `json:"date_from"`
	DateTo    *time.Time       `json:"date_to"`
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
}

type ResultFilters struct {
	CourseID   *string `json:"course_id"`
	StudentID  *string `json:"student_id"`
	LecturerID *string `json:"lecturer_id"`
	Published  *bool   `json:"published"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type DashboardStats struct {
	StudentCount    int64 `json:"student_count"`
	LecturerCount   int64 `json:"lecturer_count"`
	CourseCount     int64 `json:"course_count"`
	EnrollmentCount int64 `json:"enrollment_count"`
	ResultCount     int64 `json:"result_count"`
	PendingResults  int64 `json:"pending_results"`
}

// LecturerPendingSummary is one lecturer's backlog: enrollments on their
// courses that have no result yet, plus results recorded but not released.
type LecturerPendingSummary struct {
	LecturerID       string `json:"lecturer_id"`
	LecturerEmail    string `json:"lecturer_email"`
	LecturerName     string `json:"lecturer_name"`
	MissingResults   int64  `json:"missing_results"`
	UnpublishedCount int64  `json:"unpublished_count"`
}
