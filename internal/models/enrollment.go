package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enrollment links one Student to one Course for an academic session and
// semester. The composite unique index is what keeps a student from being
// enrolled twice in the same course offering, regardless of request races.
type Enrollment struct {
	ID        string   `json:"id" gorm:"primaryKey;size:36"`
	StudentID string   `json:"student_id" gorm:"not null;size:36;uniqueIndex:idx_enrollment_offering"`
	CourseID  string   `json:"course_id" gorm:"not null;size:36;uniqueIndex:idx_enrollment_offering"`
	Session   string   `json:"session" gorm:"not null;size:20;uniqueIndex:idx_enrollment_offering"` // e.g. "2023/2024"
	Semester  Semester `json:"semester" gorm:"not null;size:10;uniqueIndex:idx_enrollment_offering"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Student Student `json:"student" gorm:"foreignKey:StudentID"`
	Course  Course  `json:"course" gorm:"foreignKey:CourseID"`
	Result  *Result `json:"result,omitempty" gorm:"foreignKey:EnrollmentID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
