package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Result is the scored outcome for exactly one Enrollment. The unique index
// on EnrollmentID is the at-most-one-result invariant; writes go through an
// upsert keyed on it so concurrent submissions collapse to a single row.
type Result struct {
	ID           string  `json:"id" gorm:"primaryKey;size:36"`
	EnrollmentID string  `json:"enrollment_id" gorm:"uniqueIndex;not null;size:36"`
	CourseID     string  `json:"course_id" gorm:"not null;size:36;index"`
	StudentID    string  `json:"student_id" gorm:"not null;size:36;index"`
	LecturerID   string  `json:"lecturer_id" gorm:"not null;size:36;index"`
	Score        float64 `json:"score" gorm:"not null"`
	Grade        Grade   `json:"grade" gorm:"not null;size:2"`
	Published    bool    `json:"published" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Enrollment Enrollment `json:"enrollment" gorm:"foreignKey:EnrollmentID"`
	Course     Course     `json:"course" gorm:"foreignKey:CourseID"`
	Student    Student    `json:"student" gorm:"foreignKey:StudentID"`
	Lecturer   Lecturer   `json:"lecturer" gorm:"foreignKey:LecturerID"`
}

func (Result) TableName() string {
	return "results"
}

func (r *Result) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type NotificationStatus string

const (
	NotificationSent   NotificationStatus = "sent"
	NotificationFailed NotificationStatus = "failed"
)

// NotificationLog records each outbound delivery attempt made by the
// notification consumer. Academic state is never touched here; the log is
// observability for the best-effort side of the pipeline.
type NotificationLog struct {
	ID             string             `json:"id" gorm:"primaryKey;size:36"`
	EventID        string             `json:"event_id" gorm:"not null;size:36;index"`
	EventType      string             `json:"event_type" gorm:"not null;size:50;index"`
	RecipientEmail string             `json:"recipient_email" gorm:"not null;size:255"`
	RecipientRole  UserRole           `json:"recipient_role" gorm:"not null;size:20"`
	Status         NotificationStatus `json:"status" gorm:"not null;size:10"`
	Error          *string            `json:"error" gorm:"type:text"`
	Payload        datatypes.JSON     `json:"payload" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
