package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student is the academic profile attached to a User with RoleStudent.
type Student struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	UserID     string `json:"user_id" gorm:"uniqueIndex;not null;size:36"`
	MatricNo   string `json:"matric_no" gorm:"uniqueIndex;not null;size:50"`
	Department string `json:"department" gorm:"not null;size:100"`
	Level      int    `json:"level" gorm:"not null"` // e.g. 100, 200, 300

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User        User         `json:"user" gorm:"foreignKey:UserID"`
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:StudentID"`
	Results     []Result     `json:"results,omitempty" gorm:"foreignKey:StudentID"`
}

func (Student) TableName() string {
	return "students"
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Lecturer is the staff profile attached to a User with RoleLecturer.
type Lecturer struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	UserID     string `json:"user_id" gorm:"uniqueIndex;not null;size:36"`
	StaffID    string `json:"staff_id" gorm:"uniqueIndex;not null;size:50"`
	Department string `json:"department" gorm:"not null;size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User    User     `json:"user" gorm:"foreignKey:UserID"`
	Courses []Course `json:"courses,omitempty" gorm:"foreignKey:LecturerID"`
	Results []Result `json:"results,omitempty" gorm:"foreignKey:LecturerID"`
}

func (Lecturer) TableName() string {
	return "lecturers"
}

func (l *Lecturer) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
