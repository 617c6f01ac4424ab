package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Semester string

const (
	SemesterFirst  Semester = "FIRST"
	SemesterSecond Semester = "SECOND"
)

type Course struct {
	ID          string   `json:"id" gorm:"primaryKey;size:36"`
	Code        string   `json:"code" gorm:"uniqueIndex;not null;size:20"`
	Title       string   `json:"title" gorm:"not null;size:200"`
	Description *string  `json:"description" gorm:"type:text"`
	Department  string   `json:"department" gorm:"not null;size:100;index"`
	CreditUnits int      `json:"credit_units" gorm:"not null"`
	Level       int      `json:"level" gorm:"not null"`
	Semester    Semester `json:"semester" gorm:"not null;size:10"`

	// Owner assignment is mutable and nullable.
	LecturerID *string `json:"lecturer_id" gorm:"size:36;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Lecturer    *Lecturer    `json:"lecturer,omitempty" gorm:"foreignKey:LecturerID"`
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:CourseID"`
	Results     []Result     `json:"results,omitempty" gorm:"foreignKey:CourseID"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
