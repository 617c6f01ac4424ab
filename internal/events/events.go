package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	SourceName   = "records-service"
	EventVersion = "1.0"
)

// Topics, one per failure domain so a stuck consumer on reminders never
// backs up result notifications.
const (
	TopicResults   = "records.results"
	TopicCourses   = "records.courses"
	TopicReminders = "records.reminders"
)

// Event types
const (
	TypeResultRecorded   = "result.recorded"
	TypeLecturerAssigned = "course.lecturer_assigned"
	TypeReminderDue      = "reminder.due"
)

// Event is the envelope every published message shares.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Version   string          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent wraps a typed payload in the standard envelope.
func NewEvent(eventType string, data interface{}) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    SourceName,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      payload,
	}, nil
}

// TopicFor maps an event type to its topic. Unknown types land on the
// results topic rather than being dropped.
func TopicFor(eventType string) string {
	switch eventType {
	case TypeResultRecorded:
		return TopicResults
	case TypeLecturerAssigned:
		return TopicCourses
	case TypeReminderDue:
		return TopicReminders
	default:
		return TopicResults
	}
}

// ===== EVENT PAYLOADS =====

// ResultRecordedEvent is emitted after a result upsert commits. It carries
// everything the notification consumer needs so the consumer never reads
// academic state.
type ResultRecordedEvent struct {
	ResultID     string  `json:"result_id"`
	EnrollmentID string  `json:"enrollment_id"`
	CourseCode   string  `json:"course_code"`
	CourseTitle  string  `json:"course_title"`
	StudentName  string  `json:"student_name"`
	StudentEmail string  `json:"student_email"`
	Score        float64 `json:"score"`
	Grade        string  `json:"grade"`
}

// LecturerAssignedEvent is emitted when a course gains a new owner.
type LecturerAssignedEvent struct {
	CourseID      string `json:"course_id"`
	CourseCode    string `json:"course_code"`
	CourseTitle   string `json:"course_title"`
	LecturerName  string `json:"lecturer_name"`
	LecturerEmail string `json:"lecturer_email"`
}

// ReminderDueEvent is emitted per lecturer by the periodic sweep.
type ReminderDueEvent struct {
	LecturerID       string `json:"lecturer_id"`
	LecturerName     string `json:"lecturer_name"`
	LecturerEmail    string `json:"lecturer_email"`
	MissingResults   int64  `json:"missing_results"`
	UnpublishedCount int64  `json:"unpublished_count"`
}
