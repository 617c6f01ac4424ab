package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"gorm.io/datatypes"

	"github.com/smart-result/records-service/internal/events"
	"github.com/smart-result/records-service/internal/mail"
	"github.com/smart-result/records-service/internal/models"
	"github.com/smart-result/records-service/internal/repositories"
)

// notificationConsumer turns domain events into emails. It is the only
// component that talks to the mail sender; producers just publish events.
type notificationConsumer struct {
	subscriber message.Subscriber
	sender     mail.Sender
	repo       repositories.Repository
	logger     *slog.Logger
}

func NewNotificationConsumer(subscriber message.Subscriber, sender mail.Sender, repo repositories.Repository, logger *slog.Logger) NotificationService {
	return &notificationConsumer{
		subscriber: subscriber,
		sender:     sender,
		repo:       repo,
		logger:     logger,
	}
}

func (c *notificationConsumer) Start(ctx context.Context) error {
	topics := []string{events.TopicResults, events.TopicCourses, events.TopicReminders}

	for _, topic := range topics {
		messages, err := c.subscriber.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}
		go c.consume(ctx, topic, messages)
	}

	c.logger.Info("Notification consumer started", "topics", topics)
	return nil
}

func (c *notificationConsumer) consume(ctx context.Context, topic string, messages <-chan *message.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			c.handleMessage(ctx, msg)
			// Delivery is at-most-once from the consumer's view: a failed
			// email is logged, never redelivered.
			msg.Ack()
		}
	}
}

func (c *notificationConsumer) handleMessage(ctx context.Context, msg *message.Message) {
	var event events.Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		c.logger.Error("Failed to decode event", "message_id", msg.UUID, "error", err)
		return
	}

	email, role, err := c.composeEmail(&event)
	if err != nil {
		c.logger.Error("Failed to compose notification", "event_id", event.ID, "event_type", event.Type, "error", err)
		return
	}
	if email == nil {
		// Event type carries no notification
		return
	}

	sendErr := c.sender.Send(ctx, *email)
	if sendErr != nil {
		c.logger.Error("Failed to send notification",
			"event_id", event.ID, "recipient", email.RecipientEmail, "error", sendErr)
	}

	c.recordDelivery(ctx, &event, email, role, sendErr)
}

// composeEmail maps an event to the message it should produce. The second
// return value is the recipient's role for the audit log.
func (c *notificationConsumer) composeEmail(event *events.Event) (*mail.Message, models.UserRole, error) {
	switch event.Type {
	case events.TypeResultRecorded:
		var payload events.ResultRecordedEvent
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, "", fmt.Errorf("bad result payload: %w", err)
		}
		return &mail.Message{
			RecipientEmail: payload.StudentEmail,
			RecipientName:  payload.StudentName,
			Role:           string(models.RoleStudent),
			Subject:        fmt.Sprintf("Result recorded for %s", payload.CourseCode),
			Body: fmt.Sprintf("Your result for %s (%s) has been recorded. Score: %.1f, Grade: %s.",
				payload.CourseTitle, payload.CourseCode, payload.Score, payload.Grade),
		}, models.RoleStudent, nil

	case events.TypeLecturerAssigned:
		var payload events.LecturerAssignedEvent
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, "", fmt.Errorf("bad assignment payload: %w", err)
		}
		return &mail.Message{
			RecipientEmail: payload.LecturerEmail,
			RecipientName:  payload.LecturerName,
			Role:           string(models.RoleLecturer),
			Subject:        fmt.Sprintf("You have been assigned to %s", payload.CourseCode),
			Body: fmt.Sprintf("You are now the lecturer for %s (%s).",
				payload.CourseTitle, payload.CourseCode),
		}, models.RoleLecturer, nil

	case events.TypeReminderDue:
		var payload events.ReminderDueEvent
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, "", fmt.Errorf("bad reminder payload: %w", err)
		}
		return &mail.Message{
			RecipientEmail: payload.LecturerEmail,
			RecipientName:  payload.LecturerName,
			Role:           string(models.RoleLecturer),
			Subject:        "Outstanding results reminder",
			Body: fmt.Sprintf("You have %d enrollments without results and %d unpublished results awaiting release.",
				payload.MissingResults, payload.UnpublishedCount),
		}, models.RoleLecturer, nil

	default:
		return nil, "", nil
	}
}

func (c *notificationConsumer) recordDelivery(ctx context.Context, event *events.Event, email *mail.Message, role models.UserRole, sendErr error) {
	entry := &models.NotificationLog{
		EventID:        event.ID,
		EventType:      event.Type,
		RecipientEmail: email.RecipientEmail,
		RecipientRole:  role,
		Status:         models.NotificationSent,
		Payload:        datatypes.JSON(event.Data),
	}
	if sendErr != nil {
		entry.Status = models.NotificationFailed
		errText := sendErr.Error()
		entry.Error = &errText
	}

	if err := c.repo.NotificationLog().Create(ctx, entry); err != nil {
		c.logger.Error("Failed to record notification log", "event_id", event.ID, "error", err)
	}
}
