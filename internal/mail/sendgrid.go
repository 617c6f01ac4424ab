package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sendgrid/sendgrid-go"
	smail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendTimeout = 10 * time.Second

// SendGridSender delivers emails through the SendGrid v3 API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *slog.Logger
}

func NewSendGridSender(apiKey, fromEmail, fromName string, logger *slog.Logger) *SendGridSender {
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	from := smail.NewEmail(s.fromName, s.fromEmail)
	to := smail.NewEmail(msg.RecipientName, msg.RecipientEmail)
	body := fmt.Sprintf("Dear %s (%s),\n\n%s\n", msg.RecipientName, msg.Role, msg.Body)
	email := smail.NewSingleEmail(from, msg.Subject, to, body, "")

	resp, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid send: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}

	s.logger.Debug("email sent", "recipient", msg.RecipientEmail, "subject", msg.Subject)
	return nil
}
