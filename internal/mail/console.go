package mail

import (
	"context"
	"log/slog"
	"sync"
)

// ConsoleSender writes emails to the log instead of delivering them. It is
// the default sender in development, where no SendGrid key is configured.
type ConsoleSender struct {
	logger *slog.Logger
}

func NewConsoleSender(logger *slog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

func (s *ConsoleSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email (console)",
		"recipient", msg.RecipientEmail,
		"name", msg.RecipientName,
		"role", msg.Role,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}

// CaptureSender records every message it is asked to deliver. Tests use it
// to assert on notification content without touching the network.
type CaptureSender struct {
	mu       sync.Mutex
	messages []Message

	// FailWith, when set, is returned from Send without recording the
	// message.
	FailWith error
}

func NewCaptureSender() *CaptureSender {
	return &CaptureSender{}
}

func (s *CaptureSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *CaptureSender) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *CaptureSender) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}
