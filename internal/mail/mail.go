package mail

import "context"

// Message is one outbound notification email.
type Message struct {
	RecipientEmail string
	RecipientName  string
	Role           string // recipient's role, used in the salutation
	Subject        string
	Body           string
}

// Sender is any service that can deliver notification emails. Delivery is
// best-effort: callers log failures and move on, they never retry the
// triggering academic write.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
