package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventPublisher is the outbound boundary for domain events. Implementations
// must not block the caller beyond the context deadline.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// watermillPublisher adapts any watermill message.Publisher to the
// EventPublisher interface; both the Kafka and in-process backends go
// through it.
type watermillPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

func newWatermillPublisher(publisher message.Publisher, logger *slog.Logger) EventPublisher {
	return &watermillPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *watermillPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.Metadata.Set("source", event.Source)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(TopicFor(event.Type), msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	p.logger.Debug("Event published",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", TopicFor(event.Type))

	return nil
}

func (p *watermillPublisher) Close() error {
	return p.publisher.Close()
}

// ChannelPubSub is the in-process pub/sub used when no Kafka brokers are
// configured: the publisher and the notification consumer share one
// gochannel instance inside the process.
type ChannelPubSub struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

func NewChannelPubSub(logger *slog.Logger) *ChannelPubSub {
	return &ChannelPubSub{
		pubSub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, watermill.NewSlogLogger(logger)),
		logger: logger,
	}
}

// Publisher returns the EventPublisher side of the pub/sub.
func (c *ChannelPubSub) Publisher() EventPublisher {
	return newWatermillPublisher(c.pubSub, c.logger)
}

// Subscriber returns the message.Subscriber side for consumers.
func (c *ChannelPubSub) Subscriber() message.Subscriber {
	return c.pubSub
}

func (c *ChannelPubSub) Close() error {
	return c.pubSub.Close()
}
