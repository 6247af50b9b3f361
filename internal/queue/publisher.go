package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends booking events to RabbitMQ.  Each publish dials its own
// connection; confirmations are rare enough that a pooled channel is not
// worth the reconnect handling.
type Publisher struct {
	url    string
	logger *log.Logger
}

func NewPublisher(url string, logger *log.Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

// PublishBookingConfirmed publishes ev as a persistent JSON message on
// the booking.confirmed queue.  Errors are logged and returned so the
// caller can ignore them.
func (p *Publisher) PublishBookingConfirmed(ctx context.Context, ev BookingConfirmedEvent) error {
	if err := p.publish(ctx, ev); err != nil {
		p.logger.Warnf("rabbitmq: booking %d: %v", ev.BookingID, err)
		return err
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, ev BookingConfirmedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(BookingConfirmedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	return ch.PublishWithContext(ctx, "", BookingConfirmedQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// NopPublisher drops every event.  It is used when RabbitMQ is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishBookingConfirmed(context.Context, BookingConfirmedEvent) error { return nil }
