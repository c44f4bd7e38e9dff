// Package queue publishes booking events to RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kirinyoku/cinebook/internal/domain"
)

const DefaultQueue = "cinebook.bookings"

// Publisher sends one persistent JSON message per booking event to a
// durable queue on the default exchange.
type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string

	// guards ch, which must not be used for concurrent publishes
	mu sync.Mutex
}

func NewPublisher(url, queue string) (*Publisher, error) {
	const op = "queue.NewPublisher"

	if queue == "" {
		queue = DefaultQueue
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *Publisher) Notify(ctx context.Context, ev domain.BookingEvent) error {
	const op = "queue.Publisher.Notify"

	msg, err := newPublishing(ev)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		msg,
	); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_ = p.ch.Close()
	return p.conn.Close()
}

func newPublishing(ev domain.BookingEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, err
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    fmt.Sprintf("%s:%s:%d", ev.Type, ev.BookingID, ev.OccurredAt.UnixNano()),
		Type:         string(ev.Type),
		Timestamp:    ev.OccurredAt,
		Body:         body,
	}, nil
}
