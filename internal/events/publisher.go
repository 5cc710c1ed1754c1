// Package events fans store changes out to a RabbitMQ exchange.
package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"shopdesk/internal/store"
)

const publishTimeout = 5 * time.Second

// Message is the body published for every committed store change.
type Message struct {
	Slices     []store.Slice `json:"slices"`
	OccurredAt time.Time     `json:"occurredAt"`
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	log      *logrus.Logger
}

// Dial connects to RabbitMQ and declares exchange as a durable fanout.
func Dial(url, exchange string, logger *logrus.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeFanout,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, ch: ch, exchange: exchange, log: logger}, nil
}

// Handle is a store.Listener. Failures are logged and dropped.
func (p *Publisher) Handle(event store.Event) {
	body, err := json.Marshal(Message{Slices: event.Slices, OccurredAt: event.OccurredAt})
	if err != nil {
		p.log.WithError(err).Error("failed to encode store event")
		return
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		ContentType:  "application/json",
		Body:         body,
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.ch.PublishWithContext(ctx, p.exchange, "", false, false, msg); err != nil {
		p.log.WithError(err).WithField("exchange", p.exchange).Warn("failed to publish store event")
	}
}

func (p *Publisher) Close() {
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			p.log.WithError(err).Warn("failed to close rabbitmq channel")
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.log.WithError(err).Warn("failed to close rabbitmq connection")
		}
	}
}
