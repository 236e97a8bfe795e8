package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/user/apartment-scraper/internal/entity"
)

const (
	RoutingKeyScraped = "property.scraped"
	RoutingKeyFailed  = "property.failed"
)

// Publisher sends every scrape result to a durable topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewPublisher dials url and declares exchange if it is missing.
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", exchange, err)
	}

	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish sends result as JSON. The run id travels as the correlation id.
func (p *Publisher) Publish(ctx context.Context, runID string, result entity.ScrapeResult) error {
	if p.conn.IsClosed() {
		return fmt.Errorf("publisher connection is closed")
	}

	msg, err := newMessage(runID, result)
	if err != nil {
		return err
	}

	if err := p.channel.PublishWithContext(ctx, p.exchange, RoutingKey(result), false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", result.URL(), err)
	}
	return nil
}

func newMessage(runID string, result entity.ScrapeResult) (amqp.Publishing, error) {
	body, err := json.Marshal(result)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     uuid.NewString(),
		CorrelationId: runID,
		Timestamp:     time.Now(),
		Body:          body,
	}, nil
}

// RoutingKey separates successful scrapes from failures.
func RoutingKey(result entity.ScrapeResult) string {
	if result.OK() {
		return RoutingKeyScraped
	}
	return RoutingKeyFailed
}

func (p *Publisher) Close() error {
	var firstErr error
	if err := p.channel.Close(); err != nil {
		firstErr = err
	}
	if err := p.conn.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
