package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
)

// Wizard event names.
const (
	EventProfileSaved       = "profile_saved"
	EventOccupationSelected = "occupation_selected"
	EventSessionCleared     = "session_cleared"
)

// EventPublisher announces wizard progress to interested consumers.
type EventPublisher interface {
	Publish(token, event string, payload map[string]any) error
	Close() error
}

type noopPublisher struct{}

// NewNoopPublisher discards every event.
func NewNoopPublisher() EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(string, string, map[string]any) error { return nil }
func (noopPublisher) Close() error                                 { return nil }

type amqpPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	exchange string
}

// NewAMQPPublisher dials RabbitMQ and declares the topic exchange.
func NewAMQPPublisher(url, exchange string) (EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &amqpPublisher{conn: conn, exchange: exchange}, nil
}

// Publish implements EventPublisher. Routing key is session.<token>.
func (p *amqpPublisher) Publish(token, event string, payload map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	update := map[string]any{"event": event}
	for k, v := range payload {
		update[k] = v
	}

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return ch.Publish(
		p.exchange,
		fmt.Sprintf("session.%s", token),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Close implements EventPublisher.
func (p *amqpPublisher) Close() error {
	return p.conn.Close()
}
