package events

import (
	"context"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"rideshare/internal/logging"
)

// AMQPPublisher sends events to a durable topic exchange. The routing key is
// the event type, so a consumer binds "ride.confirmed" or "ride.#".
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string

	// amqp channels must not be used for concurrent publishes.
	mu sync.Mutex
	ch *amqp.Channel
}

// DialAMQP connects to url and declares exchange.
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logging.Info().Str("exchange", exchange).Msg("connected to RabbitMQ")
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event RideEvent) error {
	if event.RequestID == "" {
		event.RequestID = logging.RequestIDFromContext(ctx)
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(
		ctx,
		p.exchange,
		string(event.Type),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     event.RideID + ":" + string(event.Type),
			CorrelationId: event.RequestID,
			Timestamp:     event.OccurredAt,
			Body:          body,
		},
	); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
