// Package event publishes quiz lifecycle events to a RabbitMQ topic exchange.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"docquiz/internal/config"
	"docquiz/internal/domain"
	"docquiz/internal/logger"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// publishChannel is the subset of *amqp091.Channel the publisher uses.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPPublisher implements domain.EventPublisher. With no broker URL it is a no-op.
type AMQPPublisher struct {
	conn         *amqp091.Connection
	channel      publishChannel
	exchangeName string
	enabled      bool
}

// NewAMQPPublisher connects to cfg.AMQPURL and declares a durable topic exchange.
func NewAMQPPublisher(cfg config.EventsConfig) (*AMQPPublisher, error) {
	if cfg.AMQPURL == "" {
		logger.Get().Warn("AMQP URL is empty, event publishing is disabled")
		return &AMQPPublisher{enabled: false}, nil
	}

	conn, err := amqp091.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", cfg.Exchange, err)
	}

	logger.Get().Info("Event publisher connected", zap.String("exchange", cfg.Exchange))
	return &AMQPPublisher{
		conn:         conn,
		channel:      channel,
		exchangeName: cfg.Exchange,
		enabled:      true,
	}, nil
}

// Enabled reports whether events are actually sent.
func (p *AMQPPublisher) Enabled() bool {
	return p.enabled
}

// Publish sends event with its Type as routing key.
func (p *AMQPPublisher) Publish(ctx context.Context, event *domain.QuizEvent) error {
	if !p.enabled {
		logger.Get().Debug("Event publishing is disabled, skipping event", zap.String("type", event.Type))
		return nil
	}
	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		pubCtx,
		p.exchangeName, // exchange
		event.Type,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			MessageId:    event.QuizID,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	logger.Get().Debug("Published event", zap.String("type", event.Type), zap.String("quiz_id", event.QuizID))
	return nil
}

// Close releases the channel and connection.
func (p *AMQPPublisher) Close() error {
	if !p.enabled {
		return nil
	}
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			logger.Get().Warn("Error closing RabbitMQ channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}
	return nil
}

var _ domain.EventPublisher = (*AMQPPublisher)(nil)
