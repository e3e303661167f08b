// Package rabbitmq publishes order events to a RabbitMQ topic exchange.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
)

// Exchange receives every order event; the routing key is the event type.
const Exchange = "bazzarnet.orders"

// ErrNotConfirmed is returned when the broker nacks a message.
var ErrNotConfirmed = errors.New("broker did not confirm message")

// Publisher hands an outbox event to the message broker.
type Publisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
	Close() error
}

type channel interface {
	PublishWithDeferredConfirmWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) (*amqp091.DeferredConfirmation, error)
	Close() error
}

type connection interface {
	Close() error
}

// AMQPPublisher publishes persistent JSON messages with publisher confirms.
type AMQPPublisher struct {
	conn     connection
	channel  channel
	exchange string
}

// Dial connects to url, declares the durable topic exchange and enables confirms.
func Dial(url string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		Exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: ch, exchange: Exchange}, nil
}

// Publish sends event and waits for the broker confirmation.
func (p *AMQPPublisher) Publish(ctx context.Context, event model.OrderEvent) error {
	confirmation, err := p.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		p.exchange,         // exchange
		string(event.Type), // routing key
		false,              // mandatory
		false,              // immediate
		message(event),
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	if confirmation == nil {
		return nil
	}
	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return ErrNotConfirmed
	}
	return nil
}

// Close releases the channel and the connection.
func (p *AMQPPublisher) Close() error {
	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

func message(event model.OrderEvent) amqp091.Publishing {
	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    strconv.FormatInt(event.ID, 10),
		Timestamp:    event.CreatedAt,
		Type:         string(event.Type),
		Headers:      amqp091.Table{"order_id": event.OrderID},
		Body:         event.Payload,
	}
}

// LogPublisher writes events to the log. It stands in for the broker when none is configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher returns a publisher logging through logger.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs event.
func (p *LogPublisher) Publish(_ context.Context, event model.OrderEvent) error {
	p.logger.Info("order event",
		zap.Int64("id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("order_id", event.OrderID),
		zap.ByteString("payload", event.Payload),
	)
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error { return nil }
