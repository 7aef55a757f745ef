package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/polkiloo/quickmart/internal/domain/model"
)

const publishTimeout = 5 * time.Second

// ErrNotConfirmed is returned when the broker nacks a published message.
var ErrNotConfirmed = errors.New("message not confirmed by broker")

// Publisher announces order status events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event model.StatusEvent) error
	Close() error
}

// Message is the JSON body of a published status event.
type Message struct {
	EventID     string    `json:"event_id"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  int64     `json:"customer_id"`
	Status      string    `json:"status"`
	Note        string    `json:"note,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewMessage converts outbox event into wire message.
func NewMessage(event model.StatusEvent) Message {
	return Message{
		EventID:     event.EventID.String(),
		OrderID:     event.OrderID.String(),
		OrderNumber: event.OrderNumber,
		CustomerID:  event.CustomerID,
		Status:      event.Status.String(),
		Note:        event.Note,
		OccurredAt:  event.OccurredAt.UTC(),
	}
}

// RoutingKey returns topic routing key for status, e.g. order.delivered.
func RoutingKey(status model.OrderStatus) string {
	return "order." + status.String()
}

type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Confirm(noWait bool) error
	PublishWithDeferredConfirmWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) (confirmation, error)
	Close() error
}

// confirmChannel exposes deferred confirmations of an amqp channel as confirmation.
type confirmChannel struct {
	*amqp.Channel
}

func (c confirmChannel) PublishWithDeferredConfirmWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) (confirmation, error) {
	dc, err := c.Channel.PublishWithDeferredConfirmWithContext(ctx, exchange, key, mandatory, immediate, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("channel is not in confirm mode")
	}
	return dc, nil
}

type amqpConnection interface {
	Channel() (*amqp.Channel, error)
	Close() error
}

var dialAMQP = func(url string) (amqpConnection, error) {
	return amqp.Dial(url)
}

// RabbitPublisher publishes status events to a topic exchange.
type RabbitPublisher struct {
	conn     amqpConnection
	channel  amqpChannel
	exchange string
	logger   *slog.Logger
}

// DialRabbit connects to broker and declares durable topic exchange.
func DialRabbit(url, exchange string, logger *slog.Logger) (*RabbitPublisher, error) {
	conn, err := dialAMQP(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	publisher, err := NewRabbitPublisher(confirmChannel{ch}, exchange, logger)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	publisher.conn = conn
	return publisher, nil
}

// NewRabbitPublisher declares exchange on an open channel and puts it into confirm mode.
func NewRabbitPublisher(ch amqpChannel, exchange string, logger *slog.Logger) (*RabbitPublisher, error) {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}
	return &RabbitPublisher{channel: ch, exchange: exchange, logger: logger}, nil
}

// Publish sends event as persistent JSON message routed by status and
// returns once the broker has confirmed it.
func (p *RabbitPublisher) Publish(ctx context.Context, event model.StatusEvent) error {
	body, err := json.Marshal(NewMessage(event))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	key := RoutingKey(event.Status)
	confirm, err := p.channel.PublishWithDeferredConfirmWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    event.EventID.String(),
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("await confirm %s: %w", key, err)
	}
	if !acked {
		return fmt.Errorf("publish %s: %w", key, ErrNotConfirmed)
	}

	p.logger.Debug("status event published",
		slog.String("routing_key", key),
		slog.String("order_number", event.OrderNumber),
	)
	return nil
}

// Close releases channel and connection.
func (p *RabbitPublisher) Close() error {
	err := p.channel.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// LogPublisher writes events to the log when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher constructs LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event model.StatusEvent) error {
	p.logger.Info("status event",
		slog.String("routing_key", RoutingKey(event.Status)),
		slog.String("event_id", event.EventID.String()),
		slog.String("order_number", event.OrderNumber),
		slog.Int64("customer_id", event.CustomerID),
		slog.String("note", event.Note),
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
