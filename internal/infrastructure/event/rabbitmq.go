package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/supplychain/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultExchange is the topic exchange integration events are published to
const DefaultExchange = "supplychain.events"

const defaultBufferSize = 256

// Publisher is the part of *amqp.Channel the forwarder needs
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQConnection owns the AMQP connection and channel of the forwarder
type RabbitMQConnection struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
}

// DialRabbitMQ connects and declares the durable topic exchange
func DialRabbitMQ(url, exchange string) (*RabbitMQConnection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &RabbitMQConnection{Conn: conn, Channel: ch}, nil
}

// Close closes the channel and the connection
func (c *RabbitMQConnection) Close() error {
	if err := c.Channel.Close(); err != nil && err != amqp.ErrClosed {
		c.Conn.Close()
		return err
	}
	return c.Conn.Close()
}

// IntegrationMessage is the body published for every domain event
type IntegrationMessage struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	CompanyID     string          `json:"company_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// NewIntegrationMessage wraps a domain event for the broker
func NewIntegrationMessage(event shared.DomainEvent) (*IntegrationMessage, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event %s: %w", event.EventType(), err)
	}
	return &IntegrationMessage{
		EventID:       event.EventID().String(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID().String(),
		AggregateType: event.AggregateType(),
		CompanyID:     event.CompanyID().String(),
		OccurredAt:    event.OccurredAt().UTC(),
		Payload:       payload,
	}, nil
}

// ForwarderOption configures a RabbitMQForwarder
type ForwarderOption func(*RabbitMQForwarder)

// WithBufferSize sets how many messages may wait for the broker
func WithBufferSize(n int) ForwarderOption {
	return func(f *RabbitMQForwarder) {
		if n > 0 {
			f.bufferSize = n
		}
	}
}

// WithPublishTimeout bounds a single publish
func WithPublishTimeout(d time.Duration) ForwarderOption {
	return func(f *RabbitMQForwarder) {
		if d > 0 {
			f.publishTimeout = d
		}
	}
}

// RabbitMQForwarder subscribes to every domain event and publishes it to a
// topic exchange with the event type as routing key. Handle only enqueues;
// a full queue drops the message so a slow broker never blocks a request.
type RabbitMQForwarder struct {
	publisher      Publisher
	exchange       string
	logger         *zap.Logger
	bufferSize     int
	publishTimeout time.Duration

	queue     chan *IntegrationMessage
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
	mu        sync.RWMutex
	stopped   bool
}

// NewRabbitMQForwarder creates a forwarder; call Start before publishing
func NewRabbitMQForwarder(publisher Publisher, exchange string, logger *zap.Logger, opts ...ForwarderOption) *RabbitMQForwarder {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &RabbitMQForwarder{
		publisher:      publisher,
		exchange:       exchange,
		logger:         logger.Named("rabbitmq"),
		bufferSize:     defaultBufferSize,
		publishTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.queue = make(chan *IntegrationMessage, f.bufferSize)
	return f
}

// EventTypes implements shared.EventHandler; the forwarder receives all events
func (f *RabbitMQForwarder) EventTypes() []string {
	return nil
}

// Handle implements shared.EventHandler
func (f *RabbitMQForwarder) Handle(_ context.Context, event shared.DomainEvent) error {
	msg, err := NewIntegrationMessage(event)
	if err != nil {
		return err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.stopped {
		f.logger.Warn("forwarder stopped, dropping event", zap.String("event_type", msg.EventType))
		return nil
	}

	select {
	case f.queue <- msg:
	default:
		f.logger.Warn("forwarder queue full, dropping event",
			zap.String("event_type", msg.EventType),
			zap.String("event_id", msg.EventID),
		)
	}
	return nil
}

// Start launches the publishing goroutine
func (f *RabbitMQForwarder) Start() {
	f.startOnce.Do(func() {
		f.wg.Add(1)
		go f.run()
		f.logger.Info("rabbitmq forwarder started", zap.String("exchange", f.exchange))
	})
}

// Stop closes the queue and waits until queued messages are published or
// ctx is done
func (f *RabbitMQForwarder) Stop(ctx context.Context) error {
	f.stopOnce.Do(func() {
		f.mu.Lock()
		f.stopped = true
		close(f.queue)
		f.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		f.logger.Info("rabbitmq forwarder stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *RabbitMQForwarder) run() {
	defer f.wg.Done()
	for msg := range f.queue {
		if err := f.publish(msg); err != nil {
			f.logger.Error("failed to publish integration event",
				zap.String("event_type", msg.EventType),
				zap.String("event_id", msg.EventID),
				zap.Error(err),
			)
		}
	}
}

func (f *RabbitMQForwarder) publish(msg *IntegrationMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), f.publishTimeout)
	defer cancel()

	return f.publisher.PublishWithContext(ctx,
		f.exchange,
		msg.EventType,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    msg.EventID,
			Type:         msg.EventType,
			Timestamp:    msg.OccurredAt,
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

var _ shared.EventHandler = (*RabbitMQForwarder)(nil)
