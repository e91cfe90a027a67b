// Package kafka publishes order-changed events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"dispatch/internal/core/domain/model/order"
)

// OrderChangedEvent is the message body. Consumers key on OrderID.
type OrderChangedEvent struct {
	OrderID    int64     `json:"orderId"`
	Distance   int       `json:"distance"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

const (
	// DefaultPublishTimeout bounds one PublishOrderChanged call, retries included.
	DefaultPublishTimeout = 2 * time.Second

	flushInterval = 5 * time.Millisecond
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// OrderChangedPublisher implements ports.OrderEventPublisher on a kafka-go Writer.
type OrderChangedPublisher struct {
	writer  messageWriter
	now     func() time.Time
	timeout time.Duration
}

// NewWriter builds the writer used in production. Messages for the same
// order always land on the same partition. Events are written one at a time
// from the committing request, so batches are flushed immediately.
func NewWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
		BatchSize:              1,
		BatchTimeout:           flushInterval,
		MaxAttempts:            3,
		WriteTimeout:           DefaultPublishTimeout,
		ReadTimeout:            DefaultPublishTimeout,
	}
}

// NewOrderChangedPublisher wraps writer.
func NewOrderChangedPublisher(writer messageWriter) *OrderChangedPublisher {
	return &OrderChangedPublisher{
		writer:  writer,
		now:     time.Now,
		timeout: DefaultPublishTimeout,
	}
}

// PublishOrderChanged writes one event keyed by the order id, giving up after
// DefaultPublishTimeout. The current trace context travels in the message headers.
func (p *OrderChangedPublisher) PublishOrderChanged(ctx context.Context, aggregate *order.Order) error {
	event := OrderChangedEvent{
		OrderID:    aggregate.ID(),
		Distance:   aggregate.Distance(),
		Status:     aggregate.Status().String(),
		OccurredAt: p.now().UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order changed event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: value,
	}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{headers: &msg.Headers})

	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err = p.writer.WriteMessages(writeCtx, msg); err != nil {
		return fmt.Errorf("failed to publish order %d: %w", event.OrderID, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *OrderChangedPublisher) Close() error {
	return p.writer.Close()
}

type headerCarrier struct {
	headers *[]kafkago.Header
}

func (c headerCarrier) Get(key string) string {
	for _, h := range *c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	for i, h := range *c.headers {
		if h.Key == key {
			(*c.headers)[i].Value = []byte(value)
			return
		}
	}
	*c.headers = append(*c.headers, kafkago.Header{Key: key, Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(*c.headers))
	for _, h := range *c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}
