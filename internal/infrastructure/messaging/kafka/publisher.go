package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/interfaces/dto"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

func NewWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
	}
}

// Publisher writes payment events keyed by order ID. The hash balancer keeps
// an order's events on one partition, in order. Events without a GUID get one
// before publishing so redelivery is idempotent.
type Publisher struct {
	writer MessageWriter
}

func NewPublisher(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer}
}

func (p *Publisher) Publish(ctx context.Context, orderID string, events []dto.EventDTO) error {
	msgs := make([]kafkago.Message, 0, len(events))
	for _, e := range events {
		if e.GUID == "" {
			e.GUID = uuid.NewString()
		}
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode event %s: %w", e.GUID, err)
		}
		msgs = append(msgs, kafkago.Message{Key: []byte(orderID), Value: value})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d events for order %s: %w", len(msgs), orderID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
