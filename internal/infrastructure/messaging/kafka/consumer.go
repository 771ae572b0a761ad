// Package kafka ingests payment events from a Kafka topic and publishes
// ledger fixtures onto it. Messages are keyed by order ID and carry a JSON
// encoded dto.EventDTO.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/application"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/config"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/interfaces/dto"
	"github.com/go-playground/validator"
	kafkago "github.com/segmentio/kafka-go"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

func NewReader(cfg config.KafkaConfig) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.BrokerList(),
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})
}

// Consumer records every fetched message and commits it once handled.
// A message whose recording failed transiently is left uncommitted and
// the consumer stops, so it is redelivered to the group.
type Consumer struct {
	reader   MessageReader
	recorder EventRecorder
	validate *validator.Validate
	logger   *slog.Logger
}

func NewConsumer(reader MessageReader, recorder EventRecorder, logger *slog.Logger) *Consumer {
	return &Consumer{
		reader:   reader,
		recorder: recorder,
		validate: validator.New(),
		logger:   logger,
	}
}

// Run consumes until ctx is cancelled. It returns nil on cancellation.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("kafka consumer started")
	defer c.logger.Info("kafka consumer stopped")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		if err := c.handle(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}

// handle returns an error only when the message must be redelivered.
func (c *Consumer) handle(ctx context.Context, msg kafkago.Message) error {
	logger := c.logger.With("partition", msg.Partition, "offset", msg.Offset)

	orderID := string(msg.Key)
	if orderID == "" {
		logger.Warn("dropping message without order key")
		return nil
	}
	logger = logger.With("order_id", orderID)

	event, err := c.decode(msg.Value)
	if err != nil {
		logger.Warn("dropping undecodable payment event", "error", err)
		return nil
	}
	logger = logger.With("event_guid", event.GUID, "type", event.Type)

	_, err = c.recorder.RecordEvent(ctx, orderID, event)
	switch {
	case err == nil:
		logger.Debug("payment event ingested")
		return nil
	case errors.Is(err, domain.ErrDuplicateEvent):
		logger.Debug("payment event already recorded")
		return nil
	case application.IsRetryable(err):
		logger.Error("failed to record payment event", "error", err)
		return fmt.Errorf("record event %s: %w", event.GUID, err)
	default:
		logger.Warn("payment event rejected",
			"error", err,
			"category", application.CategorizeError(err),
		)
		return nil
	}
}

func (c *Consumer) decode(value []byte) (domain.PaymentEvent, error) {
	var payload dto.EventDTO
	if err := json.Unmarshal(value, &payload); err != nil {
		return domain.PaymentEvent{}, err
	}
	if err := c.validate.Struct(payload); err != nil {
		return domain.PaymentEvent{}, err
	}
	return payload.ToDomain()
}
