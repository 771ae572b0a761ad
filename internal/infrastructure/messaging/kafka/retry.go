package kafka

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/application"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/config"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/history"
)

// EventRecorder appends a payment event to an order's ledger.
type EventRecorder interface {
	RecordEvent(ctx context.Context, orderID string, event domain.PaymentEvent) (history.Summary, error)
}

// RetryingRecorder retries transient recording failures with exponential
// backoff. Ledger rule violations are returned on the first attempt.
type RetryingRecorder struct {
	inner      EventRecorder
	baseDelay  time.Duration
	maxRetries int
}

func NewRetryingRecorder(inner EventRecorder, cfg config.RetryConfig) *RetryingRecorder {
	maxRetries := int(cfg.MaxRetries)
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &RetryingRecorder{
		inner:      inner,
		baseDelay:  time.Duration(cfg.BaseDelay) * time.Second,
		maxRetries: maxRetries,
	}
}

func (r *RetryingRecorder) RecordEvent(ctx context.Context, orderID string, event domain.PaymentEvent) (history.Summary, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return history.Summary{}, err
		}

		summary, err := r.inner.RecordEvent(ctx, orderID, event)
		if err == nil {
			return summary, nil
		}

		lastErr = err
		if !application.IsRetryable(err) {
			return history.Summary{}, err
		}

		if attempt < r.maxRetries-1 {
			select {
			case <-ctx.Done():
				return history.Summary{}, ctx.Err()
			case <-time.After(r.backoff(attempt)):
			}
		}
	}

	return history.Summary{}, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

// backoff doubles the base delay per attempt and adds up to half of it as jitter.
func (r *RetryingRecorder) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)
	if base <= 0 {
		return 0
	}
	return base + time.Duration(rand.Int63n(int64(base)/2+1))
}
