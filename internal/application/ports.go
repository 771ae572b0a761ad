package application

import (
	"context"
	"time"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
)

// LedgerRepository is the port for event ledger persistence.
type LedgerRepository interface {
	AppendEvent(ctx context.Context, orderID string, event domain.PaymentEvent) error
	// FindEventsByOrderID returns the order's events in the order they were recorded.
	FindEventsByOrderID(ctx context.Context, orderID string) ([]domain.PaymentEvent, error)
	SaveInstrument(ctx context.Context, orderID string, instrument domain.OrderPaymentInstrument) error
	FindInstrumentsByOrderID(ctx context.Context, orderID string) ([]domain.OrderPaymentInstrument, error)
	FindOrdersWithEventsSince(ctx context.Context, since time.Time, limit int) ([]OrderActivity, error)
	// WithOrderLock runs fn in a transaction holding the order's lock. The
	// repository passed to fn is bound to that transaction.
	WithOrderLock(ctx context.Context, orderID string, fn func(ctx context.Context, repo LedgerRepository) error) error
}

// OrderActivity is an order with events recorded after some point in time.
type OrderActivity struct {
	OrderID        string
	LastRecordedAt time.Time
}
