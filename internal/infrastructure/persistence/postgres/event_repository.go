package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/application"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
	"github.com/jackc/pgx/v5"
)

const eventColumns = `
	seq, guid, order_id, parent_guid, transaction_type, status,
	amount::text, currency, event_date,
	instrument_guid, instrument_limit::text, instrument_currency, recorded_at`

// EventRepository stores payment events and order instruments.
type EventRepository struct {
	db *DB
	q  Executor
}

func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db, q: db.Pool}
}

var _ application.LedgerRepository = (*EventRepository)(nil)

func (r *EventRepository) AppendEvent(ctx context.Context, orderID string, event domain.PaymentEvent) error {
	query := `
		INSERT INTO payment_events (
			guid, order_id, parent_guid, transaction_type, status,
			amount, currency, event_date,
			instrument_guid, instrument_limit, instrument_currency
		) VALUES ($1, $2, $3, $4, $5, $6::text::numeric, $7, $8, $9, $10::text::numeric, $11)
	`

	m := toEventModel(orderID, event)
	_, err := r.q.Exec(ctx, query,
		m.GUID,
		m.OrderID,
		m.ParentGUID,
		m.TransactionType,
		m.Status,
		m.Amount,
		m.Currency,
		m.EventDate,
		m.InstrumentGUID,
		m.InstrumentLimit,
		m.InstrumentCurrency,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewDuplicateEventError(event.GUID)
		}
		return fmt.Errorf("failed to append payment event: %w", err)
	}
	return nil
}

// FindEventsByOrderID returns the order's events in insertion order.
func (r *EventRepository) FindEventsByOrderID(ctx context.Context, orderID string) ([]domain.PaymentEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM payment_events WHERE order_id = $1 ORDER BY seq`

	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query payment events: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PaymentEvent, error) {
		return scanEvent(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan payment events: %w", err)
	}
	return results, nil
}

// FindEventByGUID retrieves one event and the order it belongs to.
func (r *EventRepository) FindEventByGUID(ctx context.Context, guid string) (domain.PaymentEvent, string, error) {
	query := `SELECT ` + eventColumns + ` FROM payment_events WHERE guid = $1`

	var m PaymentEventModel
	err := r.q.QueryRow(ctx, query, guid).Scan(eventFields(&m)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PaymentEvent{}, "", domain.ErrEventNotFound
		}
		return domain.PaymentEvent{}, "", fmt.Errorf("failed to scan payment event: %w", err)
	}

	event, err := toDomainEvent(m)
	if err != nil {
		return domain.PaymentEvent{}, "", err
	}
	return event, m.OrderID, nil
}

// SaveInstrument inserts the instrument or replaces its limit.
func (r *EventRepository) SaveInstrument(ctx context.Context, orderID string, instrument domain.OrderPaymentInstrument) error {
	query := `
		INSERT INTO order_payment_instruments (order_id, guid, limit_amount, currency)
		VALUES ($1, $2, $3::text::numeric, $4)
		ON CONFLICT (order_id, guid)
		DO UPDATE SET limit_amount = EXCLUDED.limit_amount, currency = EXCLUDED.currency, updated_at = NOW()
	`

	m := toInstrumentModel(orderID, instrument)
	if _, err := r.q.Exec(ctx, query, m.OrderID, m.GUID, m.LimitAmount, m.Currency); err != nil {
		return fmt.Errorf("failed to save instrument: %w", err)
	}
	return nil
}

func (r *EventRepository) FindInstrumentsByOrderID(ctx context.Context, orderID string) ([]domain.OrderPaymentInstrument, error) {
	query := `
		SELECT order_id, guid, limit_amount::text, currency
		FROM order_payment_instruments
		WHERE order_id = $1
		ORDER BY created_at, guid
	`

	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query instruments: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.OrderPaymentInstrument, error) {
		var m InstrumentModel
		if err := row.Scan(&m.OrderID, &m.GUID, &m.LimitAmount, &m.Currency); err != nil {
			return domain.OrderPaymentInstrument{}, err
		}
		return toDomainInstrument(m)
	})
	if err != nil {
		return nil, fmt.Errorf("scan instruments: %w", err)
	}
	return results, nil
}

// FindOrdersWithEventsSince lists orders with events recorded strictly after
// since, oldest activity first.
func (r *EventRepository) FindOrdersWithEventsSince(ctx context.Context, since time.Time, limit int) ([]application.OrderActivity, error) {
	query := `
		SELECT order_id, MAX(recorded_at) AS last_recorded_at
		FROM payment_events
		WHERE recorded_at > $1
		GROUP BY order_id
		ORDER BY last_recorded_at, order_id
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query order activity: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (application.OrderActivity, error) {
		var a application.OrderActivity
		err := row.Scan(&a.OrderID, &a.LastRecordedAt)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan order activity: %w", err)
	}
	return results, nil
}

// WithOrderLock executes fn within a transaction holding the order's
// advisory lock. Concurrent writers to one order are serialized.
func (r *EventRepository) WithOrderLock(
	ctx context.Context,
	orderID string,
	fn func(ctx context.Context, repo application.LedgerRepository) error,
) error {
	return NewTransactionCoordinator(r.db).WithOrderLock(ctx, orderID, func(ctx context.Context, txRepo *EventRepository) error {
		return fn(ctx, txRepo)
	})
}

func eventFields(m *PaymentEventModel) []any {
	return []any{
		&m.Seq, &m.GUID, &m.OrderID, &m.ParentGUID, &m.TransactionType, &m.Status,
		&m.Amount, &m.Currency, &m.EventDate,
		&m.InstrumentGUID, &m.InstrumentLimit, &m.InstrumentCurrency, &m.RecordedAt,
	}
}

func scanEvent(row pgx.Row) (domain.PaymentEvent, error) {
	var m PaymentEventModel
	if err := row.Scan(eventFields(&m)...); err != nil {
		return domain.PaymentEvent{}, err
	}
	return toDomainEvent(m)
}
