package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TransactionCoordinator runs ledger writes for one order inside a single
// transaction holding that order's advisory lock.
type TransactionCoordinator struct {
	db *DB
}

func NewTransactionCoordinator(db *DB) *TransactionCoordinator {
	return &TransactionCoordinator{db: db}
}

// WithOrderLock begins a transaction, takes a transaction-scoped advisory
// lock keyed by the order ID and hands fn a repository bound to that
// transaction. The lock is released on commit or rollback.
func (tc *TransactionCoordinator) WithOrderLock(
	ctx context.Context,
	orderID string,
	fn func(ctx context.Context, eventRepo *EventRepository) error,
) error {
	tx, err := tc.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockOrder(ctx, tx, orderID); err != nil {
		return err
	}

	txEventRepo := &EventRepository{
		db: tc.db,
		q:  tx,
	}

	if err := fn(ctx, txEventRepo); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func lockOrder(ctx context.Context, tx pgx.Tx, orderID string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, orderID); err != nil {
		return fmt.Errorf("failed to lock order %s: %w", orderID, err)
	}
	return nil
}
