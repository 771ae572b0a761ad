package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/application"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/history"
)

// LedgerService persists payment events per order and answers balance
// questions by reconciling the stored ledger.
type LedgerService struct {
	repo    application.LedgerRepository
	history *history.History
	logger  *slog.Logger
}

func NewLedgerService(repo application.LedgerRepository, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		repo:    repo,
		history: history.New(),
		logger:  logger,
	}
}

// Summary reconciles the stored ledger of an order.
func (s *LedgerService) Summary(ctx context.Context, orderID string) (history.Summary, error) {
	if orderID == "" {
		return history.Summary{}, domain.NewMissingRequiredFieldError("order id")
	}

	events, err := s.repo.FindEventsByOrderID(ctx, orderID)
	if err != nil {
		return history.Summary{}, fmt.Errorf("load events for order %s: %w", orderID, err)
	}
	instruments, err := s.repo.FindInstrumentsByOrderID(ctx, orderID)
	if err != nil {
		return history.Summary{}, fmt.Errorf("load instruments for order %s: %w", orderID, err)
	}

	summary, err := s.history.Reconcile(events, history.MergeInstruments(instruments, events))
	if err != nil {
		s.logger.Warn("stored ledger does not reconcile",
			"order_id", orderID,
			"events", len(events),
			"category", application.CategorizeError(err),
			"error", err,
		)
		return history.Summary{}, err
	}
	return summary, nil
}

// Reconcile computes a summary for a ledger that is not stored.
func (s *LedgerService) Reconcile(
	_ context.Context,
	events []domain.PaymentEvent,
	instruments []domain.OrderPaymentInstrument,
) (history.Summary, error) {
	return s.history.Reconcile(events, instruments)
}

// RecordEvent appends an event to the order's ledger. The append only
// happens if the ledger including the new event still reconciles; otherwise
// the rule violation is returned and nothing is stored.
func (s *LedgerService) RecordEvent(ctx context.Context, orderID string, event domain.PaymentEvent) (history.Summary, error) {
	if orderID == "" {
		return history.Summary{}, domain.NewMissingRequiredFieldError("order id")
	}

	var summary history.Summary
	err := s.repo.WithOrderLock(ctx, orderID, func(ctx context.Context, repo application.LedgerRepository) error {
		events, err := repo.FindEventsByOrderID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("load events for order %s: %w", orderID, err)
		}
		if slices.ContainsFunc(events, func(e domain.PaymentEvent) bool { return e.GUID == event.GUID }) {
			return domain.NewDuplicateEventError(event.GUID)
		}

		instruments, err := repo.FindInstrumentsByOrderID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("load instruments for order %s: %w", orderID, err)
		}

		candidate := append(slices.Clip(events), event)
		summary, err = s.history.Reconcile(candidate, history.MergeInstruments(instruments, candidate))
		if err != nil {
			return err
		}

		return repo.AppendEvent(ctx, orderID, event)
	})
	if err != nil {
		s.logger.Warn("payment event rejected",
			"order_id", orderID,
			"event_guid", event.GUID,
			"type", event.Type,
			"category", application.CategorizeError(err),
			"error", err,
		)
		return history.Summary{}, err
	}

	s.logger.Info("payment event recorded",
		"order_id", orderID,
		"event_guid", event.GUID,
		"type", event.Type,
		"status", event.Status,
		"amount", event.Amount.String(),
	)
	return summary, nil
}

// RegisterInstrument stores or updates an instrument of the order. Its limit
// must be in the ledger's currency once the ledger has events.
func (s *LedgerService) RegisterInstrument(ctx context.Context, orderID string, instrument domain.OrderPaymentInstrument) error {
	if orderID == "" {
		return domain.NewMissingRequiredFieldError("order id")
	}
	if _, err := domain.NewOrderPaymentInstrument(instrument.GUID, instrument.Limit); err != nil {
		return err
	}
	if instrument.Limit.IsNegative() {
		return domain.NewNegativeAmountError(instrument.GUID, instrument.Limit)
	}

	err := s.repo.WithOrderLock(ctx, orderID, func(ctx context.Context, repo application.LedgerRepository) error {
		events, err := repo.FindEventsByOrderID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("load events for order %s: %w", orderID, err)
		}
		if len(events) > 0 && events[0].Amount.Currency != instrument.Limit.Currency {
			return domain.NewCurrencyMismatchError(events[0].Amount.Currency, instrument.Limit.Currency)
		}
		return repo.SaveInstrument(ctx, orderID, instrument)
	})
	if err != nil {
		s.logger.Warn("instrument rejected",
			"order_id", orderID,
			"instrument_guid", instrument.GUID,
			"error", err,
		)
		return err
	}

	s.logger.Info("instrument registered",
		"order_id", orderID,
		"instrument_guid", instrument.GUID,
		"limit", instrument.Limit.String(),
	)
	return nil
}
