package history

import (
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
)

// EventHandler folds one payment event into a chain state.
type EventHandler interface {
	Accumulate(state GroupState, event domain.PaymentEvent) (GroupState, error)
}

// DefaultHandlers returns the handler table keyed by transaction type.
// CREDIT and MANUAL_CREDIT share one handler.
func DefaultHandlers() map[domain.TransactionType]EventHandler {
	credit := CreditHandler{}
	return map[domain.TransactionType]EventHandler{
		domain.TypeReserve:       ReserveHandler{},
		domain.TypeModifyReserve: ModifyReserveHandler{},
		domain.TypeCancelReserve: CancelReserveHandler{},
		domain.TypeCharge:        ChargeHandler{},
		domain.TypeReverseCharge: ReverseChargeHandler{},
		domain.TypeCredit:        credit,
		domain.TypeManualCredit:  credit,
	}
}

// ReserveHandler opens a reservation. A failed reservation leaves nothing
// reserved or charged but still becomes the chain's current event.
type ReserveHandler struct{}

func (ReserveHandler) Accumulate(state GroupState, event domain.PaymentEvent) (GroupState, error) {
	next := state.withEvent(event)
	if event.IsFailed() {
		next.Available = domain.Zero(state.currency())
		next.Charged = domain.Zero(state.currency())
		return next, nil
	}
	next.Available = event.Amount
	return next, nil
}

// ModifyReserveHandler replaces the reserved amount; it does not add to it.
type ModifyReserveHandler struct{}

func (ModifyReserveHandler) Accumulate(state GroupState, event domain.PaymentEvent) (GroupState, error) {
	next := state.withEvent(event)
	if event.IsFailed() {
		return next, nil
	}
	next.Available = event.Amount
	return next, nil
}

// CancelReserveHandler releases the reservation whatever the outcome.
type CancelReserveHandler struct{}

func (CancelReserveHandler) Accumulate(state GroupState, _ domain.PaymentEvent) (GroupState, error) {
	next := state
	next.Available = domain.Zero(state.currency())
	return next, nil
}

// ChargeHandler captures reserved funds. Any charge attempt consumes the
// whole reservation, so available drops to zero even on failure.
type ChargeHandler struct{}

func (ChargeHandler) Accumulate(state GroupState, event domain.PaymentEvent) (GroupState, error) {
	next := state.withEvent(event)
	next.Available = domain.Zero(state.currency())
	if event.IsFailed() {
		return next, nil
	}

	insufficient, err := state.Available.IsLessThan(event.Amount)
	if err != nil {
		return GroupState{}, err
	}
	if insufficient {
		return GroupState{}, domain.NewInsufficientAvailableError(event.GUID, state.Available, event.Amount)
	}

	next.Charged = event.Amount
	return next, nil
}

// ReverseChargeHandler voids captured funds. Failed reversals are ignored
// and do not become the current event.
type ReverseChargeHandler struct{}

func (ReverseChargeHandler) Accumulate(state GroupState, event domain.PaymentEvent) (GroupState, error) {
	if event.IsFailed() {
		return state, nil
	}
	if state.Charged.IsZero() {
		return GroupState{}, domain.NewInsufficientChargedError(event.GUID, state.Charged, event.Amount)
	}

	balance, err := state.Charged.Sub(state.ReverseCharged)
	if err != nil {
		return GroupState{}, err
	}
	insufficient, err := balance.IsLessThan(event.Amount)
	if err != nil {
		return GroupState{}, err
	}
	if insufficient {
		return GroupState{}, domain.NewInsufficientChargedError(event.GUID, balance, event.Amount)
	}

	reversed, err := state.ReverseCharged.Add(event.Amount)
	if err != nil {
		return GroupState{}, err
	}
	next := state
	next.ReverseCharged = reversed
	return next, nil
}

// CreditHandler refunds settled funds. Failed credits are ignored and do
// not become the current event, so the chain keeps pointing at its charge.
type CreditHandler struct{}

func (CreditHandler) Accumulate(state GroupState, event domain.PaymentEvent) (GroupState, error) {
	if event.IsFailed() {
		return state, nil
	}

	balance, err := state.Charged.Sub(state.Refunded)
	if err != nil {
		return GroupState{}, err
	}
	insufficient, err := balance.IsLessThan(event.Amount)
	if err != nil {
		return GroupState{}, err
	}
	if insufficient {
		return GroupState{}, domain.NewInsufficientChargedError(event.GUID, balance, event.Amount)
	}

	refunded, err := state.Refunded.Add(event.Amount)
	if err != nil {
		return GroupState{}, err
	}
	next := state
	next.Refunded = refunded
	return next, nil
}
