// Package history reconciles an order's payment event ledger into its
// current balances and the headroom left on each payment instrument.
//
// The computation is pure. Every query rebuilds the reservation chains from
// the supplied events, validates them and folds them from scratch; nothing
// is cached and the caller's slices are never modified.
package history

import (
	"slices"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
)

// EventAmount pairs a payment event with an amount. A slice of these is the
// multimap returned by the chargeable and refundable queries.
type EventAmount struct {
	Event  domain.PaymentEvent
	Amount domain.Money
}

// Summary is every aggregate of a ledger computed from a single fold.
type Summary struct {
	Currency          string
	AvailableReserved domain.Money
	Charged           domain.Money
	Refunded          domain.Money
	Chargeable        []EventAmount
	Refundable        []EventAmount
	// Reservable is keyed by instrument GUID.
	Reservable map[string]domain.Money
}

type History struct {
	handlers         map[domain.TransactionType]EventHandler
	ledgerValidators []Validator
	chainValidators  []Validator
}

func New() *History {
	return &History{
		handlers: DefaultHandlers(),
		ledgerValidators: []Validator{
			CurrencyValidator{},
			NegativeAmountValidator{},
			NewDateValidator(),
		},
		chainValidators: []Validator{
			NewSequenceValidator(),
		},
	}
}

// AvailableReservedAmount sums what is still reserved and chargeable.
func (h *History) AvailableReservedAmount(events []domain.PaymentEvent) (domain.Money, error) {
	states, currency, err := h.fold(events)
	if err != nil {
		return domain.Money{}, err
	}
	return availableReserved(states, currency)
}

// ChargedAmount sums captured funds net of reversals. Credits do not reduce it.
func (h *History) ChargedAmount(events []domain.PaymentEvent) (domain.Money, error) {
	states, currency, err := h.fold(events)
	if err != nil {
		return domain.Money{}, err
	}
	return charged(states, currency)
}

// RefundedAmount sums approved credits.
func (h *History) RefundedAmount(events []domain.PaymentEvent) (domain.Money, error) {
	states, currency, err := h.fold(events)
	if err != nil {
		return domain.Money{}, err
	}
	return refunded(states, currency)
}

// ChargeableEvents maps the current event of every open reservation to its available amount.
func (h *History) ChargeableEvents(events []domain.PaymentEvent) ([]EventAmount, error) {
	states, _, err := h.fold(events)
	if err != nil {
		return nil, err
	}
	return chargeable(states), nil
}

// RefundableEvents maps the charge of every chain with a remaining balance to that balance.
func (h *History) RefundableEvents(events []domain.PaymentEvent) ([]EventAmount, error) {
	states, _, err := h.fold(events)
	if err != nil {
		return nil, err
	}
	return refundable(states)
}

// ReservableInstruments reports, per instrument GUID, how much more may be
// reserved. Unlimited (zero-limit) instruments always report zero; limited
// instruments with no headroom left are omitted.
func (h *History) ReservableInstruments(
	events []domain.PaymentEvent,
	instruments []domain.OrderPaymentInstrument,
) (map[string]domain.Money, error) {
	states, _, err := h.fold(events)
	if err != nil {
		return nil, err
	}
	return reservable(states, instruments)
}

// MergeInstruments returns the registered instruments followed by any
// instrument referenced only from events. Registered limits win.
func MergeInstruments(registered []domain.OrderPaymentInstrument, events []domain.PaymentEvent) []domain.OrderPaymentInstrument {
	merged := slices.Clone(registered)
	seen := make(map[string]bool, len(registered))
	for _, inst := range registered {
		seen[inst.GUID] = true
	}
	for _, e := range events {
		if e.Instrument == nil || seen[e.Instrument.GUID] {
			continue
		}
		seen[e.Instrument.GUID] = true
		merged = append(merged, *e.Instrument)
	}
	return merged
}

// Reconcile computes every aggregate of the ledger in one pass.
func (h *History) Reconcile(
	events []domain.PaymentEvent,
	instruments []domain.OrderPaymentInstrument,
) (Summary, error) {
	states, currency, err := h.fold(events)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Currency:   currency,
		Chargeable: chargeable(states),
	}
	if summary.AvailableReserved, err = availableReserved(states, currency); err != nil {
		return Summary{}, err
	}
	if summary.Charged, err = charged(states, currency); err != nil {
		return Summary{}, err
	}
	if summary.Refunded, err = refunded(states, currency); err != nil {
		return Summary{}, err
	}
	if summary.Refundable, err = refundable(states); err != nil {
		return Summary{}, err
	}
	if summary.Reservable, err = reservable(states, instruments); err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// fold validates the ledger, builds its chains and folds each one. It also
// returns the ledger currency, empty for an empty ledger.
func (h *History) fold(events []domain.PaymentEvent) ([]GroupState, string, error) {
	for _, v := range h.ledgerValidators {
		if err := v.Validate(events); err != nil {
			return nil, "", err
		}
	}

	chains, err := buildChains(events)
	if err != nil {
		return nil, "", err
	}

	currency := ""
	if len(events) > 0 {
		currency = events[0].Amount.Currency
	}

	states := make([]GroupState, 0, len(chains))
	for _, c := range chains {
		for _, v := range h.chainValidators {
			if err := v.Validate(c.events); err != nil {
				return nil, "", err
			}
		}
		state, err := h.foldChain(c, currency)
		if err != nil {
			return nil, "", err
		}
		states = append(states, state)
	}
	return states, currency, nil
}

func (h *History) foldChain(c chain, currency string) (GroupState, error) {
	state := NewGroupState(currency)
	for _, event := range c.events {
		handler, ok := h.handlers[event.Type]
		if !ok {
			return GroupState{}, domain.NewIllegalSequenceError(
				"no handler for %s event %s in chain %s", event.Type, event.GUID, c.root().GUID,
			)
		}
		next, err := handler.Accumulate(state, event)
		if err != nil {
			return GroupState{}, err
		}
		state = next
	}
	return state, nil
}

func sum(states []GroupState, currency string, pick func(GroupState) (domain.Money, error)) (domain.Money, error) {
	total := domain.Zero(currency)
	for _, s := range states {
		m, err := pick(s)
		if err != nil {
			return domain.Money{}, err
		}
		if total, err = total.Add(m); err != nil {
			return domain.Money{}, err
		}
	}
	return total, nil
}

func availableReserved(states []GroupState, currency string) (domain.Money, error) {
	return sum(states, currency, func(s GroupState) (domain.Money, error) { return s.Available, nil })
}

func charged(states []GroupState, currency string) (domain.Money, error) {
	return sum(states, currency, GroupState.NetCharged)
}

func refunded(states []GroupState, currency string) (domain.Money, error) {
	return sum(states, currency, func(s GroupState) (domain.Money, error) { return s.Refunded, nil })
}

func chargeable(states []GroupState) []EventAmount {
	result := make([]EventAmount, 0)
	for _, s := range states {
		if s.Available.IsPositive() {
			result = append(result, EventAmount{Event: s.CurrentEvent, Amount: s.Available})
		}
	}
	return result
}

func refundable(states []GroupState) ([]EventAmount, error) {
	result := make([]EventAmount, 0)
	for _, s := range states {
		balance, err := s.Refundable()
		if err != nil {
			return nil, err
		}
		if balance.IsPositive() {
			result = append(result, EventAmount{Event: s.CurrentEvent, Amount: balance})
		}
	}
	return result, nil
}

func reservable(states []GroupState, instruments []domain.OrderPaymentInstrument) (map[string]domain.Money, error) {
	result := make(map[string]domain.Money, len(instruments))
	for _, inst := range instruments {
		zero := domain.Zero(inst.Limit.Currency)
		if inst.IsUnlimited() {
			result[inst.GUID] = zero
			continue
		}

		usage := zero
		for _, s := range states {
			if s.CurrentEvent.InstrumentGUID() != inst.GUID {
				continue
			}
			outstanding, err := s.Outstanding()
			if err != nil {
				return nil, err
			}
			if usage, err = usage.Add(outstanding); err != nil {
				return nil, err
			}
		}

		headroom, err := inst.Limit.Sub(usage)
		if err != nil {
			return nil, err
		}
		// Exhausted or over-committed instruments are not reservable at all.
		if headroom.IsPositive() {
			result[inst.GUID] = headroom
		}
	}
	return result, nil
}
