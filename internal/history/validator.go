package history

import (
	"slices"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
)

// Validator checks a list of payment events. Ledger validators see the
// whole ledger; chain validators see one reservation chain at a time.
type Validator interface {
	Validate(events []domain.PaymentEvent) error
}

// CurrencyValidator requires a single currency across the ledger.
type CurrencyValidator struct{}

func (CurrencyValidator) Validate(events []domain.PaymentEvent) error {
	if len(events) == 0 {
		return nil
	}
	currency := events[0].Amount.Currency
	for _, event := range events[1:] {
		if event.Amount.Currency != currency {
			return domain.NewCurrencyMismatchError(currency, event.Amount.Currency)
		}
	}
	return nil
}

// NegativeAmountValidator rejects events carrying a negative amount.
type NegativeAmountValidator struct{}

func (NegativeAmountValidator) Validate(events []domain.PaymentEvent) error {
	for _, event := range events {
		if event.Amount.IsNegative() {
			return domain.NewNegativeAmountError(event.GUID, event.Amount)
		}
	}
	return nil
}

// DateValidator rejects two events of a guarded type recorded at the same
// instant. Each type is checked independently; unset dates are skipped.
type DateValidator struct {
	guarded []domain.TransactionType
}

func NewDateValidator() DateValidator {
	return DateValidator{
		guarded: []domain.TransactionType{domain.TypeModifyReserve, domain.TypeReverseCharge},
	}
}

func (v DateValidator) Validate(events []domain.PaymentEvent) error {
	for _, txType := range v.guarded {
		seen := make(map[int64]string)
		for _, event := range events {
			if event.Type != txType {
				continue
			}
			key := event.Date.UnixNano()
			if other, dup := seen[key]; dup {
				return domain.NewDuplicateTimestampError(txType, event.GUID, other)
			}
			seen[key] = event.GUID
		}
	}
	return nil
}

// SequenceValidator enforces the legal successor table within a chain.
type SequenceValidator struct {
	transitions map[domain.TransactionType][]domain.TransactionType
}

func NewSequenceValidator() SequenceValidator {
	credits := []domain.TransactionType{domain.TypeCredit, domain.TypeManualCredit}
	reservations := []domain.TransactionType{domain.TypeModifyReserve, domain.TypeCancelReserve, domain.TypeCharge}

	return SequenceValidator{
		transitions: map[domain.TransactionType][]domain.TransactionType{
			domain.TypeReserve:       reservations,
			domain.TypeModifyReserve: reservations,
			domain.TypeCancelReserve: nil,
			domain.TypeCharge:        {domain.TypeReverseCharge, domain.TypeCredit, domain.TypeManualCredit},
			domain.TypeReverseCharge: nil,
			domain.TypeCredit:        credits,
			domain.TypeManualCredit:  credits,
		},
	}
}

func (v SequenceValidator) Validate(events []domain.PaymentEvent) error {
	if len(events) == 0 {
		return nil
	}
	if events[0].Type != domain.TypeReserve {
		return domain.NewIllegalSequenceError(
			"chain rooted at %s starts with %s, expected %s",
			events[0].GUID, events[0].Type, domain.TypeReserve,
		)
	}

	for i := 1; i < len(events); i++ {
		prev, curr := events[i-1], events[i]
		if !v.allow(prev.Type, curr.Type) {
			return domain.NewIllegalSequenceError(
				"%s %s cannot follow %s %s",
				curr.Type, curr.GUID, prev.Type, prev.GUID,
			)
		}
	}
	return nil
}

func (v SequenceValidator) allow(from, to domain.TransactionType) bool {
	return slices.Contains(v.transitions[from], to)
}
