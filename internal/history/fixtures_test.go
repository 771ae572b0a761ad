package history_test

import (
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/history"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

const currency = "CAD"

var clock = time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC)

func money(amount int64) domain.Money {
	return domain.NewMoney(decimal.NewFromInt(amount), currency)
}

func instrument(guid string, limit int64) domain.OrderPaymentInstrument {
	return domain.OrderPaymentInstrument{GUID: guid, Limit: money(limit)}
}

// event builds a payment event with a fresh GUID and a strictly increasing date.
func event(parent *domain.PaymentEvent, txType domain.TransactionType, status domain.PaymentStatus, amount int64) domain.PaymentEvent {
	clock = clock.Add(time.Second)

	parentGUID := ""
	if parent != nil {
		parentGUID = parent.GUID
	}
	return domain.PaymentEvent{
		GUID:       "evt-" + uuid.NewString(),
		ParentGUID: parentGUID,
		Type:       txType,
		Status:     status,
		Amount:     money(amount),
		Date:       clock,
	}
}

func eventOn(inst domain.OrderPaymentInstrument, parent *domain.PaymentEvent, txType domain.TransactionType, status domain.PaymentStatus, amount int64) domain.PaymentEvent {
	e := event(parent, txType, status, amount)
	e.Instrument = &inst
	return e
}

func reserve(amount int64) domain.PaymentEvent {
	return event(nil, domain.TypeReserve, domain.StatusApproved, amount)
}

func approved(parent domain.PaymentEvent, txType domain.TransactionType, amount int64) domain.PaymentEvent {
	return event(&parent, txType, domain.StatusApproved, amount)
}

func failed(parent domain.PaymentEvent, txType domain.TransactionType, amount int64) domain.PaymentEvent {
	return event(&parent, txType, domain.StatusFailed, amount)
}

// amountFor returns the amount mapped to the event GUID and whether it was present.
func amountFor(pairs []history.EventAmount, guid string) (domain.Money, bool) {
	for _, p := range pairs {
		if p.Event.GUID == guid {
			return p.Amount, true
		}
	}
	return domain.Money{}, false
}

func assertMoney(t *testing.T, expected int64, actual domain.Money, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, money(expected).Equal(actual), "expected %s, got %s %v", money(expected), actual, msgAndArgs)
}
