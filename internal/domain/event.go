// Package domain encodes payment events, instruments and money
package domain

import (
	"time"
)

// TransactionType identifies what a payment event did to its reservation
type TransactionType string

const (
	TypeReserve       TransactionType = "RESERVE"
	TypeModifyReserve TransactionType = "MODIFY_RESERVE"
	TypeCancelReserve TransactionType = "CANCEL_RESERVE"
	TypeCharge        TransactionType = "CHARGE"
	TypeReverseCharge TransactionType = "REVERSE_CHARGE"
	TypeCredit        TransactionType = "CREDIT"
	TypeManualCredit  TransactionType = "MANUAL_CREDIT"
)

// TransactionTypes lists every known transaction type.
var TransactionTypes = []TransactionType{
	TypeReserve,
	TypeModifyReserve,
	TypeCancelReserve,
	TypeCharge,
	TypeReverseCharge,
	TypeCredit,
	TypeManualCredit,
}

func (t TransactionType) IsValid() bool {
	switch t {
	case TypeReserve, TypeModifyReserve, TypeCancelReserve, TypeCharge,
		TypeReverseCharge, TypeCredit, TypeManualCredit:
		return true
	default:
		return false
	}
}

// PaymentStatus is the outcome of the transaction attempt
type PaymentStatus string

const (
	StatusApproved PaymentStatus = "APPROVED"
	StatusFailed   PaymentStatus = "FAILED"
	StatusSkipped  PaymentStatus = "SKIPPED"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case StatusApproved, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}

// OrderPaymentInstrument is a payment instrument attached to an order.
// A zero Limit means the instrument is unlimited.
type OrderPaymentInstrument struct {
	GUID  string
	Limit Money
}

func NewOrderPaymentInstrument(guid string, limit Money) (OrderPaymentInstrument, error) {
	if guid == "" {
		return OrderPaymentInstrument{}, NewMissingRequiredFieldError("instrument guid")
	}
	if limit.Currency == "" {
		return OrderPaymentInstrument{}, NewMissingRequiredFieldError("limit currency")
	}
	return OrderPaymentInstrument{GUID: guid, Limit: limit}, nil
}

// IsUnlimited reports whether the instrument carries no authorization cap.
func (i OrderPaymentInstrument) IsUnlimited() bool {
	return i.Limit.IsZero()
}

// PaymentEvent is one recorded transaction attempt against an order.
// Events are values and are never mutated after construction.
type PaymentEvent struct {
	GUID       string
	ParentGUID string
	Type       TransactionType
	Status     PaymentStatus
	Amount     Money
	Date       time.Time
	Instrument *OrderPaymentInstrument
}

func NewPaymentEvent(
	guid string,
	parentGUID string,
	txType TransactionType,
	status PaymentStatus,
	amount Money,
	date time.Time,
	instrument *OrderPaymentInstrument,
) (PaymentEvent, error) {
	if guid == "" {
		return PaymentEvent{}, NewMissingRequiredFieldError("event guid")
	}
	if !txType.IsValid() {
		return PaymentEvent{}, NewMissingRequiredFieldError("valid transaction type")
	}
	if !status.IsValid() {
		return PaymentEvent{}, NewMissingRequiredFieldError("valid payment status")
	}
	if amount.Currency == "" {
		return PaymentEvent{}, NewMissingRequiredFieldError("amount currency")
	}

	var inst *OrderPaymentInstrument
	if instrument != nil {
		copied := *instrument
		inst = &copied
	}

	return PaymentEvent{
		GUID:       guid,
		ParentGUID: parentGUID,
		Type:       txType,
		Status:     status,
		Amount:     amount,
		Date:       date,
		Instrument: inst,
	}, nil
}

// IsRoot reports whether the event opens a new reservation chain.
func (e PaymentEvent) IsRoot() bool {
	return e.ParentGUID == ""
}

func (e PaymentEvent) IsFailed() bool {
	return e.Status == StatusFailed
}

// InstrumentGUID returns the referenced instrument's GUID, or "" when none.
func (e PaymentEvent) InstrumentGUID() string {
	if e.Instrument == nil {
		return ""
	}
	return e.Instrument.GUID
}
