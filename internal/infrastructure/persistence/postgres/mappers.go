package postgres

import (
	"fmt"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
)

// toDomainEvent: maps db model to domain event
func toDomainEvent(m PaymentEventModel) (domain.PaymentEvent, error) {
	amount, err := domain.ParseMoney(m.Amount, m.Currency)
	if err != nil {
		return domain.PaymentEvent{}, fmt.Errorf("event %s: %w", m.GUID, err)
	}

	e := domain.PaymentEvent{
		GUID:   m.GUID,
		Type:   domain.TransactionType(m.TransactionType),
		Status: domain.PaymentStatus(m.Status),
		Amount: amount,
	}
	if m.ParentGUID != nil {
		e.ParentGUID = *m.ParentGUID
	}
	if m.EventDate != nil {
		e.Date = m.EventDate.UTC()
	}

	if m.InstrumentGUID != nil && m.InstrumentLimit != nil && m.InstrumentCurrency != nil {
		limit, err := domain.ParseMoney(*m.InstrumentLimit, *m.InstrumentCurrency)
		if err != nil {
			return domain.PaymentEvent{}, fmt.Errorf("event %s instrument: %w", m.GUID, err)
		}
		e.Instrument = &domain.OrderPaymentInstrument{GUID: *m.InstrumentGUID, Limit: limit}
	}
	return e, nil
}

// toEventModel: maps domain event to db model
func toEventModel(orderID string, e domain.PaymentEvent) PaymentEventModel {
	m := PaymentEventModel{
		GUID:            e.GUID,
		OrderID:         orderID,
		ParentGUID:      optional(e.ParentGUID),
		TransactionType: string(e.Type),
		Status:          string(e.Status),
		Amount:          e.Amount.Amount.String(),
		Currency:        e.Amount.Currency,
	}
	if !e.Date.IsZero() {
		date := e.Date
		m.EventDate = &date
	}
	if e.Instrument != nil {
		limit := e.Instrument.Limit.Amount.String()
		m.InstrumentGUID = optional(e.Instrument.GUID)
		m.InstrumentLimit = &limit
		m.InstrumentCurrency = optional(e.Instrument.Limit.Currency)
	}
	return m
}

func toDomainInstrument(m InstrumentModel) (domain.OrderPaymentInstrument, error) {
	limit, err := domain.ParseMoney(m.LimitAmount, m.Currency)
	if err != nil {
		return domain.OrderPaymentInstrument{}, fmt.Errorf("instrument %s: %w", m.GUID, err)
	}
	return domain.OrderPaymentInstrument{GUID: m.GUID, Limit: limit}, nil
}

func toInstrumentModel(orderID string, i domain.OrderPaymentInstrument) InstrumentModel {
	return InstrumentModel{
		OrderID:     orderID,
		GUID:        i.GUID,
		LimitAmount: i.Limit.Amount.String(),
		Currency:    i.Limit.Currency,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
