// Package dto holds the wire shapes shared by the HTTP API, the Kafka
// consumer and the ledgerctl command. Amounts are decimal strings.
package dto

import (
	"sort"
	"time"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/history"
	"github.com/google/uuid"
)

type InstrumentDTO struct {
	GUID     string `json:"guid" yaml:"guid" validate:"required"`
	Limit    string `json:"limit" yaml:"limit" validate:"required"`
	Currency string `json:"currency" yaml:"currency" validate:"required,len=3"`
}

func (d InstrumentDTO) ToDomain() (domain.OrderPaymentInstrument, error) {
	limit, err := domain.ParseMoney(d.Limit, d.Currency)
	if err != nil {
		return domain.OrderPaymentInstrument{}, err
	}
	return domain.NewOrderPaymentInstrument(d.GUID, limit)
}

// EventDTO is a payment event on the wire. A missing GUID is generated.
type EventDTO struct {
	GUID       string         `json:"guid,omitempty" yaml:"guid,omitempty"`
	ParentGUID string         `json:"parent_guid,omitempty" yaml:"parent_guid,omitempty"`
	Type       string         `json:"type" yaml:"type" validate:"required"`
	Status     string         `json:"status" yaml:"status" validate:"required"`
	Amount     string         `json:"amount" yaml:"amount" validate:"required"`
	Currency   string         `json:"currency" yaml:"currency" validate:"required,len=3"`
	Date       time.Time      `json:"date" yaml:"date" validate:"required"`
	Instrument *InstrumentDTO `json:"instrument,omitempty" yaml:"instrument,omitempty"`
}

func (d EventDTO) ToDomain() (domain.PaymentEvent, error) {
	amount, err := domain.ParseMoney(d.Amount, d.Currency)
	if err != nil {
		return domain.PaymentEvent{}, err
	}

	var instrument *domain.OrderPaymentInstrument
	if d.Instrument != nil {
		inst, err := d.Instrument.ToDomain()
		if err != nil {
			return domain.PaymentEvent{}, err
		}
		instrument = &inst
	}

	guid := d.GUID
	if guid == "" {
		guid = uuid.NewString()
	}

	return domain.NewPaymentEvent(
		guid,
		d.ParentGUID,
		domain.TransactionType(d.Type),
		domain.PaymentStatus(d.Status),
		amount,
		d.Date,
		instrument,
	)
}

// LedgerDTO is a complete ledger: events in recorded order plus the order's instruments.
type LedgerDTO struct {
	Events      []EventDTO      `json:"events" yaml:"events" validate:"dive"`
	Instruments []InstrumentDTO `json:"instruments,omitempty" yaml:"instruments,omitempty" validate:"dive"`
}

func (d LedgerDTO) ToDomain() ([]domain.PaymentEvent, []domain.OrderPaymentInstrument, error) {
	events := make([]domain.PaymentEvent, 0, len(d.Events))
	for _, e := range d.Events {
		event, err := e.ToDomain()
		if err != nil {
			return nil, nil, err
		}
		events = append(events, event)
	}

	instruments := make([]domain.OrderPaymentInstrument, 0, len(d.Instruments))
	for _, i := range d.Instruments {
		inst, err := i.ToDomain()
		if err != nil {
			return nil, nil, err
		}
		instruments = append(instruments, inst)
	}
	return events, instruments, nil
}

type EventAmountDTO struct {
	EventGUID string `json:"event_guid" yaml:"event_guid"`
	Type      string `json:"type" yaml:"type"`
	Amount    string `json:"amount" yaml:"amount"`
}

type ReservableDTO struct {
	InstrumentGUID string `json:"instrument_guid" yaml:"instrument_guid"`
	Amount         string `json:"amount" yaml:"amount"`
	Currency       string `json:"currency" yaml:"currency"`
}

type SummaryDTO struct {
	Currency          string           `json:"currency" yaml:"currency"`
	AvailableReserved string           `json:"available_reserved" yaml:"available_reserved"`
	Charged           string           `json:"charged" yaml:"charged"`
	Refunded          string           `json:"refunded" yaml:"refunded"`
	Chargeable        []EventAmountDTO `json:"chargeable" yaml:"chargeable"`
	Refundable        []EventAmountDTO `json:"refundable" yaml:"refundable"`
	Reservable        []ReservableDTO  `json:"reservable" yaml:"reservable"`
}

// FromSummary renders a reconciliation summary. Reservable entries are sorted by instrument GUID.
func FromSummary(s history.Summary) SummaryDTO {
	out := SummaryDTO{
		Currency:          s.Currency,
		AvailableReserved: s.AvailableReserved.Amount.String(),
		Charged:           s.Charged.Amount.String(),
		Refunded:          s.Refunded.Amount.String(),
		Chargeable:        fromEventAmounts(s.Chargeable),
		Refundable:        fromEventAmounts(s.Refundable),
		Reservable:        make([]ReservableDTO, 0, len(s.Reservable)),
	}

	for guid, m := range s.Reservable {
		out.Reservable = append(out.Reservable, ReservableDTO{
			InstrumentGUID: guid,
			Amount:         m.Amount.String(),
			Currency:       m.Currency,
		})
	}
	sort.Slice(out.Reservable, func(i, j int) bool {
		return out.Reservable[i].InstrumentGUID < out.Reservable[j].InstrumentGUID
	})
	return out
}

func fromEventAmounts(pairs []history.EventAmount) []EventAmountDTO {
	out := make([]EventAmountDTO, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, EventAmountDTO{
			EventGUID: p.Event.GUID,
			Type:      string(p.Event.Type),
			Amount:    p.Amount.Amount.String(),
		})
	}
	return out
}
