package postgres

import (
	"time"
)

// PaymentEventModel is a payment_events row. Amounts travel as text so
// NUMERIC values keep their exact scale.
type PaymentEventModel struct {
	Seq                int64
	GUID               string
	OrderID            string
	ParentGUID         *string
	TransactionType    string
	Status             string
	Amount             string
	Currency           string
	EventDate          *time.Time
	InstrumentGUID     *string
	InstrumentLimit    *string
	InstrumentCurrency *string
	RecordedAt         time.Time
}

// InstrumentModel is an order_payment_instruments row.
type InstrumentModel struct {
	OrderID     string
	GUID        string
	LimitAmount string
	Currency    string
}
