package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/history"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/interfaces/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const ledgerYAML = `
events:
  - guid: r1
    type: RESERVE
    status: APPROVED
    amount: "100.00"
    currency: CAD
    date: 2026-05-01T10:00:00Z
    instrument:
      guid: opi-1
      limit: "250"
      currency: CAD
  - guid: c1
    parent_guid: r1
    type: CHARGE
    status: APPROVED
    amount: "40"
    currency: CAD
    date: 2026-05-01T10:05:00Z
    instrument:
      guid: opi-1
      limit: "250"
      currency: CAD
instruments:
  - guid: opi-1
    limit: "250"
    currency: CAD
`

func TestLedgerDTO_FromYAML(t *testing.T) {
	var ledger dto.LedgerDTO
	require.NoError(t, yaml.Unmarshal([]byte(ledgerYAML), &ledger))

	events, instruments, err := ledger.ToDomain()
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Len(t, instruments, 1)

	assert.Equal(t, domain.TypeCharge, events[1].Type)
	assert.Equal(t, "r1", events[1].ParentGUID)
	assert.True(t, time.Date(2026, time.May, 1, 10, 5, 0, 0, time.UTC).Equal(events[1].Date))
	require.NotNil(t, events[0].Instrument)
	assert.Equal(t, "opi-1", events[0].Instrument.GUID)

	summary, err := history.New().Reconcile(events, instruments)
	require.NoError(t, err)
	out := dto.FromSummary(summary)
	assert.Equal(t, "40", out.Charged)
	require.Len(t, out.Reservable, 1)
	assert.Equal(t, "210", out.Reservable[0].Amount)
}

func TestEventDTO_ToDomain(t *testing.T) {
	t.Run("generates a guid when absent", func(t *testing.T) {
		event, err := dto.EventDTO{Type: "RESERVE", Status: "APPROVED", Amount: "5", Currency: "CAD"}.ToDomain()

		require.NoError(t, err)
		assert.NotEmpty(t, event.GUID)
	})

	t.Run("unknown transaction type", func(t *testing.T) {
		_, err := dto.EventDTO{GUID: "e1", Type: "PAYOUT", Status: "APPROVED", Amount: "5", Currency: "CAD"}.ToDomain()

		assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
	})

	t.Run("malformed amount", func(t *testing.T) {
		_, err := dto.EventDTO{GUID: "e1", Type: "RESERVE", Status: "APPROVED", Amount: "5,00", Currency: "CAD"}.ToDomain()

		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}

func TestFromSummary_JSONShape(t *testing.T) {
	events := []domain.PaymentEvent{}
	summary, err := history.New().Reconcile(events, []domain.OrderPaymentInstrument{
		{GUID: "b", Limit: domain.Zero("CAD")},
		{GUID: "a", Limit: domain.Zero("CAD")},
	})
	require.NoError(t, err)

	raw, err := json.Marshal(dto.FromSummary(summary))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"currency": "",
		"available_reserved": "0",
		"charged": "0",
		"refunded": "0",
		"chargeable": [],
		"refundable": [],
		"reservable": [
			{"instrument_guid": "a", "amount": "0", "currency": "CAD"},
			{"instrument_guid": "b", "amount": "0", "currency": "CAD"}
		]
	}`, string(raw))
}
