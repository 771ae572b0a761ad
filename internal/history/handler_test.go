package history_test

import (
	"testing"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHandlers(t *testing.T) {
	handlers := history.DefaultHandlers()

	for _, txType := range domain.TransactionTypes {
		assert.Contains(t, handlers, txType, "missing handler for %s", txType)
	}
	assert.Equal(t, handlers[domain.TypeCredit], handlers[domain.TypeManualCredit])
}

func TestReserveHandler(t *testing.T) {
	h := history.ReserveHandler{}

	t.Run("approved sets available", func(t *testing.T) {
		r := reserve(100)

		next, err := h.Accumulate(history.NewGroupState(currency), r)

		require.NoError(t, err)
		assertMoney(t, 100, next.Available)
		assert.Equal(t, r.GUID, next.CurrentEvent.GUID)
	})

	t.Run("failed records the event and clears balances", func(t *testing.T) {
		r := event(nil, domain.TypeReserve, domain.StatusFailed, 100)

		next, err := h.Accumulate(history.NewGroupState(currency), r)

		require.NoError(t, err)
		assertMoney(t, 0, next.Available)
		assertMoney(t, 0, next.Charged)
		assert.Equal(t, r.GUID, next.CurrentEvent.GUID)
	})
}

func TestChargeHandler(t *testing.T) {
	h := history.ChargeHandler{}
	r := reserve(100)
	reserved, err := history.ReserveHandler{}.Accumulate(history.NewGroupState(currency), r)
	require.NoError(t, err)

	t.Run("approved charge moves funds", func(t *testing.T) {
		c := approved(r, domain.TypeCharge, 70)

		next, err := h.Accumulate(reserved, c)

		require.NoError(t, err)
		assertMoney(t, 0, next.Available)
		assertMoney(t, 70, next.Charged)
		assert.Equal(t, c.GUID, next.CurrentEvent.GUID)
	})

	t.Run("failed charge still consumes the reservation", func(t *testing.T) {
		c := failed(r, domain.TypeCharge, 70)

		next, err := h.Accumulate(reserved, c)

		require.NoError(t, err)
		assertMoney(t, 0, next.Available)
		assertMoney(t, 0, next.Charged)
		assert.Equal(t, c.GUID, next.CurrentEvent.GUID)
	})

	t.Run("charge above available", func(t *testing.T) {
		_, err := h.Accumulate(reserved, approved(r, domain.TypeCharge, 101))

		assert.ErrorIs(t, err, domain.ErrInsufficientAvailable)
	})

	t.Run("input state is untouched", func(t *testing.T) {
		_, err := h.Accumulate(reserved, approved(r, domain.TypeCharge, 50))

		require.NoError(t, err)
		assertMoney(t, 100, reserved.Available)
		assertMoney(t, 0, reserved.Charged)
		assert.Equal(t, r.GUID, reserved.CurrentEvent.GUID)
	})
}

func TestFailedEventAsymmetry(t *testing.T) {
	r := reserve(100)
	c := approved(r, domain.TypeCharge, 100)
	state := history.NewGroupState(currency)
	state, err := history.ReserveHandler{}.Accumulate(state, r)
	require.NoError(t, err)
	state, err = history.ChargeHandler{}.Accumulate(state, c)
	require.NoError(t, err)

	tests := []struct {
		name    string
		handler history.EventHandler
		txType  domain.TransactionType
	}{
		{name: "credit", handler: history.CreditHandler{}, txType: domain.TypeCredit},
		{name: "manual credit", handler: history.CreditHandler{}, txType: domain.TypeManualCredit},
		{name: "reverse charge", handler: history.ReverseChargeHandler{}, txType: domain.TypeReverseCharge},
	}

	for _, tt := range tests {
		t.Run(tt.name+" failed is a no-op", func(t *testing.T) {
			next, err := tt.handler.Accumulate(state, failed(c, tt.txType, 500))

			require.NoError(t, err)
			assert.Equal(t, state, next)
		})

		t.Run(tt.name+" approved keeps the charge as current event", func(t *testing.T) {
			next, err := tt.handler.Accumulate(state, approved(c, tt.txType, 10))

			require.NoError(t, err)
			assert.Equal(t, c.GUID, next.CurrentEvent.GUID)
		})
	}

	t.Run("cancel never records itself", func(t *testing.T) {
		reserved, err := history.ReserveHandler{}.Accumulate(history.NewGroupState(currency), r)
		require.NoError(t, err)

		for _, status := range []domain.PaymentStatus{domain.StatusApproved, domain.StatusFailed} {
			next, err := history.CancelReserveHandler{}.Accumulate(reserved, event(&r, domain.TypeCancelReserve, status, 100))

			require.NoError(t, err)
			assertMoney(t, 0, next.Available)
			assert.Equal(t, r.GUID, next.CurrentEvent.GUID)
		}
	})
}

func TestReverseChargeHandler(t *testing.T) {
	h := history.ReverseChargeHandler{}
	r := reserve(100)
	c := approved(r, domain.TypeCharge, 100)
	state, err := history.ReserveHandler{}.Accumulate(history.NewGroupState(currency), r)
	require.NoError(t, err)
	state, err = history.ChargeHandler{}.Accumulate(state, c)
	require.NoError(t, err)

	t.Run("accumulates reversals", func(t *testing.T) {
		next, err := h.Accumulate(state, approved(c, domain.TypeReverseCharge, 40))
		require.NoError(t, err)

		assertMoney(t, 40, next.ReverseCharged)
		net, err := next.NetCharged()
		require.NoError(t, err)
		assertMoney(t, 60, net)
	})

	t.Run("nothing charged", func(t *testing.T) {
		_, err := h.Accumulate(history.NewGroupState(currency), approved(c, domain.TypeReverseCharge, 1))

		assert.ErrorIs(t, err, domain.ErrInsufficientCharged)
	})

	t.Run("above remaining charge", func(t *testing.T) {
		next, err := h.Accumulate(state, approved(c, domain.TypeReverseCharge, 80))
		require.NoError(t, err)

		_, err = h.Accumulate(next, approved(c, domain.TypeReverseCharge, 30))

		assert.ErrorIs(t, err, domain.ErrInsufficientCharged)
	})
}

func TestCreditHandler(t *testing.T) {
	h := history.CreditHandler{}
	r := reserve(100)
	c := approved(r, domain.TypeCharge, 100)
	state, err := history.ReserveHandler{}.Accumulate(history.NewGroupState(currency), r)
	require.NoError(t, err)
	state, err = history.ChargeHandler{}.Accumulate(state, c)
	require.NoError(t, err)

	t.Run("refunds up to the charged amount", func(t *testing.T) {
		next, err := h.Accumulate(state, approved(c, domain.TypeCredit, 100))
		require.NoError(t, err)

		assertMoney(t, 100, next.Refunded)
		assertMoney(t, 100, next.Charged)
		balance, err := next.Refundable()
		require.NoError(t, err)
		assertMoney(t, 0, balance)
	})

	t.Run("above charged amount", func(t *testing.T) {
		_, err := h.Accumulate(state, approved(c, domain.TypeCredit, 101))

		assert.ErrorIs(t, err, domain.ErrInsufficientCharged)
	})
}

func TestGroupState_Outstanding(t *testing.T) {
	state := history.NewGroupState(currency)
	state.Available = money(20)
	state.Charged = money(50)
	state.ReverseCharged = money(10)
	state.Refunded = money(5)

	outstanding, err := state.Outstanding()
	require.NoError(t, err)
	assertMoney(t, 60, outstanding)

	refundable, err := state.Refundable()
	require.NoError(t, err)
	assertMoney(t, 35, refundable)

	state.ReverseCharged = money(70)
	net, err := state.NetCharged()
	require.NoError(t, err)
	assertMoney(t, 0, net)
}
