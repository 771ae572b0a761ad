package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-payment-ledger/db"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/application"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/application/services"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/infrastructure/persistence/postgres/testhelpers"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type EventRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDatabase
	repo   *postgres.EventRepository
}

func TestEventRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(EventRepositoryTestSuite))
}

func (suite *EventRepositoryTestSuite) SetupSuite() {
	suite.testDB = testhelpers.SetupTestDatabase(suite.T())
	suite.repo = postgres.NewEventRepository(suite.testDB.DB)
}

func (suite *EventRepositoryTestSuite) TearDownSuite() {
	suite.testDB.Cleanup(suite.T())
}

func (suite *EventRepositoryTestSuite) TearDownTest() {
	suite.testDB.CleanTables(suite.T())
}

func newOrderID() string {
	return "order-" + uuid.NewString()
}

func usd(amount string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(amount), "USD")
}

func newEvent(parent string, txType domain.TransactionType, amount string, date time.Time) domain.PaymentEvent {
	return domain.PaymentEvent{
		GUID:       "evt-" + uuid.NewString(),
		ParentGUID: parent,
		Type:       txType,
		Status:     domain.StatusApproved,
		Amount:     usd(amount),
		Date:       date,
	}
}

// ============================================================================
// REPOSITORY TESTS
// ============================================================================

func (suite *EventRepositoryTestSuite) Test_AppendEvent_RoundTrip() {
	ctx := context.Background()
	t := suite.T()
	orderID := newOrderID()
	date := time.Date(2026, time.April, 2, 10, 30, 0, 0, time.UTC)

	reserve := newEvent("", domain.TypeReserve, "125.50", date)
	reserve.Instrument = &domain.OrderPaymentInstrument{GUID: "opi-1", Limit: usd("500")}
	charge := newEvent(reserve.GUID, domain.TypeCharge, "100", date.Add(time.Minute))
	charge.Status = domain.StatusFailed

	require.NoError(t, suite.repo.AppendEvent(ctx, orderID, reserve))
	require.NoError(t, suite.repo.AppendEvent(ctx, orderID, charge))

	events, err := suite.repo.FindEventsByOrderID(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, reserve.GUID, events[0].GUID)
	assert.Empty(t, events[0].ParentGUID)
	assert.True(t, usd("125.50").Equal(events[0].Amount))
	assert.True(t, date.Equal(events[0].Date))
	require.NotNil(t, events[0].Instrument)
	assert.Equal(t, "opi-1", events[0].Instrument.GUID)
	assert.True(t, usd("500").Equal(events[0].Instrument.Limit))

	assert.Equal(t, reserve.GUID, events[1].ParentGUID)
	assert.Equal(t, domain.TypeCharge, events[1].Type)
	assert.Equal(t, domain.StatusFailed, events[1].Status)
	assert.Nil(t, events[1].Instrument)
}

func (suite *EventRepositoryTestSuite) Test_AppendEvent_Duplicate() {
	ctx := context.Background()
	t := suite.T()
	event := newEvent("", domain.TypeReserve, "10", time.Now())

	require.NoError(t, suite.repo.AppendEvent(ctx, newOrderID(), event))
	err := suite.repo.AppendEvent(ctx, newOrderID(), event)

	assert.ErrorIs(t, err, domain.ErrDuplicateEvent)
}

func (suite *EventRepositoryTestSuite) Test_FindEventByGUID() {
	ctx := context.Background()
	t := suite.T()
	orderID := newOrderID()
	event := newEvent("", domain.TypeReserve, "10", time.Time{})
	require.NoError(t, suite.repo.AppendEvent(ctx, orderID, event))

	found, foundOrder, err := suite.repo.FindEventByGUID(ctx, event.GUID)
	require.NoError(t, err)
	assert.Equal(t, orderID, foundOrder)
	assert.True(t, found.Date.IsZero())

	_, _, err = suite.repo.FindEventByGUID(ctx, "evt-missing")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func (suite *EventRepositoryTestSuite) Test_SaveInstrument_Upserts() {
	ctx := context.Background()
	t := suite.T()
	orderID := newOrderID()

	require.NoError(t, suite.repo.SaveInstrument(ctx, orderID, domain.OrderPaymentInstrument{GUID: "opi-1", Limit: usd("100")}))
	require.NoError(t, suite.repo.SaveInstrument(ctx, orderID, domain.OrderPaymentInstrument{GUID: "opi-1", Limit: usd("150")}))
	require.NoError(t, suite.repo.SaveInstrument(ctx, newOrderID(), domain.OrderPaymentInstrument{GUID: "opi-1", Limit: usd("5")}))

	instruments, err := suite.repo.FindInstrumentsByOrderID(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, instruments, 1)
	assert.True(t, usd("150").Equal(instruments[0].Limit))
}

func (suite *EventRepositoryTestSuite) Test_FindOrdersWithEventsSince() {
	ctx := context.Background()
	t := suite.T()
	since := time.Now().Add(-time.Minute)
	first, second := newOrderID(), newOrderID()

	require.NoError(t, suite.repo.AppendEvent(ctx, first, newEvent("", domain.TypeReserve, "1", time.Now())))
	require.NoError(t, suite.repo.AppendEvent(ctx, second, newEvent("", domain.TypeReserve, "1", time.Now())))
	require.NoError(t, suite.repo.AppendEvent(ctx, second, newEvent("", domain.TypeReserve, "1", time.Now())))

	activity, err := suite.repo.FindOrdersWithEventsSince(ctx, since, 10)
	require.NoError(t, err)
	require.Len(t, activity, 2)
	assert.ElementsMatch(t, []string{first, second}, []string{activity[0].OrderID, activity[1].OrderID})

	limited, err := suite.repo.FindOrdersWithEventsSince(ctx, since, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := suite.repo.FindOrdersWithEventsSince(ctx, activity[1].LastRecordedAt, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func (suite *EventRepositoryTestSuite) Test_WithOrderLock_RollsBackOnError() {
	ctx := context.Background()
	t := suite.T()
	orderID := newOrderID()

	err := suite.repo.WithOrderLock(ctx, orderID, func(ctx context.Context, repo application.LedgerRepository) error {
		require.NoError(t, repo.AppendEvent(ctx, orderID, newEvent("", domain.TypeReserve, "1", time.Now())))
		return domain.ErrIllegalSequence
	})
	assert.ErrorIs(t, err, domain.ErrIllegalSequence)

	events, err := suite.repo.FindEventsByOrderID(ctx, orderID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func (suite *EventRepositoryTestSuite) Test_Migrate_IsIdempotent() {
	ctx := context.Background()
	t := suite.T()

	applied, err := suite.testDB.DB.Migrate(ctx, db.Migrations, "migrations")
	require.NoError(t, err)
	assert.Empty(t, applied)

	var versions []string
	rows, err := suite.testDB.DB.Pool.Query(ctx, `SELECT version FROM schema_migrations ORDER BY version`)
	require.NoError(t, err)
	for rows.Next() {
		var v string
		require.NoError(t, rows.Scan(&v))
		versions = append(versions, v)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"001_init"}, versions)

	assert.NoError(t, suite.testDB.DB.Ping(ctx))
}

// ============================================================================
// SERVICE INTEGRATION
// ============================================================================

func (suite *EventRepositoryTestSuite) Test_LedgerService_ConcurrentChargesOnOneReservation() {
	ctx := context.Background()
	t := suite.T()
	orderID := newOrderID()
	svc := services.NewLedgerService(suite.repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	now := time.Now().UTC()

	reserve := newEvent("", domain.TypeReserve, "100", now)
	_, err := svc.RecordEvent(ctx, orderID, reserve)
	require.NoError(t, err)

	const attempts = 5
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			charge := newEvent(reserve.GUID, domain.TypeCharge, "60", now.Add(time.Duration(i+1)*time.Second))
			_, errs[i] = svc.RecordEvent(ctx, orderID, charge)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrIllegalSequence)
	}
	assert.Equal(t, 1, succeeded)

	summary, err := svc.Summary(ctx, orderID)
	require.NoError(t, err)
	assert.True(t, usd("60").Equal(summary.Charged))
	assert.True(t, summary.AvailableReserved.IsZero())
}
