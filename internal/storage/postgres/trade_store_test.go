package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gaspava/traderlar-community-sub000/internal/domain"
	"github.com/Gaspava/traderlar-community-sub000/internal/observability"
	"github.com/Gaspava/traderlar-community-sub000/internal/storage"
	pgstore "github.com/Gaspava/traderlar-community-sub000/internal/storage/postgres"
)

func createTestTrade(id, symbol string, net float64, closeAt time.Time) *domain.Trade {
	openAt := closeAt.Add(-2 * time.Hour)
	return &domain.Trade{
		ID:              id,
		Ticket:          "tk-" + id,
		Symbol:          symbol,
		Direction:       domain.DirectionBuy,
		Size:            0.5,
		OpenPrice:       1.1000,
		ClosePrice:      1.1050,
		StopLoss:        ptr(1.0950),
		TakeProfit:      ptr(1.1100),
		OpenTime:        openAt,
		CloseTime:       &closeAt,
		Profit:          net,
		Commission:      -0.5,
		Swap:            -0.1,
		DurationMinutes: ptr(120.0),
	}
}

func TestTradeStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := pgstore.NewTradeStore(pool)

	closeAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	trade := createTestTrade("trade-001", "EURUSD", 25.0, closeAt)

	err := store.Insert(ctx, trade)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, "trade-001")
	require.NoError(t, err)

	assert.Equal(t, trade.ID, retrieved.ID)
	assert.Equal(t, trade.Ticket, retrieved.Ticket)
	assert.Equal(t, trade.Symbol, retrieved.Symbol)
	assert.Equal(t, trade.Direction, retrieved.Direction)
	assert.InDelta(t, trade.Size, retrieved.Size, 0.0001)
	assert.InDelta(t, trade.OpenPrice, retrieved.OpenPrice, 0.0001)
	assert.InDelta(t, trade.ClosePrice, retrieved.ClosePrice, 0.0001)
	require.NotNil(t, retrieved.StopLoss)
	assert.InDelta(t, *trade.StopLoss, *retrieved.StopLoss, 0.0001)
	require.NotNil(t, retrieved.CloseTime)
	assert.True(t, trade.CloseTime.Equal(*retrieved.CloseTime))
	assert.InDelta(t, trade.Profit, retrieved.Profit, 0.0001)
	assert.InDelta(t, trade.Commission, retrieved.Commission, 0.0001)
	assert.InDelta(t, trade.Swap, retrieved.Swap, 0.0001)
	require.NotNil(t, retrieved.DurationMinutes)
	assert.InDelta(t, *trade.DurationMinutes, *retrieved.DurationMinutes, 0.0001)

	// Both calls went through the query telemetry.
	assert.Greater(t, testutil.CollectAndCount(observability.DefaultMetrics.DBQueryDuration), 0)
}

func TestTradeStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := pgstore.NewTradeStore(pool)

	closeAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	trade := createTestTrade("trade-dup", "EURUSD", 25.0, closeAt)

	require.NoError(t, store.Insert(ctx, trade))
	err := store.Insert(ctx, trade)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestTradeStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := pgstore.NewTradeStore(pool)

	_, err := store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTradeStore_InsertBulkAtomic(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := pgstore.NewTradeStore(pool)

	closeAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	batch := []*domain.Trade{
		createTestTrade("bulk-1", "EURUSD", 10, closeAt),
		createTestTrade("bulk-2", "EURUSD", -5, closeAt.Add(time.Hour)),
		createTestTrade("bulk-1", "EURUSD", 10, closeAt.Add(2*time.Hour)),
	}

	err := store.InsertBulk(ctx, batch)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// The whole batch must have rolled back.
	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTradeStore_GetAllOrdered(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := pgstore.NewTradeStore(pool)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.InsertBulk(ctx, []*domain.Trade{
		createTestTrade("late", "EURUSD", 10, base.Add(48*time.Hour)),
		createTestTrade("early", "EURUSD", 10, base),
		createTestTrade("mid", "XAUUSD", -5, base.Add(24*time.Hour)),
	}))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "early", all[0].ID)
	assert.Equal(t, "mid", all[1].ID)
	assert.Equal(t, "late", all[2].ID)
}

func TestTradeStore_GetBySymbol(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := pgstore.NewTradeStore(pool)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.InsertBulk(ctx, []*domain.Trade{
		createTestTrade("e1", "EURUSD", 10, base),
		createTestTrade("g1", "XAUUSD", -5, base.Add(time.Hour)),
		createTestTrade("e2", "EURUSD", 5, base.Add(2*time.Hour)),
	}))

	got, err := store.GetBySymbol(ctx, "EURUSD")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, "e2", got[1].ID)
}

func TestTradeStore_GetByTimeRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := pgstore.NewTradeStore(pool)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.InsertBulk(ctx, []*domain.Trade{
		createTestTrade("before", "EURUSD", 10, base),
		createTestTrade("inside", "EURUSD", 10, base.Add(24*time.Hour)),
		createTestTrade("after", "EURUSD", 10, base.Add(72*time.Hour)),
	}))

	got, err := store.GetByTimeRange(ctx, base.Add(12*time.Hour), base.Add(48*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "inside", got[0].ID)
}
