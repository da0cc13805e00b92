package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/trade"
)

func newTestOrder(t *testing.T, companyID, retailerID uuid.UUID, qty int64) *trade.Order {
	t.Helper()
	o, err := trade.NewOrder(companyID, retailerID, []trade.OrderLine{
		{ProductID: uuid.New(), ProductName: "Biscuits", Quantity: qty, UnitPrice: decimal.NewFromInt(25)},
		{ProductID: uuid.New(), ProductName: "Crisps", Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	return o
}

func TestGormOrderRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	retailerA, retailerB := uuid.New(), uuid.New()

	first := newTestOrder(t, companyID, retailerA, 4)
	second := newTestOrder(t, companyID, retailerB, 2)
	foreign := newTestOrder(t, uuid.New(), retailerA, 1)
	for _, o := range []*trade.Order{first, second, foreign} {
		require.NoError(t, repo.Save(ctx, o))
	}

	t.Run("loads items with the order", func(t *testing.T) {
		found, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Len(t, found.Items, 2)
		assert.True(t, decimal.NewFromInt(110).Equal(found.TotalAmount))
		assert.Equal(t, trade.OrderStatusPending, found.Status)
	})

	t.Run("status change keeps items", func(t *testing.T) {
		found, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		changed, err := found.ChangeStatus(trade.OrderStatusConfirmed)
		require.NoError(t, err)
		require.True(t, changed)
		require.NoError(t, repo.Save(ctx, found))

		reloaded, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.OrderStatusConfirmed, reloaded.Status)
		assert.Len(t, reloaded.Items, 2)
		assert.Equal(t, found.Version, reloaded.Version)
	})

	t.Run("stale copy conflicts", func(t *testing.T) {
		_, err := first.ChangeStatus(trade.OrderStatusCancelled)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, first), shared.ErrConcurrencyConflict)
	})

	t.Run("filters by retailer set and status", func(t *testing.T) {
		found, err := repo.FindAll(ctx, shared.Filter{}.
			With("company_id", companyID).
			With("retailer_id", []uuid.UUID{retailerA, retailerB}).
			With("status", trade.OrderStatusPending))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, second.ID, found[0].ID)

		found, err = repo.FindAll(ctx, shared.Filter{}.With("retailer_id", []uuid.UUID{}))
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("finds by retailer ids", func(t *testing.T) {
		found, err := repo.FindByRetailerIDs(ctx, []uuid.UUID{retailerA})
		require.NoError(t, err)
		assert.Len(t, found, 2)
		for _, o := range found {
			assert.NotEmpty(t, o.Items)
		}
	})

	t.Run("counts by status", func(t *testing.T) {
		counts, err := repo.CountByStatus(ctx, &companyID)
		require.NoError(t, err)
		assert.Equal(t, map[trade.OrderStatus]int64{
			trade.OrderStatusPending:   1,
			trade.OrderStatusConfirmed: 1,
		}, counts)

		all, err := repo.CountByStatus(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), all[trade.OrderStatusPending])

		total, err := repo.Count(ctx, shared.Filter{}.With("company_id", companyID))
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
