// internal/services/stock_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
)

func newStoreItem(t *testing.T, s *StockService, quantity int) *models.Item {
	t.Helper()

	seller := createTestUser(t, s.db, "grocer-"+uuid.NewString()[:8])
	return createTestItem(t, s.db, seller, func(i *models.Item) {
		i.IsFree = false
		i.Price = 3.50
		i.IsStoreItem = true
		i.Quantity = quantity
		i.StockStatus = models.StockStatusForQuantity(quantity)
	})
}

func TestDecrementStock(t *testing.T) {
	svc := NewStockService(newTestDB(t))
	item := newStoreItem(t, svc, 10)

	updated, err := svc.DecrementStock(item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)
	assert.Equal(t, models.StockStatusInStock, updated.StockStatus)

	updated, err = svc.DecrementStock(item.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)
	assert.Equal(t, models.StockStatusLowStock, updated.StockStatus)

	updated, err = svc.DecrementStock(item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)
	assert.Equal(t, models.StockStatusOutOfStock, updated.StockStatus)
}

func TestDecrementStockInsufficient(t *testing.T) {
	svc := NewStockService(newTestDB(t))
	item := newStoreItem(t, svc, 2)

	_, err := svc.DecrementStock(item.ID, 3)
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.ErrorIs(t, err, ErrConflict)

	// The failed decrement must not have touched the row.
	var reloaded models.Item
	require.NoError(t, svc.db.First(&reloaded, "id = ?", item.ID).Error)
	assert.Equal(t, 2, reloaded.Quantity)
	assert.Equal(t, models.StockStatusLowStock, reloaded.StockStatus)
}

func TestIncrementStockRestores(t *testing.T) {
	svc := NewStockService(newTestDB(t))
	item := newStoreItem(t, svc, 3)

	_, err := svc.DecrementStock(item.ID, 3)
	require.NoError(t, err)

	updated, err := svc.IncrementStock(item.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Quantity)
	assert.Equal(t, models.StockStatusInStock, updated.StockStatus)
}

func TestStockUnknownItem(t *testing.T) {
	svc := NewStockService(newTestDB(t))

	_, err := svc.DecrementStock(uuid.New(), 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestStockNonStoreItemNoOp(t *testing.T) {
	db := newTestDB(t)
	svc := NewStockService(db)
	owner := createTestUser(t, db, "neighbor")
	item := createTestItem(t, db, owner)

	updated, err := svc.DecrementStock(item.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)
	assert.False(t, updated.IsStoreItem)
}

func TestStockRejectsNonPositiveQuantity(t *testing.T) {
	svc := NewStockService(newTestDB(t))
	item := newStoreItem(t, svc, 5)

	_, err := svc.DecrementStock(item.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.IncrementStock(item.ID, -2)
	assert.ErrorIs(t, err, ErrValidation)
}
