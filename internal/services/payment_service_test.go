// internal/services/payment_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradeepthalla80/grocery-share-backend/internal/config"
	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
)

func newPaymentFixture(t *testing.T) (*PaymentService, *models.User, *models.User) {
	t.Helper()

	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.Payment.PlatformFeePercent = 5

	svc := NewPaymentService(db, cfg, NewStockService(db), nil)
	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")

	return svc, buyer, seller
}

func TestCreateOrderGuards(t *testing.T) {
	svc, buyer, seller := newPaymentFixture(t)

	free := createTestItem(t, svc.db, seller)
	_, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{ItemID: free.ID})
	assert.ErrorIs(t, err, ErrValidation)

	paid := createTestItem(t, svc.db, seller, func(i *models.Item) {
		i.IsFree = false
		i.Price = 4.50
	})

	_, err = svc.CreateOrder(seller.ID, &CreateOrderRequest{ItemID: paid.ID})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.db.Model(&models.Item{}).
		Where("id = ?", paid.ID).
		Update("status", models.ItemStatusSold).Error)

	_, err = svc.CreateOrder(buyer.ID, &CreateOrderRequest{ItemID: paid.ID})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateOrderStoreStockGuard(t *testing.T) {
	svc, buyer, seller := newPaymentFixture(t)

	item := createTestItem(t, svc.db, seller, func(i *models.Item) {
		i.IsFree = false
		i.Price = 2.00
		i.IsStoreItem = true
		i.Quantity = 2
		i.StockStatus = models.StockStatusLowStock
	})

	_, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{ItemID: item.ID, Quantity: 3})
	assert.ErrorIs(t, err, ErrOutOfStock)

	// The failed order must not have consumed stock.
	var reloaded models.Item
	require.NoError(t, svc.db.First(&reloaded, "id = ?", item.ID).Error)
	assert.Equal(t, 2, reloaded.Quantity)
}

func TestReleaseReservation(t *testing.T) {
	svc, buyer, seller := newPaymentFixture(t)

	// One-off item reserved as sold comes back as available.
	oneOff := createTestItem(t, svc.db, seller, func(i *models.Item) {
		i.IsFree = false
		i.Price = 4.50
		i.Status = models.ItemStatusSold
		i.IsActive = false
	})
	svc.releaseReservation(&models.Order{
		BuyerID:  buyer.ID,
		SellerID: seller.ID,
		ItemID:   oneOff.ID,
		Quantity: 1,
		Status:   models.OrderStatusFailed,
	})

	var item models.Item
	require.NoError(t, svc.db.First(&item, "id = ?", oneOff.ID).Error)
	assert.Equal(t, models.ItemStatusAvailable, item.Status)
	assert.True(t, item.IsActive)

	// Store items get their quantity back.
	store := createTestItem(t, svc.db, seller, func(i *models.Item) {
		i.IsFree = false
		i.Price = 2.00
		i.IsStoreItem = true
		i.Quantity = 1
		i.StockStatus = models.StockStatusLowStock
	})
	svc.releaseReservation(&models.Order{
		BuyerID:  buyer.ID,
		SellerID: seller.ID,
		ItemID:   store.ID,
		Quantity: 3,
		Status:   models.OrderStatusRefunded,
	})

	require.NoError(t, svc.db.First(&item, "id = ?", store.ID).Error)
	assert.Equal(t, 4, item.Quantity)
	assert.Equal(t, models.StockStatusLowStock, item.StockStatus)
}

func TestGetOrderPartyOnly(t *testing.T) {
	svc, buyer, seller := newPaymentFixture(t)
	stranger := createTestUser(t, svc.db, "stranger")

	item := createTestItem(t, svc.db, seller, func(i *models.Item) {
		i.IsFree = false
		i.Price = 4.50
	})
	order := &models.Order{
		BuyerID:  buyer.ID,
		SellerID: seller.ID,
		ItemID:   item.ID,
		Quantity: 1,
		Amount:   4.50,
		Status:   models.OrderStatusCompleted,
	}
	require.NoError(t, svc.db.Create(order).Error)

	_, err := svc.GetOrder(order.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	found, err := svc.GetOrder(order.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	history, total, err := svc.GetOrderHistory(seller.ID, testPagination())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, history, 1)
}
