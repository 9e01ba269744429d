// internal/services/item_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
)

func newItemFixture(t *testing.T) (*ItemService, *models.User) {
	t.Helper()

	db := newTestDB(t)
	svc := NewItemService(db, NewStockService(db), nil)
	owner := createTestUser(t, db, "owner")

	return svc, owner
}

func createItemRequest() *CreateItemRequest {
	return &CreateItemRequest{
		Title:         "Garden tomatoes",
		Description:   "More than the family can eat this week",
		Category:      "produce",
		IsFree:        true,
		PickupAddress: "12 Elm Street",
		Latitude:      40.7128,
		Longitude:     -74.0060,
	}
}

func TestCreateItem(t *testing.T) {
	svc, owner := newItemFixture(t)

	item, err := svc.CreateItem(owner.ID, createItemRequest())
	require.NoError(t, err)
	assert.Equal(t, owner.ID, item.OwnerID)
	assert.True(t, item.IsFree)
	assert.Equal(t, models.ItemStatusAvailable, item.Status)
	assert.True(t, item.IsActive)
}

func TestCreateStoreItemRequiresSellerFlag(t *testing.T) {
	svc, owner := newItemFixture(t)

	req := createItemRequest()
	req.IsFree = false
	req.Price = 2.00
	req.IsStoreItem = true
	req.Quantity = 20

	_, err := svc.CreateItem(owner.ID, req)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.db.Model(&models.User{}).
		Where("id = ?", owner.ID).
		Update("is_store_seller", true).Error)

	item, err := svc.CreateItem(owner.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 20, item.Quantity)
	assert.Equal(t, models.StockStatusInStock, item.StockStatus)
}

func TestCreateItemSuspendedOwner(t *testing.T) {
	svc, owner := newItemFixture(t)

	require.NoError(t, svc.db.Model(&models.User{}).
		Where("id = ?", owner.ID).
		Update("status", models.UserStatusSuspended).Error)

	_, err := svc.CreateItem(owner.ID, createItemRequest())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetItemHidesInactiveFromOthers(t *testing.T) {
	svc, owner := newItemFixture(t)
	viewer := createTestUser(t, svc.db, "viewer")

	item := createTestItem(t, svc.db, owner, func(i *models.Item) {
		i.IsActive = false
	})

	_, err := svc.GetItem(item.ID, &viewer.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = svc.GetItem(item.ID, nil)
	assert.ErrorIs(t, err, ErrItemNotFound)

	found, err := svc.GetItem(item.ID, &owner.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
}

func TestUpdateItemOwnerOnly(t *testing.T) {
	svc, owner := newItemFixture(t)
	other := createTestUser(t, svc.db, "other")
	item := createTestItem(t, svc.db, owner)

	_, err := svc.UpdateItem(item.ID, other.ID, &UpdateItemRequest{Title: "New title"})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.UpdateItem(item.ID, owner.ID, &UpdateItemRequest{Title: "Rye loaf"})
	require.NoError(t, err)
	assert.Equal(t, "Rye loaf", updated.Title)
}

func TestNearbyItemsRadiusAndOrder(t *testing.T) {
	svc, owner := newItemFixture(t)

	// Roughly 0km, 1km and 111km from the search origin.
	createTestItem(t, svc.db, owner, func(i *models.Item) { i.Title = "Here" })
	createTestItem(t, svc.db, owner, func(i *models.Item) {
		i.Title = "Close"
		i.Latitude = owner.Latitude + 0.009
	})
	createTestItem(t, svc.db, owner, func(i *models.Item) {
		i.Title = "Far"
		i.Latitude = owner.Latitude + 1.0
	})

	results, total, err := svc.NearbyItems(NearbySearchParams{
		PaginationParams: testPagination(),
		Latitude:         owner.Latitude,
		Longitude:        owner.Longitude,
		RadiusKm:         5,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, results, 2)
	assert.Equal(t, "Here", results[0].Title)
	assert.Equal(t, "Close", results[1].Title)
	assert.Less(t, results[0].DistanceKm, results[1].DistanceKm)
	assert.InDelta(t, 1.0, results[1].DistanceKm, 0.1)
}

func TestNearbyItemsSkipsInactive(t *testing.T) {
	svc, owner := newItemFixture(t)

	createTestItem(t, svc.db, owner, func(i *models.Item) { i.IsActive = false })
	createTestItem(t, svc.db, owner, func(i *models.Item) { i.Status = models.ItemStatusSold })

	results, total, err := svc.NearbyItems(NearbySearchParams{
		PaginationParams: testPagination(),
		Latitude:         owner.Latitude,
		Longitude:        owner.Longitude,
		RadiusKm:         5,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, results)
}

func TestNearbyItemsValidatesRadius(t *testing.T) {
	svc, _ := newItemFixture(t)

	_, _, err := svc.NearbyItems(NearbySearchParams{
		PaginationParams: testPagination(),
		Latitude:         40.7128,
		Longitude:        -74.0060,
		RadiusKm:         500,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSearchItemsFilters(t *testing.T) {
	svc, owner := newItemFixture(t)

	createTestItem(t, svc.db, owner, func(i *models.Item) { i.Title = "Free apples" })
	createTestItem(t, svc.db, owner, func(i *models.Item) {
		i.Title = "Store flour"
		i.IsFree = false
		i.Price = 4.00
		i.IsStoreItem = true
		i.Quantity = 8
	})

	free := true
	items, total, err := svc.SearchItems(ItemSearchParams{
		PaginationParams: testPagination(),
		IsFree:           &free,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Free apples", items[0].Title)

	storeOnly := true
	items, total, err = svc.SearchItems(ItemSearchParams{
		PaginationParams: testPagination(),
		StoreOnly:        &storeOnly,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Store flour", items[0].Title)
}

func TestRestockItem(t *testing.T) {
	svc, owner := newItemFixture(t)
	other := createTestUser(t, svc.db, "other")

	plain := createTestItem(t, svc.db, owner)
	_, err := svc.RestockItem(plain.ID, owner.ID, 5)
	assert.ErrorIs(t, err, ErrValidation)

	store := createTestItem(t, svc.db, owner, func(i *models.Item) {
		i.IsFree = false
		i.Price = 4.00
		i.IsStoreItem = true
		i.Quantity = 2
		i.StockStatus = models.StockStatusLowStock
	})

	_, err = svc.RestockItem(store.ID, other.ID, 5)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.RestockItem(store.ID, owner.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Quantity)
	assert.Equal(t, models.StockStatusInStock, updated.StockStatus)
}

func TestDeleteItemSoftDeletes(t *testing.T) {
	svc, owner := newItemFixture(t)
	item := createTestItem(t, svc.db, owner)

	require.NoError(t, svc.DeleteItem(item.ID, owner.ID))

	_, err := svc.GetItem(item.ID, &owner.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	// The row survives for audit purposes.
	var count int64
	require.NoError(t, svc.db.Unscoped().Model(&models.Item{}).
		Where("id = ?", item.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
