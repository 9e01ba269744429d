// internal/services/cleanup_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradeepthalla80/grocery-share-backend/internal/config"
	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
)

func newCleanupFixture(t *testing.T) *CleanupService {
	t.Helper()

	svc, err := NewCleanupService(newTestDB(t), &config.Config{
		Cleanup: config.CleanupConfig{
			IntervalMinutes:      30,
			PickupRequestTTLDays: 7,
		},
	})
	require.NoError(t, err)

	return svc
}

func TestDeactivateExpiredItems(t *testing.T) {
	svc := newCleanupFixture(t)
	owner := createTestUser(t, svc.db, "owner")

	past := time.Now().Add(-1 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	expired := createTestItem(t, svc.db, owner, func(i *models.Item) { i.ExpiresAt = &past })
	live := createTestItem(t, svc.db, owner, func(i *models.Item) { i.ExpiresAt = &future })
	open := createTestItem(t, svc.db, owner)

	n, err := svc.DeactivateExpiredItems()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var item models.Item
	require.NoError(t, svc.db.First(&item, "id = ?", expired.ID).Error)
	assert.False(t, item.IsActive)

	for _, id := range []interface{}{live.ID, open.ID} {
		require.NoError(t, svc.db.First(&item, "id = ?", id).Error)
		assert.True(t, item.IsActive)
	}

	// The pass is idempotent.
	n, err = svc.DeactivateExpiredItems()
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestDeclineStalePickupRequests(t *testing.T) {
	svc := newCleanupFixture(t)
	seller := createTestUser(t, svc.db, "seller")
	requester := createTestUser(t, svc.db, "requester")
	item := createTestItem(t, svc.db, seller)

	stale := &models.PickupRequest{
		ItemID:      item.ID,
		RequesterID: requester.ID,
		SellerID:    seller.ID,
		Status:      models.PickupStatusPending,
	}
	require.NoError(t, svc.db.Create(stale).Error)
	require.NoError(t, svc.db.Model(stale).
		UpdateColumn("created_at", time.Now().AddDate(0, 0, -10)).Error)

	fresh := &models.PickupRequest{
		ItemID:      item.ID,
		RequesterID: requester.ID,
		SellerID:    seller.ID,
		Status:      models.PickupStatusPending,
	}
	require.NoError(t, svc.db.Create(fresh).Error)

	n, err := svc.DeclineStalePickupRequests()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var request models.PickupRequest
	require.NoError(t, svc.db.First(&request, "id = ?", stale.ID).Error)
	assert.Equal(t, models.PickupStatusDeclined, request.Status)
	assert.NotEmpty(t, request.DeclineReason)
	assert.NotNil(t, request.DeclinedAt)

	require.NoError(t, svc.db.First(&request, "id = ?", fresh.ID).Error)
	assert.Equal(t, models.PickupStatusPending, request.Status)
}
