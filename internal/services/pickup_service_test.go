// internal/services/pickup_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
)

func newPickupFixture(t *testing.T) (*PickupService, *models.User, *models.User, *models.Item) {
	t.Helper()

	db := newTestDB(t)
	svc := NewPickupService(db, nil)
	seller := createTestUser(t, db, "seller")
	requester := createTestUser(t, db, "requester")
	item := createTestItem(t, db, seller)

	return svc, requester, seller, item
}

func acceptRequest() *AcceptPickupRequestRequest {
	return &AcceptPickupRequestRequest{
		DeliveryMode:    models.DeliveryModePickup,
		DeliveryAddress: "12 Elm Street",
	}
}

func TestPickupRequestLifecycle(t *testing.T) {
	svc, requester, seller, item := newPickupFixture(t)

	request, err := svc.CreateRequest(requester.ID, &CreatePickupRequestRequest{
		ItemID:  item.ID,
		Message: "I can come by after six",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PickupStatusPending, request.Status)

	request, err = svc.Accept(request.ID, seller.ID, acceptRequest())
	require.NoError(t, err)
	assert.Equal(t, models.PickupStatusAwaitingPickup, request.Status)
	assert.NotNil(t, request.AcceptedAt)
	assert.Equal(t, "12 Elm Street", request.DeliveryAddress)

	// One confirmation keeps the request open.
	request, err = svc.Confirm(request.ID, requester.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupStatusAwaitingPickup, request.Status)
	assert.True(t, request.BuyerConfirmed)
	assert.False(t, request.SellerConfirmed)

	// The second confirmation completes it.
	request, err = svc.Confirm(request.ID, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupStatusCompleted, request.Status)
	assert.NotNil(t, request.CompletedAt)

	// Completed is terminal.
	_, err = svc.Confirm(request.ID, seller.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPickupConfirmOncePerParty(t *testing.T) {
	svc, requester, seller, item := newPickupFixture(t)

	request, err := svc.CreateRequest(requester.ID, &CreatePickupRequestRequest{ItemID: item.ID})
	require.NoError(t, err)

	_, err = svc.Accept(request.ID, seller.ID, acceptRequest())
	require.NoError(t, err)

	_, err = svc.Confirm(request.ID, requester.ID)
	require.NoError(t, err)

	_, err = svc.Confirm(request.ID, requester.ID)
	assert.ErrorIs(t, err, ErrAlreadyAgreed)
}

func TestPickupAcceptSellerOnly(t *testing.T) {
	svc, requester, _, item := newPickupFixture(t)

	request, err := svc.CreateRequest(requester.ID, &CreatePickupRequestRequest{ItemID: item.ID})
	require.NoError(t, err)

	_, err = svc.Accept(request.ID, requester.ID, acceptRequest())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPickupDeclineDefaultReason(t *testing.T) {
	svc, requester, seller, item := newPickupFixture(t)

	request, err := svc.CreateRequest(requester.ID, &CreatePickupRequestRequest{ItemID: item.ID})
	require.NoError(t, err)

	request, err = svc.Decline(request.ID, seller.ID, &DeclinePickupRequestRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.PickupStatusDeclined, request.Status)
	assert.Equal(t, defaultDeclineReason, request.DeclineReason)
	assert.NotNil(t, request.DeclinedAt)

	// Declined is terminal, even for the requester.
	_, err = svc.Cancel(request.ID, requester.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPickupCancelRequesterOnly(t *testing.T) {
	svc, requester, seller, item := newPickupFixture(t)

	request, err := svc.CreateRequest(requester.ID, &CreatePickupRequestRequest{ItemID: item.ID})
	require.NoError(t, err)

	_, err = svc.Cancel(request.ID, seller.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	request, err = svc.Cancel(request.ID, requester.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupStatusCanceled, request.Status)
	assert.NotNil(t, request.CanceledAt)
}

func TestPickupCancelAfterAccept(t *testing.T) {
	svc, requester, seller, item := newPickupFixture(t)

	request, err := svc.CreateRequest(requester.ID, &CreatePickupRequestRequest{ItemID: item.ID})
	require.NoError(t, err)

	_, err = svc.Accept(request.ID, seller.ID, acceptRequest())
	require.NoError(t, err)

	request, err = svc.Cancel(request.ID, requester.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupStatusCanceled, request.Status)
}

func TestPickupCreateChecks(t *testing.T) {
	svc, requester, seller, item := newPickupFixture(t)

	_, err := svc.CreateRequest(seller.ID, &CreatePickupRequestRequest{ItemID: item.ID})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.db.Model(&models.Item{}).
		Where("id = ?", item.ID).
		Update("is_active", false).Error)

	_, err = svc.CreateRequest(requester.ID, &CreatePickupRequestRequest{ItemID: item.ID})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestPickupListByRole(t *testing.T) {
	svc, requester, seller, item := newPickupFixture(t)

	_, err := svc.CreateRequest(requester.ID, &CreatePickupRequestRequest{ItemID: item.ID})
	require.NoError(t, err)

	asSeller, total, err := svc.ListRequests(seller.ID, "seller", testPagination())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, asSeller, 1)

	asRequester, _, err := svc.ListRequests(seller.ID, "requester", testPagination())
	require.NoError(t, err)
	assert.Empty(t, asRequester)
}
