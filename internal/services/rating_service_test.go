// internal/services/rating_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
)

func newRatingFixture(t *testing.T) (*RatingService, *models.User, *models.User, *models.Item) {
	t.Helper()

	db := newTestDB(t)
	svc := NewRatingService(db, nil)
	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	item := createTestItem(t, db, seller)

	return svc, buyer, seller, item
}

func completePickup(t *testing.T, svc *RatingService, buyer, seller *models.User, item *models.Item) {
	t.Helper()

	require.NoError(t, svc.db.Create(&models.PickupRequest{
		ItemID:      item.ID,
		RequesterID: buyer.ID,
		SellerID:    seller.ID,
		Status:      models.PickupStatusCompleted,
	}).Error)
}

func TestCreateRatingRequiresCompletedExchange(t *testing.T) {
	svc, buyer, seller, item := newRatingFixture(t)

	_, err := svc.CreateRating(buyer.ID, &CreateRatingRequest{
		RateeID: seller.ID,
		ItemID:  item.ID,
		Score:   5,
	})
	assert.ErrorIs(t, err, ErrForbidden)

	completePickup(t, svc, buyer, seller, item)

	rating, err := svc.CreateRating(buyer.ID, &CreateRatingRequest{
		RateeID: seller.ID,
		ItemID:  item.ID,
		Score:   5,
		Comment: "Lovely bread, easy pickup",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, rating.Score)

	// The counterpart can rate back off the same exchange.
	_, err = svc.CreateRating(seller.ID, &CreateRatingRequest{
		RateeID: buyer.ID,
		ItemID:  item.ID,
		Score:   4,
	})
	require.NoError(t, err)
}

func TestCreateRatingCompletedOrderCounts(t *testing.T) {
	svc, buyer, seller, item := newRatingFixture(t)

	require.NoError(t, svc.db.Create(&models.Order{
		BuyerID:  buyer.ID,
		SellerID: seller.ID,
		ItemID:   item.ID,
		Quantity: 1,
		Amount:   3.50,
		Status:   models.OrderStatusCompleted,
	}).Error)

	_, err := svc.CreateRating(buyer.ID, &CreateRatingRequest{
		RateeID: seller.ID,
		ItemID:  item.ID,
		Score:   4,
	})
	require.NoError(t, err)
}

func TestCreateRatingPendingOrderDoesNotCount(t *testing.T) {
	svc, buyer, seller, item := newRatingFixture(t)

	require.NoError(t, svc.db.Create(&models.Order{
		BuyerID:  buyer.ID,
		SellerID: seller.ID,
		ItemID:   item.ID,
		Quantity: 1,
		Amount:   3.50,
		Status:   models.OrderStatusPending,
	}).Error)

	_, err := svc.CreateRating(buyer.ID, &CreateRatingRequest{
		RateeID: seller.ID,
		ItemID:  item.ID,
		Score:   4,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateRatingDuplicate(t *testing.T) {
	svc, buyer, seller, item := newRatingFixture(t)
	completePickup(t, svc, buyer, seller, item)

	_, err := svc.CreateRating(buyer.ID, &CreateRatingRequest{
		RateeID: seller.ID,
		ItemID:  item.ID,
		Score:   5,
	})
	require.NoError(t, err)

	_, err = svc.CreateRating(buyer.ID, &CreateRatingRequest{
		RateeID: seller.ID,
		ItemID:  item.ID,
		Score:   3,
	})
	assert.ErrorIs(t, err, ErrDuplicateRating)
}

func TestCreateRatingSelf(t *testing.T) {
	svc, buyer, _, item := newRatingFixture(t)

	_, err := svc.CreateRating(buyer.ID, &CreateRatingRequest{
		RateeID: buyer.ID,
		ItemID:  item.ID,
		Score:   5,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetRatingSummary(t *testing.T) {
	svc, _, seller, item := newRatingFixture(t)

	// No ratings yet.
	summary, err := svc.GetRatingSummary(seller.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, summary.Count)
	assert.Equal(t, 0.0, summary.Average)

	for i, score := range []int{5, 3} {
		rater := createTestUser(t, svc.db, "rater"+string(rune('a'+i)))
		require.NoError(t, svc.db.Create(&models.Rating{
			RaterID: rater.ID,
			RateeID: seller.ID,
			ItemID:  item.ID,
			Score:   score,
		}).Error)
	}

	summary, err = svc.GetRatingSummary(seller.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.Count)
	assert.Equal(t, 4.0, summary.Average)
}

func TestFiveStarBadge(t *testing.T) {
	db := newTestDB(t)
	badgeService := NewBadgeService(db)
	svc := NewRatingService(db, badgeService)
	seller := createTestUser(t, db, "seller")
	item := createTestItem(t, db, seller)

	for i := 0; i < fiveStarBadgeThreshold; i++ {
		rater := createTestUser(t, db, "rater"+string(rune('a'+i)))
		require.NoError(t, db.Create(&models.Rating{
			RaterID: rater.ID,
			RateeID: seller.ID,
			ItemID:  item.ID,
			Score:   5,
		}).Error)
	}

	svc.awardRatingBadges(seller.ID)

	badges, err := badgeService.ListBadges(seller.ID)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, models.BadgeFiveStars, badges[0].Type)
}
