// internal/services/conversation_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
)

func newConversationFixture(t *testing.T) (*ConversationService, *models.User, *models.User, *models.Item) {
	t.Helper()

	db := newTestDB(t)
	svc := NewConversationService(db, nil)
	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	item := createTestItem(t, db, seller)

	return svc, buyer, seller, item
}

func TestStartConversation(t *testing.T) {
	svc, buyer, seller, item := newConversationFixture(t)

	conversation, err := svc.StartConversation(buyer.ID, &StartConversationRequest{
		ItemID:  item.ID,
		Message: "Is the bread still available?",
	})
	require.NoError(t, err)
	assert.Equal(t, buyer.ID, conversation.BuyerID)
	assert.Equal(t, seller.ID, conversation.SellerID)

	messages, total, err := svc.ListMessages(conversation.ID, buyer.ID, testPagination())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Is the bread still available?", messages[0].Body)

	// A second start on the same item reuses the existing conversation.
	again, err := svc.StartConversation(buyer.ID, &StartConversationRequest{ItemID: item.ID})
	require.NoError(t, err)
	assert.Equal(t, conversation.ID, again.ID)
}

func TestStartConversationOwnItem(t *testing.T) {
	svc, _, seller, item := newConversationFixture(t)

	_, err := svc.StartConversation(seller.ID, &StartConversationRequest{ItemID: item.ID})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestConversationParticipantsOnly(t *testing.T) {
	svc, buyer, _, item := newConversationFixture(t)
	stranger := createTestUser(t, svc.db, "stranger")

	conversation, err := svc.StartConversation(buyer.ID, &StartConversationRequest{ItemID: item.ID})
	require.NoError(t, err)

	_, err = svc.GetConversation(conversation.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.SendMessage(conversation.ID, stranger.ID, &SendMessageRequest{Body: "hello"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRegisterConsentReportsFlipOnce(t *testing.T) {
	svc, buyer, seller, item := newConversationFixture(t)

	conversation, err := svc.StartConversation(buyer.ID, &StartConversationRequest{ItemID: item.ID})
	require.NoError(t, err)

	completed, err := svc.registerConsent(conversation, buyer.ID, "buyer_confirmed", "seller_confirmed", "pickup_confirmed")
	require.NoError(t, err)
	assert.False(t, completed)

	completed, err = svc.registerConsent(conversation, seller.ID, "buyer_confirmed", "seller_confirmed", "pickup_confirmed")
	require.NoError(t, err)
	assert.True(t, completed)

	_, err = svc.registerConsent(conversation, seller.ID, "buyer_confirmed", "seller_confirmed", "pickup_confirmed")
	assert.ErrorIs(t, err, ErrAlreadyAgreed)
}

func TestRegisterConsentLostRaceDoesNotReportFlip(t *testing.T) {
	svc, buyer, seller, item := newConversationFixture(t)

	conversation, err := svc.StartConversation(buyer.ID, &StartConversationRequest{ItemID: item.ID})
	require.NoError(t, err)

	// The other party's consent and the terminal flip land first, as when
	// both confirmations arrive at the same moment.
	require.NoError(t, svc.db.Model(&models.Conversation{}).
		Where("id = ?", conversation.ID).
		Updates(map[string]interface{}{
			"seller_confirmed": true,
			"pickup_confirmed": true,
		}).Error)

	completed, err := svc.registerConsent(conversation, buyer.ID, "buyer_confirmed", "seller_confirmed", "pickup_confirmed")
	require.NoError(t, err)
	assert.False(t, completed)

	reloaded, err := svc.GetConversation(conversation.ID, seller.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.PickupConfirmed)
	assert.True(t, reloaded.BuyerConfirmed)
}

func TestRevealAddressHandshake(t *testing.T) {
	svc, buyer, seller, item := newConversationFixture(t)

	conversation, err := svc.StartConversation(buyer.ID, &StartConversationRequest{ItemID: item.ID})
	require.NoError(t, err)

	// First consent leaves the handshake waiting and discloses nothing.
	result, err := svc.RevealAddress(conversation.ID, buyer.ID)
	require.NoError(t, err)
	assert.True(t, result.Waiting)
	assert.False(t, result.Completed)
	assert.Empty(t, result.Address)
	assert.Len(t, result.ConsentedBy, 1)

	// Second consent completes the reveal and returns the address.
	result, err = svc.RevealAddress(conversation.ID, seller.ID)
	require.NoError(t, err)
	assert.False(t, result.Waiting)
	assert.True(t, result.Completed)
	assert.Equal(t, item.PickupAddress, result.Address)
	assert.Len(t, result.ConsentedBy, 2)

	// A repeat attempt by either party is rejected.
	_, err = svc.RevealAddress(conversation.ID, buyer.ID)
	assert.ErrorIs(t, err, ErrAlreadyAgreed)
	_, err = svc.RevealAddress(conversation.ID, seller.ID)
	assert.ErrorIs(t, err, ErrAlreadyAgreed)
}

func TestConfirmPickupDeactivatesItemOnce(t *testing.T) {
	svc, buyer, seller, item := newConversationFixture(t)

	conversation, err := svc.StartConversation(buyer.ID, &StartConversationRequest{ItemID: item.ID})
	require.NoError(t, err)

	result, err := svc.ConfirmPickup(conversation.ID, seller.ID)
	require.NoError(t, err)
	assert.True(t, result.Waiting)

	// Item is untouched while only one party has confirmed.
	var reloaded models.Item
	require.NoError(t, svc.db.First(&reloaded, "id = ?", item.ID).Error)
	assert.True(t, reloaded.IsActive)

	result, err = svc.ConfirmPickup(conversation.ID, buyer.ID)
	require.NoError(t, err)
	assert.True(t, result.Completed)

	require.NoError(t, svc.db.First(&reloaded, "id = ?", item.ID).Error)
	assert.False(t, reloaded.IsActive)
	assert.Equal(t, models.ItemStatusPickedUp, reloaded.Status)

	_, err = svc.ConfirmPickup(conversation.ID, buyer.ID)
	assert.ErrorIs(t, err, ErrAlreadyAgreed)
}

func TestListMessagesMarksRead(t *testing.T) {
	svc, buyer, seller, item := newConversationFixture(t)

	conversation, err := svc.StartConversation(buyer.ID, &StartConversationRequest{ItemID: item.ID})
	require.NoError(t, err)

	_, err = svc.SendMessage(conversation.ID, buyer.ID, &SendMessageRequest{Body: "Can I pick it up tonight?"})
	require.NoError(t, err)

	_, _, err = svc.ListMessages(conversation.ID, seller.ID, testPagination())
	require.NoError(t, err)

	var unread int64
	require.NoError(t, svc.db.Model(&models.Message{}).
		Where("conversation_id = ? AND is_read = ?", conversation.ID, false).
		Count(&unread).Error)
	assert.EqualValues(t, 0, unread)
}
