// internal/services/conversation_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

// ConversationService runs the buyer/seller exchange: messaging plus the two
// mutual-consent handshakes (address reveal, pickup confirmation). Consent is
// registered through a conditional UPDATE whose filter rejects duplicates and
// whose SET flips the terminal flag when the other party already agreed, the
// same discipline the stock ledger uses.
type ConversationService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type StartConversationRequest struct {
	ItemID  uuid.UUID `json:"item_id" validate:"required"`
	Message string    `json:"message,omitempty" validate:"omitempty,max=2000"`
}

type SendMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}

// ConsentResult reports one consent registration. Waiting and Completed are
// mutually exclusive; Address is only set once the reveal handshake finished.
type ConsentResult struct {
	Conversation *models.Conversation `json:"conversation"`
	ConsentedBy  []uuid.UUID          `json:"consented_by"`
	Waiting      bool                 `json:"waiting"`
	Completed    bool                 `json:"completed"`
	Address      string               `json:"address,omitempty"`
}

func NewConversationService(db *gorm.DB, notificationService *NotificationService) *ConversationService {
	return &ConversationService{
		db:                  db,
		notificationService: notificationService,
	}
}

func (s *ConversationService) StartConversation(buyerID uuid.UUID, req *StartConversationRequest) (*models.Conversation, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var item models.Item
	if err := s.db.First(&item, "id = ?", req.ItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if item.OwnerID == buyerID {
		return nil, fmt.Errorf("%w: cannot start a conversation on your own item", ErrValidation)
	}

	conversation := &models.Conversation{
		ItemID:   item.ID,
		BuyerID:  buyerID,
		SellerID: item.OwnerID,
	}

	if err := s.db.Create(conversation).Error; err != nil {
		if isDuplicateKey(err) {
			// One conversation per item/buyer pair; reuse the existing one.
			if err := s.db.Where("item_id = ? AND buyer_id = ?", item.ID, buyerID).
				First(conversation).Error; err != nil {
				return nil, fmt.Errorf("database error: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
	}

	if req.Message != "" {
		if _, err := s.SendMessage(conversation.ID, buyerID, &SendMessageRequest{Body: req.Message}); err != nil {
			return nil, err
		}
	}

	s.db.Preload("Item").Preload("Buyer").Preload("Seller").First(conversation, "id = ?", conversation.ID)

	return conversation, nil
}

func (s *ConversationService) GetConversation(id, actorID uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := s.db.Preload("Item").Preload("Buyer").Preload("Seller").
		First(&conversation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !conversation.IsParticipant(actorID) {
		return nil, fmt.Errorf("%w: not a participant", ErrForbidden)
	}

	return &conversation, nil
}

func (s *ConversationService) ListConversations(actorID uuid.UUID, params utils.PaginationParams) ([]models.Conversation, int64, error) {
	query := s.db.Model(&models.Conversation{}).
		Where("buyer_id = ? OR seller_id = ?", actorID, actorID).
		Preload("Item").Preload("Buyer").Preload("Seller")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count conversations: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "updated_at", "last_message_at"})
	query = utils.ApplyPagination(query, params)

	var conversations []models.Conversation
	if err := query.Find(&conversations).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch conversations: %w", err)
	}

	return conversations, total, nil
}

func (s *ConversationService) SendMessage(conversationID, senderID uuid.UUID, req *SendMessageRequest) (*models.Message, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	conversation, err := s.GetConversation(conversationID, senderID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		Body:           req.Body,
	}

	if err := s.db.Create(message).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	now := time.Now()
	s.db.Model(conversation).UpdateColumn("last_message_at", &now)

	if s.notificationService != nil {
		go s.notificationService.NotifyNewMessage(conversation, message)
	}

	return message, nil
}

func (s *ConversationService) ListMessages(conversationID, actorID uuid.UUID, params utils.PaginationParams) ([]models.Message, int64, error) {
	if _, err := s.GetConversation(conversationID, actorID); err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.Message{}).Where("conversation_id = ?", conversationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	query = query.Order("created_at ASC")
	query = utils.ApplyPagination(query, params)

	var messages []models.Message
	if err := query.Preload("Sender").Find(&messages).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch messages: %w", err)
	}

	// Everything the other party sent is now read.
	s.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, actorID, false).
		UpdateColumn("is_read", true)

	return messages, total, nil
}

// RevealAddress registers the actor's consent to disclose the pickup address.
// The first participant gets a waiting result; the second flips
// address_revealed and receives the address; a repeat attempt is rejected
// with ErrAlreadyAgreed.
func (s *ConversationService) RevealAddress(conversationID, actorID uuid.UUID) (*ConsentResult, error) {
	conversation, err := s.GetConversation(conversationID, actorID)
	if err != nil {
		return nil, err
	}

	completed, err := s.registerConsent(conversation, actorID, "buyer_revealed", "seller_revealed", "address_revealed")
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Item").Preload("Seller").First(conversation, "id = ?", conversationID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload conversation: %w", err)
	}

	result := &ConsentResult{
		Conversation: conversation,
		ConsentedBy:  conversation.RevealedBy(),
		Waiting:      !conversation.AddressRevealed,
		Completed:    conversation.AddressRevealed,
	}

	if conversation.AddressRevealed {
		result.Address = s.pickupAddress(conversation)
	}
	if completed && s.notificationService != nil {
		go s.notificationService.NotifyAddressRevealed(conversation)
	}

	return result, nil
}

// ConfirmPickup registers the actor's consent that the exchange happened.
// When both parties have confirmed the item is deactivated as picked_up.
func (s *ConversationService) ConfirmPickup(conversationID, actorID uuid.UUID) (*ConsentResult, error) {
	conversation, err := s.GetConversation(conversationID, actorID)
	if err != nil {
		return nil, err
	}

	completed, err := s.registerConsent(conversation, actorID, "buyer_confirmed", "seller_confirmed", "pickup_confirmed")
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Item").First(conversation, "id = ?", conversationID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload conversation: %w", err)
	}

	result := &ConsentResult{
		Conversation: conversation,
		ConsentedBy:  conversation.ConfirmedBy(),
		Waiting:      !conversation.PickupConfirmed,
		Completed:    conversation.PickupConfirmed,
	}

	if completed {
		// This call flipped the flag, so the side effect fires exactly once.
		if err := s.db.Model(&models.Item{}).
			Where("id = ? AND status <> ?", conversation.ItemID, models.ItemStatusPickedUp).
			Updates(map[string]interface{}{
				"status":    models.ItemStatusPickedUp,
				"is_active": false,
			}).Error; err != nil {
			return nil, fmt.Errorf("failed to deactivate item: %w", err)
		}

		if s.notificationService != nil {
			go s.notificationService.NotifyPickupConfirmed(conversation)
		}
	}

	return result, nil
}

// registerConsent performs the atomic consent write. The actorColumn = false
// filter rejects duplicate consent; a second conditional UPDATE flips the
// terminal flag once both columns are set. Its RowsAffected tells the caller
// whether this call completed the handshake, which is what gates the
// one-shot side effects even when both parties consent at the same moment.
func (s *ConversationService) registerConsent(conversation *models.Conversation, actorID uuid.UUID, buyerColumn, sellerColumn, terminalColumn string) (bool, error) {
	actorColumn := buyerColumn
	if actorID == conversation.SellerID {
		actorColumn = sellerColumn
	}

	res := s.db.Model(&models.Conversation{}).
		Where("id = ? AND "+actorColumn+" = ?", conversation.ID, false).
		UpdateColumn(actorColumn, true)
	if res.Error != nil {
		return false, fmt.Errorf("failed to register consent: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, ErrAlreadyAgreed
	}

	flip := s.db.Model(&models.Conversation{}).
		Where("id = ? AND "+buyerColumn+" = ? AND "+sellerColumn+" = ? AND "+terminalColumn+" = ?",
			conversation.ID, true, true, false).
		UpdateColumn(terminalColumn, true)
	if flip.Error != nil {
		return false, fmt.Errorf("failed to register consent: %w", flip.Error)
	}

	return flip.RowsAffected == 1, nil
}

func (s *ConversationService) pickupAddress(conversation *models.Conversation) string {
	if conversation.Item.PickupAddress != "" {
		return conversation.Item.PickupAddress
	}
	return conversation.Seller.PickupAddress
}
