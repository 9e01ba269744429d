// internal/models/conversation.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a buyer/seller exchange bound to an item. The two consent
// handshakes (address reveal, pickup confirmation) keep one flag per party;
// the terminal booleans flip exactly once, inside the same conditional update
// that records the second party's consent.
type Conversation struct {
	BaseModel
	ItemID   uuid.UUID `json:"item_id" gorm:"type:uuid;not null;uniqueIndex:idx_conversations_item_buyer"`
	BuyerID  uuid.UUID `json:"buyer_id" gorm:"type:uuid;not null;uniqueIndex:idx_conversations_item_buyer;index"`
	SellerID uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index"`

	BuyerRevealed   bool `json:"-" gorm:"default:false"`
	SellerRevealed  bool `json:"-" gorm:"default:false"`
	AddressRevealed bool `json:"address_revealed" gorm:"default:false"`

	BuyerConfirmed  bool `json:"-" gorm:"default:false"`
	SellerConfirmed bool `json:"-" gorm:"default:false"`
	PickupConfirmed bool `json:"pickup_confirmed" gorm:"default:false"`

	LastMessageAt *time.Time `json:"last_message_at"`

	// Relationships
	Item     Item      `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	Buyer    User      `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Seller   User      `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`
}

// Participants returns the two party ids.
func (c *Conversation) Participants() []uuid.UUID {
	return []uuid.UUID{c.BuyerID, c.SellerID}
}

// IsParticipant reports whether userID is one of the two parties.
func (c *Conversation) IsParticipant(userID uuid.UUID) bool {
	return userID == c.BuyerID || userID == c.SellerID
}

// RevealedBy lists the participants who have consented to the address reveal.
func (c *Conversation) RevealedBy() []uuid.UUID {
	return c.consentSet(c.BuyerRevealed, c.SellerRevealed)
}

// ConfirmedBy lists the participants who have confirmed the pickup.
func (c *Conversation) ConfirmedBy() []uuid.UUID {
	return c.consentSet(c.BuyerConfirmed, c.SellerConfirmed)
}

func (c *Conversation) consentSet(buyer, seller bool) []uuid.UUID {
	set := make([]uuid.UUID, 0, 2)
	if buyer {
		set = append(set, c.BuyerID)
	}
	if seller {
		set = append(set, c.SellerID)
	}
	return set
}

type Message struct {
	BaseModel
	ConversationID uuid.UUID `json:"conversation_id" gorm:"type:uuid;not null;index"`
	SenderID       uuid.UUID `json:"sender_id" gorm:"type:uuid;not null;index"`
	Body           string    `json:"body" gorm:"type:text;not null"`
	IsRead         bool      `json:"is_read" gorm:"default:false"`

	// Relationships
	Sender User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}
