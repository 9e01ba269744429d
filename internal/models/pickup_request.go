// internal/models/pickup_request.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// PickupRequest is the formal request/accept/confirm lifecycle:
// pending -> declined | canceled | awaiting_pickup -> completed.
// Delivery metadata is chosen by the seller on acceptance; the terminal
// completed state requires both parties' independent confirmations, in
// either order.
type PickupRequest struct {
	BaseModel
	ItemID      uuid.UUID `json:"item_id" gorm:"type:uuid;not null;index"`
	RequesterID uuid.UUID `json:"requester_id" gorm:"type:uuid;not null;index"`
	SellerID    uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index"`

	Status  PickupRequestStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Message string              `json:"message" gorm:"type:text"`

	// Seller-authored delivery details, set on acceptance.
	DeliveryMode         DeliveryMode `json:"delivery_mode" gorm:"type:varchar(20)"`
	DeliveryAddress      string       `json:"delivery_address" gorm:"size:255"`
	DeliveryInstructions string       `json:"delivery_instructions" gorm:"type:text"`

	DeclineReason string `json:"decline_reason,omitempty" gorm:"size:255"`

	BuyerConfirmed  bool `json:"buyer_confirmed" gorm:"default:false"`
	SellerConfirmed bool `json:"seller_confirmed" gorm:"default:false"`

	AcceptedAt  *time.Time `json:"accepted_at"`
	DeclinedAt  *time.Time `json:"declined_at"`
	CanceledAt  *time.Time `json:"canceled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	// Relationships
	Item      Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	Requester User `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Seller    User `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}

// IsTerminal reports whether no further transitions are possible.
func (r *PickupRequest) IsTerminal() bool {
	switch r.Status {
	case PickupStatusDeclined, PickupStatusCanceled, PickupStatusCompleted:
		return true
	}
	return false
}
