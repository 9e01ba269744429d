// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	BaseModel
	BuyerID  uuid.UUID `json:"buyer_id" gorm:"type:uuid;not null;index"`
	SellerID uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index"`
	ItemID   uuid.UUID `json:"item_id" gorm:"type:uuid;not null;index"`

	Quantity    int     `json:"quantity" gorm:"default:1"`
	Amount      float64 `json:"amount" gorm:"type:decimal(10,2);not null"`
	PlatformFee float64 `json:"platform_fee" gorm:"type:decimal(10,2);default:0"`

	PaymentMethod    string      `json:"payment_method" gorm:"size:50"`
	PaymentReference string      `json:"payment_reference" gorm:"size:255"`
	Status           OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	ProcessedAt  *time.Time `json:"processed_at"`
	RefundedAt   *time.Time `json:"refunded_at"`
	RefundReason string     `json:"refund_reason,omitempty" gorm:"type:text"`

	// Relationships
	Buyer  User `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Seller User `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Item   Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}
