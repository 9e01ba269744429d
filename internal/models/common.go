// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL jsonb columns
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		bytes = []byte(s)
	}

	return json.Unmarshal(bytes, j)
}

// StringList is a JSON-encoded list of strings (item images, tags)
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		bytes = []byte(s)
	}

	return json.Unmarshal(bytes, l)
}

// Enums
type UserRole string

const (
	UserRoleMember UserRole = "member"
	UserRoleAdmin  UserRole = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "available"
	ItemStatusSold      ItemStatus = "sold"
	ItemStatusRefunded  ItemStatus = "refunded"
	ItemStatusPickedUp  ItemStatus = "picked_up"
)

type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// LowStockThreshold is the largest quantity still reported as low_stock.
const LowStockThreshold = 5

// StockStatusForQuantity derives the stock label from a quantity.
func StockStatusForQuantity(quantity int) StockStatus {
	switch {
	case quantity <= 0:
		return StockStatusOutOfStock
	case quantity <= LowStockThreshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

type PickupRequestStatus string

const (
	PickupStatusPending        PickupRequestStatus = "pending"
	PickupStatusDeclined       PickupRequestStatus = "declined"
	PickupStatusCanceled       PickupRequestStatus = "canceled"
	PickupStatusAwaitingPickup PickupRequestStatus = "awaiting_pickup"
	PickupStatusCompleted      PickupRequestStatus = "completed"
)

type DeliveryMode string

const (
	DeliveryModePickup  DeliveryMode = "pickup"
	DeliveryModeDropoff DeliveryMode = "dropoff"
	DeliveryModeMeetup  DeliveryMode = "meetup"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusRefunded  OrderStatus = "refunded"
)

type AgreementStatus string

const (
	AgreementStatusPending  AgreementStatus = "pending"
	AgreementStatusApproved AgreementStatus = "approved"
	AgreementStatusRejected AgreementStatus = "rejected"
)

type BadgeType string

const (
	BadgeFirstShare  BadgeType = "first_share"
	BadgeTenShares   BadgeType = "ten_shares"
	BadgeFiveStars   BadgeType = "five_stars"
	BadgeStoreSeller BadgeType = "store_seller"
)
