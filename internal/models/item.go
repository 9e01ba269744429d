// internal/models/item.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Item struct {
	BaseModel
	OwnerID     uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Category    string     `json:"category" gorm:"size:100;index"`
	Images      StringList `json:"images" gorm:"type:jsonb"`
	Tags        StringList `json:"tags" gorm:"type:jsonb"`
	Unit        string     `json:"unit" gorm:"size:50"`

	Price  float64 `json:"price" gorm:"type:decimal(10,2);default:0"`
	IsFree bool    `json:"is_free" gorm:"default:false"`

	// Pickup location; the street address is only disclosed through the
	// conversation reveal handshake.
	PickupAddress string  `json:"-" gorm:"size:255"`
	Latitude      float64 `json:"latitude" gorm:"index:idx_items_lat"`
	Longitude     float64 `json:"longitude" gorm:"index:idx_items_lng"`

	AvailableFrom *time.Time `json:"available_from"`
	ExpiresAt     *time.Time `json:"expires_at" gorm:"index"`

	Status   ItemStatus `json:"status" gorm:"type:varchar(20);default:'available';index"`
	IsActive bool       `json:"is_active" gorm:"default:true;index"`

	// Store fields; quantity is only meaningful when IsStoreItem is set.
	IsStoreItem bool        `json:"is_store_item" gorm:"default:false"`
	Quantity    int         `json:"quantity" gorm:"default:0"`
	StockStatus StockStatus `json:"stock_status" gorm:"type:varchar(20);default:'in_stock'"`

	ViewCount int64 `json:"view_count" gorm:"default:0"`

	// Relationships
	Owner User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

// ItemWithDistance decorates an item with its distance from a search origin.
type ItemWithDistance struct {
	Item
	DistanceKm float64 `json:"distance_km" gorm:"-"`
}
