// internal/models/store_agreement.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreAgreement is a user's application to operate as a store seller.
// Approval flips the user's store flag.
type StoreAgreement struct {
	BaseModel
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	StoreName    string    `json:"store_name" gorm:"size:255;not null"`
	Description  string    `json:"description" gorm:"type:text"`
	BusinessInfo JSONB     `json:"business_info" gorm:"type:jsonb"`

	Status     AgreementStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ReviewNote string          `json:"review_note" gorm:"type:text"`
	ReviewedBy *uuid.UUID      `json:"reviewed_by" gorm:"type:uuid"`
	ReviewedAt *time.Time      `json:"reviewed_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:255;not null"`
	ResourceType string     `json:"resource_type" gorm:"size:50;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"size:255"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
}
