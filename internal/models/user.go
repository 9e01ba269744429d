// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username      string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email         string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash  string     `json:"-" gorm:"size:255;not null"`
	Role          UserRole   `json:"role" gorm:"type:varchar(20);default:'member'"`
	Status        UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	IsStoreSeller bool       `json:"is_store_seller" gorm:"default:false"`
	ProfileData   JSONB      `json:"profile_data" gorm:"type:jsonb"`

	// Default pickup location; the street address is only disclosed through
	// the conversation reveal handshake.
	PickupAddress string  `json:"-" gorm:"size:255"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`

	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	LastLoginAt     *time.Time `json:"last_login_at"`

	// Relationships
	Items         []Item         `json:"items,omitempty" gorm:"foreignKey:OwnerID"`
	Notifications []Notification `json:"notifications,omitempty" gorm:"foreignKey:UserID"`
	Badges        []Badge        `json:"badges,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
