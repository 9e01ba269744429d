// internal/models/rating.go
package models

import (
	"github.com/google/uuid"
)

// Rating is one counterpart review per (rater, ratee, item) tuple; the
// composite unique index makes a second attempt a conflict.
type Rating struct {
	BaseModel
	RaterID uuid.UUID `json:"rater_id" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_tuple"`
	RateeID uuid.UUID `json:"ratee_id" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_tuple;index"`
	ItemID  uuid.UUID `json:"item_id" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_tuple"`

	Score   int    `json:"score" gorm:"not null"`
	Comment string `json:"comment" gorm:"type:text"`

	// Relationships
	Rater User `json:"rater,omitempty" gorm:"foreignKey:RaterID"`
	Ratee User `json:"ratee,omitempty" gorm:"foreignKey:RateeID"`
	Item  Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}

// Badge is awarded at most once per (user, type).
type Badge struct {
	BaseModel
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_badges_user_type"`
	Type   BadgeType `json:"type" gorm:"type:varchar(30);not null;uniqueIndex:idx_badges_user_type"`
	Label  string    `json:"label" gorm:"size:100"`
}
