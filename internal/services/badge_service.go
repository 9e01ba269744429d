// internal/services/badge_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
)

type BadgeService struct {
	db *gorm.DB
}

var badgeLabels = map[models.BadgeType]string{
	models.BadgeFirstShare:  "First Share",
	models.BadgeTenShares:   "Ten Shares",
	models.BadgeFiveStars:   "Five Stars",
	models.BadgeStoreSeller: "Store Seller",
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{db: db}
}

// Award grants a badge at most once per (user, type); a second award is a
// silent no-op backed by the unique index.
func (s *BadgeService) Award(userID uuid.UUID, badgeType models.BadgeType) {
	badge := &models.Badge{
		UserID: userID,
		Type:   badgeType,
		Label:  badgeLabels[badgeType],
	}

	if err := s.db.Create(badge).Error; err != nil {
		if isDuplicateKey(err) {
			return
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"badge":   badgeType,
		}).Warn("failed to award badge")
	}
}

func (s *BadgeService) ListBadges(userID uuid.UUID) ([]models.Badge, error) {
	var badges []models.Badge
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&badges).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch badges: %w", err)
	}
	return badges, nil
}
