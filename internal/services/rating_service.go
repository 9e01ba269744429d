// internal/services/rating_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

const fiveStarBadgeThreshold = 5

type RatingService struct {
	db           *gorm.DB
	badgeService *BadgeService
}

type CreateRatingRequest struct {
	RateeID uuid.UUID `json:"ratee_id" validate:"required"`
	ItemID  uuid.UUID `json:"item_id" validate:"required"`
	Score   int       `json:"score" validate:"required,min=1,max=5"`
	Comment string    `json:"comment,omitempty" validate:"max=1000"`
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

func NewRatingService(db *gorm.DB, badgeService *BadgeService) *RatingService {
	return &RatingService{
		db:           db,
		badgeService: badgeService,
	}
}

func (s *RatingService) CreateRating(raterID uuid.UUID, req *CreateRatingRequest) (*models.Rating, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if raterID == req.RateeID {
		return nil, fmt.Errorf("%w: cannot rate yourself", ErrValidation)
	}

	completed, err := s.hasCompletedExchange(raterID, req.RateeID, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, fmt.Errorf("%w: no completed exchange between these users for this item", ErrForbidden)
	}

	rating := &models.Rating{
		RaterID: raterID,
		RateeID: req.RateeID,
		ItemID:  req.ItemID,
		Score:   req.Score,
		Comment: req.Comment,
	}

	if err := s.db.Create(rating).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateRating
		}
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}

	if s.badgeService != nil {
		go s.awardRatingBadges(req.RateeID)
	}

	s.db.Preload("Rater").First(rating, "id = ?", rating.ID)

	return rating, nil
}

func (s *RatingService) ListUserRatings(rateeID uuid.UUID, params utils.PaginationParams) ([]models.Rating, int64, error) {
	query := s.db.Model(&models.Rating{}).Where("ratee_id = ?", rateeID).
		Preload("Rater").Preload("Item")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count ratings: %w", err)
	}

	var ratings []models.Rating
	if err := utils.ApplyPagination(query.Order("created_at DESC"), params).
		Find(&ratings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch ratings: %w", err)
	}

	return ratings, total, nil
}

func (s *RatingService) GetRatingSummary(rateeID uuid.UUID) (*RatingSummary, error) {
	var summary RatingSummary
	err := s.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS count").
		Where("ratee_id = ?", rateeID).
		Scan(&summary).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute rating summary: %w", err)
	}

	return &summary, nil
}

// hasCompletedExchange reports whether the two users finished an exchange of
// the item, as either a completed pickup request or a processed order, in
// either direction.
func (s *RatingService) hasCompletedExchange(raterID, rateeID, itemID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.PickupRequest{}).
		Where("item_id = ? AND status = ?", itemID, models.PickupStatusCompleted).
		Where("(requester_id = ? AND seller_id = ?) OR (requester_id = ? AND seller_id = ?)",
			raterID, rateeID, rateeID, raterID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return true, nil
	}

	err = s.db.Model(&models.Order{}).
		Where("item_id = ? AND status = ?", itemID, models.OrderStatusCompleted).
		Where("(buyer_id = ? AND seller_id = ?) OR (buyer_id = ? AND seller_id = ?)",
			raterID, rateeID, rateeID, raterID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}

	return count > 0, nil
}

func (s *RatingService) awardRatingBadges(rateeID uuid.UUID) {
	var count int64
	err := s.db.Model(&models.Rating{}).
		Where("ratee_id = ? AND score = ?", rateeID, 5).
		Count(&count).Error
	if err != nil {
		return
	}

	if count >= fiveStarBadgeThreshold {
		s.badgeService.Award(rateeID, models.BadgeFiveStars)
	}
}
