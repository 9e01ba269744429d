// internal/handlers/rating.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pradeepthalla80/grocery-share-backend/internal/i18n"
	"github.com/pradeepthalla80/grocery-share-backend/internal/services"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

type RatingHandler struct {
	ratingService *services.RatingService
	badgeService  *services.BadgeService
}

func NewRatingHandler(ratingService *services.RatingService, badgeService *services.BadgeService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		badgeService:  badgeService,
	}
}

// POST /ratings
func (h *RatingHandler) CreateRating(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	raterID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	rating, err := h.ratingService.CreateRating(raterID, &req)
	if err != nil {
		serviceError(c, err, "rating")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRatingCreated),
		"rating":  rating,
	})
}

// GET /users/:id/ratings
func (h *RatingHandler) ListUserRatings(c *gin.Context) {
	rateeID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	ratings, total, err := h.ratingService.ListUserRatings(rateeID, params)
	if err != nil {
		serviceError(c, err, "rating")
		return
	}

	result := utils.CreatePaginationResult(ratings, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /users/:id/rating-summary
func (h *RatingHandler) GetRatingSummary(c *gin.Context) {
	rateeID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	summary, err := h.ratingService.GetRatingSummary(rateeID)
	if err != nil {
		serviceError(c, err, "rating")
		return
	}

	utils.SuccessResponse(c, gin.H{"summary": summary})
}

// GET /users/:id/badges
func (h *RatingHandler) ListUserBadges(c *gin.Context) {
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	badges, err := h.badgeService.ListBadges(userID)
	if err != nil {
		serviceError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, gin.H{"badges": badges})
}
