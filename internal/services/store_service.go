// internal/services/store_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

type StoreService struct {
	db                  *gorm.DB
	badgeService        *BadgeService
	notificationService *NotificationService
}

type ApplyStoreRequest struct {
	StoreName    string                 `json:"store_name" validate:"required,min=2,max=255"`
	Description  string                 `json:"description,omitempty" validate:"max=2000"`
	BusinessInfo map[string]interface{} `json:"business_info,omitempty"`
}

type ReviewAgreementRequest struct {
	Approve    bool   `json:"approve"`
	ReviewNote string `json:"review_note,omitempty" validate:"max=1000"`
}

func NewStoreService(db *gorm.DB, badgeService *BadgeService, notificationService *NotificationService) *StoreService {
	return &StoreService{
		db:                  db,
		badgeService:        badgeService,
		notificationService: notificationService,
	}
}

func (s *StoreService) Apply(userID uuid.UUID, req *ApplyStoreRequest) (*models.StoreAgreement, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.IsStoreSeller {
		return nil, fmt.Errorf("%w: already an approved store seller", ErrConflict)
	}

	var pending int64
	err := s.db.Model(&models.StoreAgreement{}).
		Where("user_id = ? AND status = ?", userID, models.AgreementStatusPending).
		Count(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if pending > 0 {
		return nil, fmt.Errorf("%w: an application is already pending review", ErrConflict)
	}

	agreement := &models.StoreAgreement{
		UserID:       userID,
		StoreName:    req.StoreName,
		Description:  req.Description,
		BusinessInfo: models.JSONB(req.BusinessInfo),
		Status:       models.AgreementStatusPending,
	}

	if err := s.db.Create(agreement).Error; err != nil {
		return nil, fmt.Errorf("failed to create store agreement: %w", err)
	}

	return agreement, nil
}

func (s *StoreService) GetAgreement(id uuid.UUID) (*models.StoreAgreement, error) {
	var agreement models.StoreAgreement
	if err := s.db.Preload("User").First(&agreement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgreementNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &agreement, nil
}

// GetUserAgreement returns the user's most recent application, if any.
func (s *StoreService) GetUserAgreement(userID uuid.UUID) (*models.StoreAgreement, error) {
	var agreement models.StoreAgreement
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&agreement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgreementNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &agreement, nil
}

func (s *StoreService) ListAgreements(status *models.AgreementStatus, params utils.PaginationParams) ([]models.StoreAgreement, int64, error) {
	query := s.db.Model(&models.StoreAgreement{}).Preload("User")

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count store agreements: %w", err)
	}

	var agreements []models.StoreAgreement
	if err := utils.ApplyPagination(query.Order("created_at ASC"), params).
		Find(&agreements).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch store agreements: %w", err)
	}

	return agreements, total, nil
}

// Review settles a pending application. The status flip is a conditional
// update so two admins cannot both settle the same application.
func (s *StoreService) Review(id, adminID uuid.UUID, req *ReviewAgreementRequest) (*models.StoreAgreement, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	agreement, err := s.GetAgreement(id)
	if err != nil {
		return nil, err
	}

	newStatus := models.AgreementStatusRejected
	if req.Approve {
		newStatus = models.AgreementStatusApproved
	}

	now := time.Now()
	res := s.db.Model(&models.StoreAgreement{}).
		Where("id = ? AND status = ?", id, models.AgreementStatusPending).
		Updates(map[string]interface{}{
			"status":      newStatus,
			"review_note": req.ReviewNote,
			"reviewed_by": adminID,
			"reviewed_at": now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to review store agreement: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: agreement already reviewed", ErrInvalidTransition)
	}

	if req.Approve {
		if err := s.db.Model(&models.User{}).
			Where("id = ?", agreement.UserID).
			Update("is_store_seller", true).Error; err != nil {
			return nil, fmt.Errorf("failed to flag store seller: %w", err)
		}
		if s.badgeService != nil {
			s.badgeService.Award(agreement.UserID, models.BadgeStoreSeller)
		}
	}

	audit := &models.AuditLog{
		UserID:       &adminID,
		Action:       "store_agreement_review",
		ResourceType: "store_agreement",
		ResourceID:   &agreement.ID,
		NewValues:    models.JSONB{"status": string(newStatus), "review_note": req.ReviewNote},
	}
	s.db.Create(audit)

	agreement, err = s.GetAgreement(id)
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		go s.notificationService.NotifyAgreementReviewed(agreement, req.Approve)
	}

	return agreement, nil
}
