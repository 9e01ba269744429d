// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

type UserService struct {
	db            *gorm.DB
	ratingService *RatingService
}

type UpdateProfileRequest struct {
	PickupAddress string                 `json:"pickup_address,omitempty" validate:"max=255"`
	Latitude      *float64               `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude     *float64               `json:"longitude,omitempty" validate:"omitempty,longitude"`
	ProfileData   map[string]interface{} `json:"profile_data,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

// PublicProfile is the counterpart-facing view of a user; it never carries
// the pickup address or email.
type PublicProfile struct {
	ID            uuid.UUID      `json:"id"`
	Username      string         `json:"username"`
	IsStoreSeller bool           `json:"is_store_seller"`
	Badges        []models.Badge `json:"badges"`
	Rating        *RatingSummary `json:"rating"`
	ItemsShared   int64          `json:"items_shared"`
	MemberSince   string         `json:"member_since"`
}

func NewUserService(db *gorm.DB, ratingService *RatingService) *UserService {
	return &UserService{
		db:            db,
		ratingService: ratingService,
	}
}

func (s *UserService) GetPublicProfile(userID uuid.UUID) (*PublicProfile, error) {
	var user models.User
	if err := s.db.Preload("Badges").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	summary, err := s.ratingService.GetRatingSummary(userID)
	if err != nil {
		return nil, err
	}

	var itemsShared int64
	if err := s.db.Model(&models.Item{}).Where("owner_id = ?", userID).Count(&itemsShared).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &PublicProfile{
		ID:            user.ID,
		Username:      user.Username,
		IsStoreSeller: user.IsStoreSeller,
		Badges:        user.Badges,
		Rating:        summary,
		ItemsShared:   itemsShared,
		MemberSince:   user.CreatedAt.Format("2006-01"),
	}, nil
}

func (s *UserService) UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
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

	updates := make(map[string]interface{})
	if req.PickupAddress != "" {
		updates["pickup_address"] = req.PickupAddress
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if req.ProfileData != nil {
		merged := user.ProfileData
		if merged == nil {
			merged = make(models.JSONB)
		}
		for k, v := range req.ProfileData {
			merged[k] = v
		}
		updates["profile_data"] = merged
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	s.db.Preload("Badges").First(&user, "id = ?", userID)

	return &user, nil
}

func (s *UserService) ChangePassword(userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := user.CheckPassword(req.CurrentPassword); err != nil {
		return fmt.Errorf("%w: current password is incorrect", ErrValidation)
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Model(&user).Update("password_hash", user.PasswordHash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// Admin operations

func (s *UserService) ListUsers(params utils.PaginationParams, status *models.UserStatus) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("username LIKE ? OR email LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "username", "email", "status"})
	query = utils.ApplyPagination(query, params)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

func (s *UserService) UpdateUserStatus(userID, adminID uuid.UUID, status models.UserStatus, reason string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&user).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	audit := &models.AuditLog{
		UserID:       &adminID,
		Action:       "user_status_change",
		ResourceType: "user",
		ResourceID:   &userID,
		NewValues:    models.JSONB{"status": string(status), "reason": reason},
	}
	s.db.Create(audit)

	user.Status = status
	return &user, nil
}
