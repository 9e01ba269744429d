// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pradeepthalla80/grocery-share-backend/internal/config"
	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

type AuthService struct {
	db                  *gorm.DB
	cfg                 *config.Config
	notificationService *NotificationService
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username      string                 `json:"username" validate:"required,username"`
	Email         string                 `json:"email" validate:"required,email"`
	Password      string                 `json:"password" validate:"required,strong_password"`
	PickupAddress string                 `json:"pickup_address,omitempty" validate:"max=255"`
	Latitude      float64                `json:"latitude" validate:"latitude"`
	Longitude     float64                `json:"longitude" validate:"longitude"`
	ProfileData   map[string]interface{} `json:"profile_data,omitempty"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,strong_password"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config, notificationService *NotificationService) *AuthService {
	return &AuthService{
		db:                  db,
		cfg:                 cfg,
		notificationService: notificationService,
	}
}

func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var existingUser models.User
	if err := s.db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existingUser).Error; err == nil {
		if existingUser.Email == req.Email {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, fmt.Errorf("%w: username already taken", ErrConflict)
	}

	user := &models.User{
		Username:      req.Username,
		Email:         req.Email,
		Role:          models.UserRoleMember,
		Status:        models.UserStatusActive,
		ProfileData:   models.JSONB(req.ProfileData),
		PickupAddress: req.PickupAddress,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: email or username already taken", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	go s.sendVerificationEmail(user.ID)

	return s.buildAuthResponse(user)
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid email or password")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.Status == models.UserStatusSuspended {
		return nil, fmt.Errorf("%w: account is suspended", ErrForbidden)
	}
	if user.Status == models.UserStatusBanned {
		return nil, fmt.Errorf("%w: account is banned", ErrForbidden)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	now := time.Now()
	user.LastLoginAt = &now
	s.db.Model(&user).UpdateColumn("last_login_at", now)

	return s.buildAuthResponse(&user)
}

func (s *AuthService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	userIDStr, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("%w: account is not active", ErrForbidden)
	}

	return s.buildAuthResponse(&user)
}

func (s *AuthService) ForgotPassword(req *ForgotPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// Do not reveal whether the email exists.
		return nil
	}

	resetToken, err := utils.GenerateVerificationToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if user.ProfileData == nil {
		user.ProfileData = make(models.JSONB)
	}
	user.ProfileData["reset_token"] = resetToken
	user.ProfileData["reset_token_expires"] = time.Now().Add(1 * time.Hour).Unix()

	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}

	if s.notificationService != nil {
		go s.notificationService.SendPasswordResetEmail(&user, resetToken)
	}

	return nil
}

func (s *AuthService) ResetPassword(req *ResetPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.findUserByProfileToken("reset_token", req.Token)
	if err != nil {
		return errors.New("invalid or expired reset token")
	}

	if expiresAt, ok := user.ProfileData["reset_token_expires"].(float64); ok {
		if time.Now().Unix() > int64(expiresAt) {
			return errors.New("reset token has expired")
		}
	} else {
		return errors.New("invalid reset token")
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	delete(user.ProfileData, "reset_token")
	delete(user.ProfileData, "reset_token_expires")

	if err := s.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *AuthService) VerifyEmail(token string) error {
	user, err := s.findUserByProfileToken("email_verification_token", token)
	if err != nil {
		return errors.New("invalid verification token")
	}

	if user.EmailVerifiedAt != nil {
		return fmt.Errorf("%w: email already verified", ErrConflict)
	}

	now := time.Now()
	user.EmailVerifiedAt = &now

	if user.ProfileData == nil {
		user.ProfileData = make(models.JSONB)
	}
	delete(user.ProfileData, "email_verification_token")

	if err := s.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}

	return nil
}

func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Badges").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *AuthService) buildAuthResponse(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(
		user.ID,
		user.Username,
		string(user.Role),
		user.IsStoreSeller,
		s.cfg.JWT.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}

// findUserByProfileToken scans for a user whose profile data carries the given
// token. Token lookups are rare, so a table walk beats a JSON-path query that
// would tie us to one database's operators.
func (s *AuthService) findUserByProfileToken(key, token string) (*models.User, error) {
	var users []models.User
	if err := s.db.Where("profile_data IS NOT NULL").Find(&users).Error; err != nil {
		return nil, err
	}

	for i := range users {
		if stored, ok := users[i].ProfileData[key].(string); ok && stored == token {
			return &users[i], nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}

// sendVerificationEmail runs outside the request; it works on its own copy
// of the row because the caller's *models.User is being serialized
// concurrently.
func (s *AuthService) sendVerificationEmail(userID uuid.UUID) {
	token, err := utils.GenerateVerificationToken()
	if err != nil {
		return
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return
	}

	profile := make(models.JSONB, len(user.ProfileData)+1)
	for k, v := range user.ProfileData {
		profile[k] = v
	}
	profile["email_verification_token"] = token

	if err := s.db.Model(&user).UpdateColumn("profile_data", profile).Error; err != nil {
		return
	}

	user.ProfileData = profile
	if s.notificationService != nil {
		s.notificationService.SendWelcomeEmail(&user, token)
	}
}
