// internal/services/auth_service_test.go
package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradeepthalla80/grocery-share-backend/internal/config"
	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.AccessTokenTTL = 24
	cfg.JWT.RefreshTokenTTL = 168

	return NewAuthService(newTestDB(t), cfg, nil)
}

func registerRequest(username string) *RegisterRequest {
	return &RegisterRequest{
		Username:      username,
		Email:         username + "@example.com",
		Password:      "TestPass123!",
		PickupAddress: "12 Elm Street",
		Latitude:      40.7128,
		Longitude:     -74.0060,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthFixture(t)

	resp, err := svc.Register(registerRequest("newcomer"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, models.UserRoleMember, resp.User.Role)

	login, err := svc.Login(&LoginRequest{
		Email:    "newcomer@example.com",
		Password: "TestPass123!",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
	assert.NotNil(t, login.User.LastLoginAt)
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Register(registerRequest("taken"))
	require.NoError(t, err)

	_, err = svc.Register(registerRequest("taken"))
	assert.ErrorIs(t, err, ErrConflict)

	req := registerRequest("other")
	req.Email = "taken@example.com"
	_, err = svc.Register(req)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterKeepsResponseUserStable(t *testing.T) {
	svc := newAuthFixture(t)

	req := registerRequest("stable")
	req.ProfileData = map[string]interface{}{"bio": "weekend baker"}
	resp, err := svc.Register(req)
	require.NoError(t, err)

	// The verification token is written in the background; the returned user
	// must stay safe to serialize while that happens.
	for i := 0; i < 200; i++ {
		_, err := json.Marshal(resp.User)
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		var user models.User
		if err := svc.db.First(&user, "id = ?", resp.User.ID).Error; err != nil {
			return false
		}
		token, ok := user.ProfileData["email_verification_token"].(string)
		return ok && token != ""
	}, 2*time.Second, 20*time.Millisecond)

	var user models.User
	require.NoError(t, svc.db.First(&user, "id = ?", resp.User.ID).Error)
	assert.Equal(t, "weekend baker", user.ProfileData["bio"])

	_, leaked := resp.User.ProfileData["email_verification_token"]
	assert.False(t, leaked)
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := newAuthFixture(t)

	req := registerRequest("weakling")
	req.Password = "password"
	_, err := svc.Register(req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginFailures(t *testing.T) {
	svc := newAuthFixture(t)

	createTestUser(t, svc.db, "member")

	_, err := svc.Login(&LoginRequest{Email: "member@example.com", Password: "wrong"})
	assert.EqualError(t, err, "invalid email or password")

	_, err = svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "TestPass123!"})
	assert.EqualError(t, err, "invalid email or password")

	require.NoError(t, svc.db.Model(&models.User{}).
		Where("email = ?", "member@example.com").
		Update("status", models.UserStatusSuspended).Error)

	_, err = svc.Login(&LoginRequest{Email: "member@example.com", Password: "TestPass123!"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRefreshToken(t *testing.T) {
	svc := newAuthFixture(t)

	resp, err := svc.Register(registerRequest("refresher"))
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken("not-a-token")
	assert.Error(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	svc := newAuthFixture(t)

	createTestUser(t, svc.db, "forgetful")

	// Unknown email is silently accepted.
	require.NoError(t, svc.ForgotPassword(&ForgotPasswordRequest{Email: "nobody@example.com"}))

	require.NoError(t, svc.ForgotPassword(&ForgotPasswordRequest{Email: "forgetful@example.com"}))

	var user models.User
	require.NoError(t, svc.db.Where("email = ?", "forgetful@example.com").First(&user).Error)
	token, ok := user.ProfileData["reset_token"].(string)
	require.True(t, ok)

	require.NoError(t, svc.ResetPassword(&ResetPasswordRequest{
		Token:       token,
		NewPassword: "FreshPass789!",
	}))

	_, err := svc.Login(&LoginRequest{Email: "forgetful@example.com", Password: "FreshPass789!"})
	require.NoError(t, err)

	// The token is single-use.
	err = svc.ResetPassword(&ResetPasswordRequest{
		Token:       token,
		NewPassword: "AnotherPass000!",
	})
	assert.Error(t, err)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc := newAuthFixture(t)
	user := createTestUser(t, svc.db, "latecomer")

	user.ProfileData = models.JSONB{
		"reset_token":         "stale-token",
		"reset_token_expires": time.Now().Add(-1 * time.Hour).Unix(),
	}
	require.NoError(t, svc.db.Save(user).Error)

	err := svc.ResetPassword(&ResetPasswordRequest{
		Token:       "stale-token",
		NewPassword: "FreshPass789!",
	})
	assert.EqualError(t, err, "reset token has expired")
}
