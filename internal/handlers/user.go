// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pradeepthalla80/grocery-share-backend/internal/i18n"
	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
	"github.com/pradeepthalla80/grocery-share-backend/internal/services"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

type UserHandler struct {
	userService    *services.UserService
	storageService *services.StorageService
}

func NewUserHandler(userService *services.UserService, storageService *services.StorageService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		storageService: storageService,
	}
}

// GET /users/:id
func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	profile, err := h.userService.GetPublicProfile(id)
	if err != nil {
		serviceError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, gin.H{"profile": profile})
}

// PUT /users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		serviceError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserProfileUpdated),
		"user":    user,
	})
}

// PUT /users/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if err := h.userService.ChangePassword(userID, &req); err != nil {
		serviceError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Password changed",
	})
}

// POST /users/upload-avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		utils.BadRequestResponse(c, "No avatar file provided", err.Error())
		return
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	options := h.storageService.GetDefaultUploadOptions("avatars")
	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(userID, &services.UpdateProfileRequest{
		ProfileData: map[string]interface{}{"avatar_url": result.URL},
	})
	if err != nil {
		serviceError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"file":    result,
		"user":    user,
	})
}

// Admin endpoints

// GET /admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var status *models.UserStatus
	if statusStr := c.Query("status"); statusStr != "" {
		userStatus := models.UserStatus(statusStr)
		status = &userStatus
	}

	users, total, err := h.userService.ListUsers(params, status)
	if err != nil {
		serviceError(c, err, "user")
		return
	}

	result := utils.CreatePaginationResult(users, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/users/:id/status
func (h *UserHandler) UpdateUserStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Status models.UserStatus `json:"status" binding:"required"`
		Reason string            `json:"reason,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	switch req.Status {
	case models.UserStatusActive, models.UserStatusSuspended, models.UserStatusBanned:
	default:
		utils.BadRequestResponse(c, "Invalid status", nil)
		return
	}

	user, err := h.userService.UpdateUserStatus(id, adminID, req.Status, req.Reason)
	if err != nil {
		serviceError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}
