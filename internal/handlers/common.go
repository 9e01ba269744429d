// internal/handlers/common.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pradeepthalla80/grocery-share-backend/internal/services"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

// currentUserID pulls the authenticated user's id out of the request context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}

	return userID, true
}

// optionalUserID is like currentUserID but never writes a response.
func optionalUserID(c *gin.Context) *uuid.UUID {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return nil
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil
	}
	return &userID
}

// pathUUID parses a :param path segment as a uuid.
func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+param, nil)
		return uuid.Nil, false
	}
	return id, true
}

// serviceError maps a service error category onto the HTTP response.
// notFoundResource is the i18n resource prefix used for 404 messages.
func serviceError(c *gin.Context, err error, notFoundResource string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, notFoundResource)
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
