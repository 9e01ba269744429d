// internal/handlers/pickup.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pradeepthalla80/grocery-share-backend/internal/i18n"
	"github.com/pradeepthalla80/grocery-share-backend/internal/services"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

type PickupHandler struct {
	pickupService *services.PickupService
}

func NewPickupHandler(pickupService *services.PickupService) *PickupHandler {
	return &PickupHandler{pickupService: pickupService}
}

// POST /pickup-requests
func (h *PickupHandler) CreateRequest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	requesterID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreatePickupRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	request, err := h.pickupService.CreateRequest(requesterID, &req)
	if err != nil {
		serviceError(c, err, "pickup_request")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPickupRequestCreated),
		"request": request,
	})
}

// GET /pickup-requests
func (h *PickupHandler) ListRequests(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	role := c.Query("role")

	requests, total, err := h.pickupService.ListRequests(actorID, role, params)
	if err != nil {
		serviceError(c, err, "pickup_request")
		return
	}

	result := utils.CreatePaginationResult(requests, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /pickup-requests/:id
func (h *PickupHandler) GetRequest(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	request, err := h.pickupService.GetRequest(id, actorID)
	if err != nil {
		serviceError(c, err, "pickup_request")
		return
	}

	utils.SuccessResponse(c, gin.H{"request": request})
}

// PUT /pickup-requests/:id/accept
func (h *PickupHandler) AcceptRequest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.AcceptPickupRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	request, err := h.pickupService.Accept(id, actorID, &req)
	if err != nil {
		serviceError(c, err, "pickup_request")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPickupRequestAccepted),
		"request": request,
	})
}

// PUT /pickup-requests/:id/decline
func (h *PickupHandler) DeclineRequest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.DeclinePickupRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	request, err := h.pickupService.Decline(id, actorID, &req)
	if err != nil {
		serviceError(c, err, "pickup_request")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPickupRequestDeclined),
		"request": request,
	})
}

// PUT /pickup-requests/:id/cancel
func (h *PickupHandler) CancelRequest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	request, err := h.pickupService.Cancel(id, actorID)
	if err != nil {
		serviceError(c, err, "pickup_request")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPickupRequestCanceled),
		"request": request,
	})
}

// PUT /pickup-requests/:id/confirm
func (h *PickupHandler) ConfirmRequest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	request, err := h.pickupService.Confirm(id, actorID)
	if err != nil {
		serviceError(c, err, "pickup_request")
		return
	}

	messageKey := i18n.KeyConsentRecorded
	if request.IsTerminal() {
		messageKey = i18n.KeyPickupRequestCompleted
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, messageKey),
		"request": request,
	})
}
