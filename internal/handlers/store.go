// internal/handlers/store.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pradeepthalla80/grocery-share-backend/internal/i18n"
	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
	"github.com/pradeepthalla80/grocery-share-backend/internal/services"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

type StoreHandler struct {
	storeService *services.StoreService
}

func NewStoreHandler(storeService *services.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// POST /store/apply
func (h *StoreHandler) Apply(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ApplyStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	agreement, err := h.storeService.Apply(userID, &req)
	if err != nil {
		serviceError(c, err, "store_agreement")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":   i18n.T(lang, i18n.KeyStoreAgreementCreated),
		"agreement": agreement,
	})
}

// GET /store/agreement
func (h *StoreHandler) GetMyAgreement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	agreement, err := h.storeService.GetUserAgreement(userID)
	if err != nil {
		serviceError(c, err, "store_agreement")
		return
	}

	utils.SuccessResponse(c, gin.H{"agreement": agreement})
}

// GET /admin/store-agreements
func (h *StoreHandler) ListAgreements(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var status *models.AgreementStatus
	if statusStr := c.Query("status"); statusStr != "" {
		agreementStatus := models.AgreementStatus(statusStr)
		status = &agreementStatus
	}

	agreements, total, err := h.storeService.ListAgreements(status, params)
	if err != nil {
		serviceError(c, err, "store_agreement")
		return
	}

	result := utils.CreatePaginationResult(agreements, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/store-agreements/:id/review
func (h *StoreHandler) ReviewAgreement(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ReviewAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	agreement, err := h.storeService.Review(id, adminID, &req)
	if err != nil {
		serviceError(c, err, "store_agreement")
		return
	}

	messageKey := i18n.KeyStoreAgreementRejected
	if req.Approve {
		messageKey = i18n.KeyStoreAgreementApproved
	}

	utils.SuccessResponse(c, gin.H{
		"message":   i18n.T(lang, messageKey),
		"agreement": agreement,
	})
}
