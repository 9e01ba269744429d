// internal/handlers/payment.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pradeepthalla80/grocery-share-backend/internal/i18n"
	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
	"github.com/pradeepthalla80/grocery-share-backend/internal/services"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// POST /orders
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	resp, err := h.paymentService.CreateOrder(buyerID, &req)
	if err != nil {
		serviceError(c, err, "item")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"order":         resp.Order,
		"client_secret": resp.ClientSecret,
		"payment_id":    resp.PaymentID,
	})
}

// POST /orders/confirm
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	order, err := h.paymentService.ConfirmPayment(buyerID, &req)
	if err != nil {
		serviceError(c, err, "order")
		return
	}

	messageKey := i18n.KeyPaymentFailed
	if order.Status == models.OrderStatusCompleted || order.Status == models.OrderStatusPending {
		messageKey = i18n.KeyPaymentSuccess
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, messageKey),
		"order":   order,
	})
}

// POST /orders/refund
func (h *PaymentHandler) ProcessRefund(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	role, _ := utils.GetUserRoleFromContext(c)
	isAdmin := role == string(models.UserRoleAdmin)

	order, err := h.paymentService.ProcessRefund(actorID, isAdmin, &req)
	if err != nil {
		serviceError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRefundSuccess),
		"order":   order,
	})
}

// GET /orders/:id
func (h *PaymentHandler) GetOrder(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	order, err := h.paymentService.GetOrder(id, actorID)
	if err != nil {
		serviceError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{"order": order})
}

// GET /orders
func (h *PaymentHandler) GetOrderHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	orders, total, err := h.paymentService.GetOrderHistory(userID, params)
	if err != nil {
		serviceError(c, err, "order")
		return
	}

	result := utils.CreatePaginationResult(orders, total, params)
	utils.PaginatedResponse(c, result)
}
