// internal/handlers/conversation.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pradeepthalla80/grocery-share-backend/internal/i18n"
	"github.com/pradeepthalla80/grocery-share-backend/internal/services"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

type ConversationHandler struct {
	conversationService *services.ConversationService
}

func NewConversationHandler(conversationService *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// POST /conversations
func (h *ConversationHandler) StartConversation(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	conversation, err := h.conversationService.StartConversation(buyerID, &req)
	if err != nil {
		serviceError(c, err, "conversation")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyConversationCreated),
		"conversation": conversation,
	})
}

// GET /conversations
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	conversations, total, err := h.conversationService.ListConversations(actorID, params)
	if err != nil {
		serviceError(c, err, "conversation")
		return
	}

	result := utils.CreatePaginationResult(conversations, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /conversations/:id
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversation, err := h.conversationService.GetConversation(id, actorID)
	if err != nil {
		serviceError(c, err, "conversation")
		return
	}

	utils.SuccessResponse(c, gin.H{"conversation": conversation})
}

// POST /conversations/:id/messages
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	senderID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	message, err := h.conversationService.SendMessage(id, senderID, &req)
	if err != nil {
		serviceError(c, err, "conversation")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyMessageSent),
		"data":    message,
	})
}

// GET /conversations/:id/messages
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	messages, total, err := h.conversationService.ListMessages(id, actorID, params)
	if err != nil {
		serviceError(c, err, "conversation")
		return
	}

	result := utils.CreatePaginationResult(messages, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /conversations/:id/reveal-address
func (h *ConversationHandler) RevealAddress(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.conversationService.RevealAddress(id, actorID)
	if err != nil {
		serviceError(c, err, "conversation")
		return
	}

	messageKey := i18n.KeyConsentRecorded
	if result.Completed {
		messageKey = i18n.KeyAddressRevealed
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, messageKey),
		"result":  result,
	})
}

// POST /conversations/:id/confirm-pickup
func (h *ConversationHandler) ConfirmPickup(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.conversationService.ConfirmPickup(id, actorID)
	if err != nil {
		serviceError(c, err, "conversation")
		return
	}

	messageKey := i18n.KeyConsentRecorded
	if result.Completed {
		messageKey = i18n.KeyPickupConfirmed
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, messageKey),
		"result":  result,
	})
}
