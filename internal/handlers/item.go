// internal/handlers/item.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pradeepthalla80/grocery-share-backend/internal/i18n"
	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
	"github.com/pradeepthalla80/grocery-share-backend/internal/services"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

type ItemHandler struct {
	itemService    *services.ItemService
	storageService *services.StorageService
}

func NewItemHandler(itemService *services.ItemService, storageService *services.StorageService) *ItemHandler {
	return &ItemHandler{
		itemService:    itemService,
		storageService: storageService,
	}
}

// GET /items
func (h *ItemHandler) GetItems(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.ItemSearchParams{
		PaginationParams: params,
	}

	if ownerIDStr := c.Query("owner_id"); ownerIDStr != "" {
		if ownerID, err := uuid.Parse(ownerIDStr); err == nil {
			searchParams.OwnerID = &ownerID
		}
	}

	if status := c.Query("status"); status != "" {
		itemStatus := models.ItemStatus(status)
		searchParams.Status = &itemStatus
	}

	if isFreeStr := c.Query("is_free"); isFreeStr != "" {
		if isFree, err := strconv.ParseBool(isFreeStr); err == nil {
			searchParams.IsFree = &isFree
		}
	}

	if storeOnlyStr := c.Query("store_only"); storeOnlyStr != "" {
		if storeOnly, err := strconv.ParseBool(storeOnlyStr); err == nil {
			searchParams.StoreOnly = &storeOnly
		}
	}

	if priceMinStr := c.Query("price_min"); priceMinStr != "" {
		if priceMin, err := strconv.ParseFloat(priceMinStr, 64); err == nil {
			searchParams.PriceMin = &priceMin
		}
	}

	if priceMaxStr := c.Query("price_max"); priceMaxStr != "" {
		if priceMax, err := strconv.ParseFloat(priceMaxStr, 64); err == nil {
			searchParams.PriceMax = &priceMax
		}
	}

	if inStockStr := c.Query("in_stock"); inStockStr != "" {
		if inStock, err := strconv.ParseBool(inStockStr); err == nil {
			searchParams.InStock = &inStock
		}
	}

	items, total, err := h.itemService.SearchItems(searchParams)
	if err != nil {
		serviceError(c, err, "item")
		return
	}

	result := utils.CreatePaginationResult(items, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /items/nearby
func (h *ItemHandler) GetNearbyItems(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		utils.BadRequestResponse(c, "lat and lng query parameters are required", nil)
		return
	}

	radiusKm := 5.0
	if radiusStr := c.Query("radius_km"); radiusStr != "" {
		if parsed, err := strconv.ParseFloat(radiusStr, 64); err == nil {
			radiusKm = parsed
		}
	}

	nearbyParams := services.NearbySearchParams{
		PaginationParams: params,
		Latitude:         lat,
		Longitude:        lng,
		RadiusKm:         radiusKm,
	}

	items, total, err := h.itemService.NearbyItems(nearbyParams)
	if err != nil {
		serviceError(c, err, "item")
		return
	}

	result := utils.CreatePaginationResult(items, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /items
func (h *ItemHandler) CreateItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	item, err := h.itemService.CreateItem(ownerID, &req)
	if err != nil {
		serviceError(c, err, "item")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyItemCreated),
		"item":    item,
	})
}

// GET /items/:id
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(id, optionalUserID(c))
	if err != nil {
		serviceError(c, err, "item")
		return
	}

	utils.SuccessResponse(c, gin.H{"item": item})
}

// PUT /items/:id
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	item, err := h.itemService.UpdateItem(id, ownerID, &req)
	if err != nil {
		serviceError(c, err, "item")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyItemUpdated),
		"item":    item,
	})
}

// DELETE /items/:id
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(id, ownerID); err != nil {
		serviceError(c, err, "item")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyItemDeleted),
	})
}

// POST /items/:id/restock
func (h *ItemHandler) RestockItem(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	item, err := h.itemService.RestockItem(id, ownerID, req.Quantity)
	if err != nil {
		serviceError(c, err, "item")
		return
	}

	utils.SuccessResponse(c, gin.H{"item": item})
}

// POST /items/upload-images
func (h *ItemHandler) UploadItemImages(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	if _, ok := currentUserID(c); !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid multipart form", err.Error())
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		utils.BadRequestResponse(c, "No images provided", nil)
		return
	}

	options := h.storageService.GetDefaultUploadOptions("items")

	results := make([]*services.UploadResult, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
			return
		}

		if err := h.storageService.ValidateImage(file); err != nil {
			file.Close()
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}

		result, err := h.storageService.UploadFile(file, header, options)
		file.Close()
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
			return
		}

		results = append(results, result)
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"files":   results,
	})
}
