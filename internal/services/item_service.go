// internal/services/item_service.go
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

type ItemService struct {
	db           *gorm.DB
	stockService *StockService
	badgeService *BadgeService
}

type CreateItemRequest struct {
	Title         string                 `json:"title" validate:"required,min=3,max=255"`
	Description   string                 `json:"description" validate:"required,min=10"`
	Category      string                 `json:"category" validate:"required"`
	Price         float64                `json:"price" validate:"min=0"`
	IsFree        bool                   `json:"is_free"`
	Images        []string               `json:"images,omitempty"`
	Tags          []string               `json:"tags,omitempty"`
	Unit          string                 `json:"unit,omitempty"`
	PickupAddress string                 `json:"pickup_address" validate:"required,max=255"`
	Latitude      float64                `json:"latitude" validate:"latitude"`
	Longitude     float64                `json:"longitude" validate:"longitude"`
	AvailableFrom *time.Time             `json:"available_from,omitempty"`
	ExpiresAt     *time.Time             `json:"expires_at,omitempty"`
	IsStoreItem   bool                   `json:"is_store_item"`
	Quantity      int                    `json:"quantity" validate:"min=0"`
}

type UpdateItemRequest struct {
	Title         string     `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description   string     `json:"description,omitempty" validate:"omitempty,min=10"`
	Category      string     `json:"category,omitempty"`
	Price         float64    `json:"price,omitempty" validate:"omitempty,min=0"`
	Images        []string   `json:"images,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Unit          string     `json:"unit,omitempty"`
	PickupAddress string     `json:"pickup_address,omitempty" validate:"omitempty,max=255"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

type ItemSearchParams struct {
	utils.PaginationParams
	OwnerID   *uuid.UUID
	Status    *models.ItemStatus
	IsFree    *bool
	StoreOnly *bool
	PriceMin  *float64
	PriceMax  *float64
	InStock   *bool
}

type NearbySearchParams struct {
	utils.PaginationParams
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
	RadiusKm  float64 `validate:"min=0.1,max=100"`
}

func NewItemService(db *gorm.DB, stockService *StockService, badgeService *BadgeService) *ItemService {
	return &ItemService{
		db:           db,
		stockService: stockService,
		badgeService: badgeService,
	}
}

func (s *ItemService) CreateItem(ownerID uuid.UUID, req *CreateItemRequest) (*models.Item, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var owner models.User
	if err := s.db.First(&owner, "id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if owner.Status != models.UserStatusActive {
		return nil, fmt.Errorf("%w: account is not active", ErrForbidden)
	}

	if req.IsStoreItem && !owner.IsStoreSeller {
		return nil, fmt.Errorf("%w: store items require an approved store agreement", ErrForbidden)
	}

	if req.IsFree {
		req.Price = 0
	}

	item := &models.Item{
		OwnerID:       ownerID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Price:         req.Price,
		IsFree:        req.IsFree || req.Price == 0,
		Images:        models.StringList(req.Images),
		Tags:          models.StringList(req.Tags),
		Unit:          req.Unit,
		PickupAddress: req.PickupAddress,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		AvailableFrom: req.AvailableFrom,
		ExpiresAt:     req.ExpiresAt,
		Status:        models.ItemStatusAvailable,
		IsActive:      true,
		IsStoreItem:   req.IsStoreItem,
	}

	if req.IsStoreItem {
		item.Quantity = req.Quantity
		item.StockStatus = models.StockStatusForQuantity(req.Quantity)
	}

	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	if s.badgeService != nil {
		go s.awardSharingBadges(ownerID)
	}

	s.db.Preload("Owner").First(item, "id = ?", item.ID)

	return item, nil
}

func (s *ItemService) GetItem(id uuid.UUID, viewerID *uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := s.db.Preload("Owner").First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Deactivated listings are only visible to their owner.
	if !item.IsActive && (viewerID == nil || *viewerID != item.OwnerID) {
		return nil, ErrItemNotFound
	}

	if viewerID == nil || *viewerID != item.OwnerID {
		go s.incrementViewCount(id)
	}

	return &item, nil
}

func (s *ItemService) UpdateItem(id, ownerID uuid.UUID, req *UpdateItemRequest) (*models.Item, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var item models.Item
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: not the owner of this item", ErrForbidden)
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Price > 0 {
		updates["price"] = req.Price
		updates["is_free"] = false
	}
	if req.Images != nil {
		updates["images"] = models.StringList(req.Images)
	}
	if req.Tags != nil {
		updates["tags"] = models.StringList(req.Tags)
	}
	if req.Unit != "" {
		updates["unit"] = req.Unit
	}
	if req.PickupAddress != "" {
		updates["pickup_address"] = req.PickupAddress
	}
	if req.ExpiresAt != nil {
		updates["expires_at"] = req.ExpiresAt
	}

	if err := s.db.Model(&item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.db.Preload("Owner").First(&item, "id = ?", id)

	return &item, nil
}

func (s *ItemService) DeleteItem(id, ownerID uuid.UUID) error {
	var item models.Item
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	if item.OwnerID != ownerID {
		return fmt.Errorf("%w: not the owner of this item", ErrForbidden)
	}

	// Soft delete
	if err := s.db.Delete(&item).Error; err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return nil
}

func (s *ItemService) SearchItems(params ItemSearchParams) ([]models.Item, int64, error) {
	query := s.db.Model(&models.Item{}).Preload("Owner")

	if params.OwnerID != nil {
		query = query.Where("owner_id = ?", *params.OwnerID)
	} else {
		// Browsing defaults to live listings.
		query = query.Where("is_active = ?", true)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	} else if params.OwnerID == nil {
		query = query.Where("status = ?", models.ItemStatusAvailable)
	}

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	if params.IsFree != nil {
		query = query.Where("is_free = ?", *params.IsFree)
	}

	if params.StoreOnly != nil && *params.StoreOnly {
		query = query.Where("is_store_item = ?", true)
	}

	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}

	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}

	if params.InStock != nil && *params.InStock {
		query = query.Where("is_store_item = ? OR quantity > 0", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "price", "expires_at", "view_count"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var items []models.Item
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch items: %w", err)
	}

	return items, total, nil
}

// NearbyItems finds live listings within radiusKm of a point. A bounding box
// prefilters in SQL; the exact haversine distance is computed per candidate
// and used for the radius cut and the ordering.
func (s *ItemService) NearbyItems(params NearbySearchParams) ([]models.ItemWithDistance, int64, error) {
	if err := utils.ValidateStruct(&params); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	minLat, maxLat, minLng, maxLng := utils.BoundingBox(params.Latitude, params.Longitude, params.RadiusKm)

	query := s.db.Model(&models.Item{}).Preload("Owner").
		Where("is_active = ? AND status = ?", true, models.ItemStatusAvailable).
		Where("latitude BETWEEN ? AND ?", minLat, maxLat).
		Where("longitude BETWEEN ? AND ?", minLng, maxLng)

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	var candidates []models.Item
	if err := query.Find(&candidates).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch nearby items: %w", err)
	}

	results := make([]models.ItemWithDistance, 0, len(candidates))
	for _, item := range candidates {
		distance := utils.HaversineKm(params.Latitude, params.Longitude, item.Latitude, item.Longitude)
		if distance <= params.RadiusKm {
			results = append(results, models.ItemWithDistance{Item: item, DistanceKm: distance})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	total := int64(len(results))

	// Paginate the distance-ordered result in memory.
	start := (params.Page - 1) * params.Limit
	if start > len(results) {
		start = len(results)
	}
	end := start + params.Limit
	if end > len(results) {
		end = len(results)
	}

	return results[start:end], total, nil
}

// RestockItem lets a store seller top up a listing's quantity.
func (s *ItemService) RestockItem(itemID, ownerID uuid.UUID, quantity int) (*models.Item, error) {
	var item models.Item
	if err := s.db.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: not the owner of this item", ErrForbidden)
	}
	if !item.IsStoreItem {
		return nil, fmt.Errorf("%w: only store items carry stock", ErrValidation)
	}

	return s.stockService.IncrementStock(itemID, quantity)
}

// Helper methods

func (s *ItemService) incrementViewCount(itemID uuid.UUID) {
	s.db.Model(&models.Item{}).Where("id = ?", itemID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
}

func (s *ItemService) awardSharingBadges(ownerID uuid.UUID) {
	var count int64
	if err := s.db.Model(&models.Item{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return
	}

	if count >= 1 {
		s.badgeService.Award(ownerID, models.BadgeFirstShare)
	}
	if count >= 10 {
		s.badgeService.Award(ownerID, models.BadgeTenShares)
	}
}
