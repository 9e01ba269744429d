// internal/services/pickup_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pradeepthalla80/grocery-share-backend/internal/database"
	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

const defaultDeclineReason = "The seller is unable to fulfil this request"

// PickupService drives the request/accept/decline/confirm/cancel lifecycle:
// pending -> declined | canceled | awaiting_pickup -> completed. Status
// transitions are conditional UPDATEs filtered on the current status, so a
// concurrent double submission loses cleanly instead of overwriting.
type PickupService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type CreatePickupRequestRequest struct {
	ItemID  uuid.UUID `json:"item_id" validate:"required"`
	Message string    `json:"message,omitempty" validate:"omitempty,max=2000"`
}

type AcceptPickupRequestRequest struct {
	DeliveryMode         models.DeliveryMode `json:"delivery_mode" validate:"required,oneof=pickup dropoff meetup"`
	DeliveryAddress      string              `json:"delivery_address" validate:"required,max=255"`
	DeliveryInstructions string              `json:"delivery_instructions,omitempty" validate:"omitempty,max=2000"`
}

type DeclinePickupRequestRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=255"`
}

func NewPickupService(db *gorm.DB, notificationService *NotificationService) *PickupService {
	return &PickupService{
		db:                  db,
		notificationService: notificationService,
	}
}

func (s *PickupService) CreateRequest(requesterID uuid.UUID, req *CreatePickupRequestRequest) (*models.PickupRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var item models.Item
	if err := s.db.First(&item, "id = ?", req.ItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if item.OwnerID == requesterID {
		return nil, fmt.Errorf("%w: cannot request a pickup of your own item", ErrValidation)
	}

	if !item.IsActive || item.Status != models.ItemStatusAvailable {
		return nil, fmt.Errorf("%w: item is no longer available", ErrConflict)
	}

	request := &models.PickupRequest{
		ItemID:      item.ID,
		RequesterID: requesterID,
		SellerID:    item.OwnerID,
		Status:      models.PickupStatusPending,
		Message:     req.Message,
	}

	if err := s.db.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create pickup request: %w", err)
	}

	s.db.Preload("Item").Preload("Requester").Preload("Seller").First(request, "id = ?", request.ID)

	if s.notificationService != nil {
		go s.notificationService.NotifyPickupRequested(request)
	}

	return request, nil
}

func (s *PickupService) GetRequest(id, actorID uuid.UUID) (*models.PickupRequest, error) {
	var request models.PickupRequest
	if err := s.db.Preload("Item").Preload("Requester").Preload("Seller").
		First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPickupRequestNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if actorID != request.RequesterID && actorID != request.SellerID {
		return nil, fmt.Errorf("%w: not a party to this request", ErrForbidden)
	}

	return &request, nil
}

func (s *PickupService) ListRequests(actorID uuid.UUID, role string, params utils.PaginationParams) ([]models.PickupRequest, int64, error) {
	query := s.db.Model(&models.PickupRequest{}).Preload("Item").Preload("Requester").Preload("Seller")

	switch role {
	case "seller":
		query = query.Where("seller_id = ?", actorID)
	case "requester":
		query = query.Where("requester_id = ?", actorID)
	default:
		query = query.Where("requester_id = ? OR seller_id = ?", actorID, actorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pickup requests: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "updated_at", "status"})
	query = utils.ApplyPagination(query, params)

	var requests []models.PickupRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch pickup requests: %w", err)
	}

	return requests, total, nil
}

// Accept moves pending -> awaiting_pickup with the seller's delivery details.
func (s *PickupService) Accept(id, actorID uuid.UUID, req *AcceptPickupRequestRequest) (*models.PickupRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	request, err := s.GetRequest(id, actorID)
	if err != nil {
		return nil, err
	}

	if actorID != request.SellerID {
		return nil, fmt.Errorf("%w: only the seller may accept", ErrForbidden)
	}

	now := time.Now()
	res := s.db.Model(&models.PickupRequest{}).
		Where("id = ? AND status = ?", id, models.PickupStatusPending).
		Updates(map[string]interface{}{
			"status":                models.PickupStatusAwaitingPickup,
			"delivery_mode":         req.DeliveryMode,
			"delivery_address":      req.DeliveryAddress,
			"delivery_instructions": req.DeliveryInstructions,
			"accepted_at":           &now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to accept pickup request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidTransition
	}

	request, err = s.GetRequest(id, actorID)
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		go s.notificationService.NotifyPickupAccepted(request)
	}

	return request, nil
}

// Decline moves pending -> declined, terminal.
func (s *PickupService) Decline(id, actorID uuid.UUID, req *DeclinePickupRequestRequest) (*models.PickupRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	request, err := s.GetRequest(id, actorID)
	if err != nil {
		return nil, err
	}

	if actorID != request.SellerID {
		return nil, fmt.Errorf("%w: only the seller may decline", ErrForbidden)
	}

	reason := req.Reason
	if reason == "" {
		reason = defaultDeclineReason
	}

	now := time.Now()
	res := s.db.Model(&models.PickupRequest{}).
		Where("id = ? AND status = ?", id, models.PickupStatusPending).
		Updates(map[string]interface{}{
			"status":         models.PickupStatusDeclined,
			"decline_reason": reason,
			"declined_at":    &now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to decline pickup request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidTransition
	}

	request, err = s.GetRequest(id, actorID)
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		go s.notificationService.NotifyPickupDeclined(request)
	}

	return request, nil
}

// Cancel is requester-only and allowed while the request is not yet
// completed or declined.
func (s *PickupService) Cancel(id, actorID uuid.UUID) (*models.PickupRequest, error) {
	request, err := s.GetRequest(id, actorID)
	if err != nil {
		return nil, err
	}

	if actorID != request.RequesterID {
		return nil, fmt.Errorf("%w: only the requester may cancel", ErrForbidden)
	}

	now := time.Now()
	res := s.db.Model(&models.PickupRequest{}).
		Where("id = ? AND status IN ?", id, []models.PickupRequestStatus{
			models.PickupStatusPending,
			models.PickupStatusAwaitingPickup,
		}).
		Updates(map[string]interface{}{
			"status":      models.PickupStatusCanceled,
			"canceled_at": &now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to cancel pickup request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidTransition
	}

	return s.GetRequest(id, actorID)
}

// Confirm records one party's confirmation while awaiting_pickup. Each side
// confirms at most once; when both booleans are set the status flips to
// completed with completedAt stamped, regardless of call order.
func (s *PickupService) Confirm(id, actorID uuid.UUID) (*models.PickupRequest, error) {
	request, err := s.GetRequest(id, actorID)
	if err != nil {
		return nil, err
	}

	column := "buyer_confirmed"
	if actorID == request.SellerID {
		column = "seller_confirmed"
	}

	now := time.Now()
	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		res := tx.Model(&models.PickupRequest{}).
			Where("id = ? AND status = ? AND "+column+" = ?", id, models.PickupStatusAwaitingPickup, false).
			UpdateColumn(column, true)
		if res.Error != nil {
			return fmt.Errorf("failed to record confirmation: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			if request.Status != models.PickupStatusAwaitingPickup {
				return ErrInvalidTransition
			}
			return ErrAlreadyAgreed
		}

		// Terminal flip happens only when both confirmations are in.
		res = tx.Model(&models.PickupRequest{}).
			Where("id = ? AND status = ? AND buyer_confirmed = ? AND seller_confirmed = ?",
				id, models.PickupStatusAwaitingPickup, true, true).
			Updates(map[string]interface{}{
				"status":       models.PickupStatusCompleted,
				"completed_at": &now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to complete pickup request: %w", res.Error)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	request, err = s.GetRequest(id, actorID)
	if err != nil {
		return nil, err
	}

	if request.Status == models.PickupStatusCompleted && s.notificationService != nil {
		go s.notificationService.NotifyPickupCompleted(request)
	}

	return request, nil
}
