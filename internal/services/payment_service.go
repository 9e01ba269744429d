// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"gorm.io/gorm"

	"github.com/pradeepthalla80/grocery-share-backend/internal/config"
	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

type PaymentService struct {
	db                  *gorm.DB
	config              *config.Config
	stockService        *StockService
	notificationService *NotificationService
}

type CreateOrderRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"omitempty,min=1"`
}

type OrderIntentResponse struct {
	Order        *models.Order `json:"order"`
	ClientSecret string        `json:"client_secret"`
	PaymentID    string        `json:"payment_id"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string    `json:"payment_intent_id" validate:"required"`
	OrderID         uuid.UUID `json:"order_id" validate:"required"`
}

type RefundRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
	Reason  string    `json:"reason" validate:"required,max=500"`
}

func NewPaymentService(db *gorm.DB, config *config.Config, stockService *StockService, notificationService *NotificationService) *PaymentService {
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:                  db,
		config:              config,
		stockService:        stockService,
		notificationService: notificationService,
	}
}

// CreateOrder reserves the goods and opens a Stripe payment intent. Store
// items are decremented through the stock ledger; one-off items flip
// available -> sold in a single conditional update so two buyers cannot both
// reserve the same listing.
func (s *PaymentService) CreateOrder(buyerID uuid.UUID, req *CreateOrderRequest) (*OrderIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	var item models.Item
	if err := s.db.First(&item, "id = ?", req.ItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if item.OwnerID == buyerID {
		return nil, fmt.Errorf("%w: cannot buy your own item", ErrValidation)
	}
	if item.IsFree || item.Price <= 0 {
		return nil, fmt.Errorf("%w: free items are exchanged through pickup requests", ErrValidation)
	}
	if !item.IsActive || item.Status != models.ItemStatusAvailable {
		return nil, fmt.Errorf("%w: item is no longer available", ErrConflict)
	}

	if item.IsStoreItem {
		if _, err := s.stockService.DecrementStock(item.ID, req.Quantity); err != nil {
			return nil, err
		}
	} else {
		req.Quantity = 1
		res := s.db.Model(&models.Item{}).
			Where("id = ? AND status = ? AND is_active = ?", item.ID, models.ItemStatusAvailable, true).
			Updates(map[string]interface{}{"status": models.ItemStatusSold, "is_active": false})
		if res.Error != nil {
			return nil, fmt.Errorf("failed to reserve item: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, fmt.Errorf("%w: item is no longer available", ErrConflict)
		}
	}

	amount := item.Price * float64(req.Quantity)
	platformFee := amount * s.config.Payment.PlatformFeePercent / 100

	order := &models.Order{
		BuyerID:     buyerID,
		SellerID:    item.OwnerID,
		ItemID:      item.ID,
		Quantity:    req.Quantity,
		Amount:      amount,
		PlatformFee: platformFee,
		Status:      models.OrderStatusPending,
	}

	if err := s.db.Create(order).Error; err != nil {
		s.releaseReservation(order)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amount * 100)),
		Currency: stripe.String("usd"),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("buyer_id", buyerID.String())
	params.AddMetadata("item_id", item.ID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		s.releaseReservation(order)
		s.db.Model(order).Update("status", models.OrderStatusFailed)
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	s.db.Model(order).Updates(map[string]interface{}{
		"payment_method":    "stripe",
		"payment_reference": pi.ID,
	})
	order.PaymentMethod = "stripe"
	order.PaymentReference = pi.ID

	s.db.Preload("Item").Preload("Seller").First(order, "id = ?", order.ID)

	return &OrderIntentResponse{
		Order:        order,
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
	}, nil
}

func (s *PaymentService) ConfirmPayment(buyerID uuid.UUID, req *ConfirmPaymentRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var order models.Order
	if err := s.db.Preload("Item").First(&order, "id = ?", req.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.BuyerID != buyerID {
		return nil, fmt.Errorf("%w: not the buyer of this order", ErrForbidden)
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: order already settled", ErrInvalidTransition)
	}

	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		now := time.Now()
		if err := s.db.Model(&order).Updates(map[string]interface{}{
			"status":       models.OrderStatusCompleted,
			"processed_at": now,
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to update order: %w", err)
		}
		order.Status = models.OrderStatusCompleted
		order.ProcessedAt = &now

		if s.notificationService != nil {
			go s.notificationService.NotifyPurchaseConfirmed(&order)
		}

	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusRequiresPaymentMethod, stripe.PaymentIntentStatusProcessing:
		// Still in flight; leave the order pending.

	default:
		if err := s.db.Model(&order).Update("status", models.OrderStatusFailed).Error; err != nil {
			return nil, fmt.Errorf("failed to update order: %w", err)
		}
		order.Status = models.OrderStatusFailed
		s.releaseReservation(&order)
	}

	return &order, nil
}

func (s *PaymentService) ProcessRefund(actorID uuid.UUID, isAdmin bool, req *RefundRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var order models.Order
	if err := s.db.Preload("Item").Preload("Buyer").First(&order, "id = ?", req.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !isAdmin && actorID != order.SellerID {
		return nil, fmt.Errorf("%w: only the seller or an admin can refund", ErrForbidden)
	}
	if order.Status != models.OrderStatusCompleted {
		return nil, fmt.Errorf("%w: can only refund completed orders", ErrInvalidTransition)
	}

	if order.PaymentReference != "" {
		params := &stripe.RefundParams{
			PaymentIntent: stripe.String(order.PaymentReference),
			Amount:        stripe.Int64(int64(order.Amount * 100)),
			Reason:        stripe.String("requested_by_customer"),
		}
		if _, err := refund.New(params); err != nil {
			return nil, fmt.Errorf("failed to process refund: %w", err)
		}
	}

	now := time.Now()
	if err := s.db.Model(&order).Updates(map[string]interface{}{
		"status":        models.OrderStatusRefunded,
		"refunded_at":   now,
		"refund_reason": req.Reason,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	order.Status = models.OrderStatusRefunded
	order.RefundedAt = &now
	order.RefundReason = req.Reason

	s.releaseReservation(&order)

	if s.notificationService != nil {
		go s.notificationService.NotifyRefundProcessed(&order)
	}

	return &order, nil
}

func (s *PaymentService) GetOrder(id, actorID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Item").Preload("Buyer").Preload("Seller").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if actorID != order.BuyerID && actorID != order.SellerID {
		return nil, fmt.Errorf("%w: not a party to this order", ErrForbidden)
	}

	return &order, nil
}

func (s *PaymentService) GetOrderHistory(userID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Preload("Item")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "amount", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// releaseReservation undoes the goods reservation made at order creation.
func (s *PaymentService) releaseReservation(order *models.Order) {
	var item models.Item
	if err := s.db.First(&item, "id = ?", order.ItemID).Error; err != nil {
		return
	}

	if item.IsStoreItem {
		s.stockService.IncrementStock(item.ID, order.Quantity)
		return
	}

	status := models.ItemStatusAvailable
	if order.Status == models.OrderStatusRefunded {
		status = models.ItemStatusRefunded
	}
	s.db.Model(&item).Updates(map[string]interface{}{
		"status":    status,
		"is_active": true,
	})
}
