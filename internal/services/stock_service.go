// internal/services/stock_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
)

// StockService is the stock ledger for store items. All quantity math is a
// single conditional UPDATE evaluated by the database, so concurrent
// decrements can never take the quantity negative.
type StockService struct {
	db *gorm.DB
}

func NewStockService(db *gorm.DB) *StockService {
	return &StockService{db: db}
}

// DecrementStock subtracts qty from a store item. Non-store items have no
// quantity concept and succeed as a no-op. The quantity >= qty predicate
// lives inside the UPDATE; zero rows affected on an existing item means the
// predicate failed.
func (s *StockService) DecrementStock(itemID uuid.UUID, qty int) (*models.Item, error) {
	return s.adjust(itemID, qty, true)
}

// IncrementStock adds qty back to a store item (refunds, canceled orders).
func (s *StockService) IncrementStock(itemID uuid.UUID, qty int) (*models.Item, error) {
	return s.adjust(itemID, qty, false)
}

func (s *StockService) adjust(itemID uuid.UUID, qty int, decrement bool) (*models.Item, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	var item models.Item
	if err := s.db.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !item.IsStoreItem {
		// Single-use listings carry no quantity.
		return &item, nil
	}

	query := s.db.Model(&models.Item{}).
		Where("id = ? AND is_store_item = ?", itemID, true)

	delta := "+"
	if decrement {
		delta = "-"
		query = query.Where("quantity >= ?", qty)
	}

	// quantity and stock_status are computed from the pre-update row in one
	// statement; both engines evaluate SET expressions against the original
	// values.
	res := query.Updates(map[string]interface{}{
		"quantity": gorm.Expr("quantity "+delta+" ?", qty),
		"stock_status": gorm.Expr(
			"CASE WHEN quantity "+delta+" ? <= 0 THEN ? WHEN quantity "+delta+" ? <= ? THEN ? ELSE ? END",
			qty, string(models.StockStatusOutOfStock),
			qty, models.LowStockThreshold, string(models.StockStatusLowStock),
			string(models.StockStatusInStock),
		),
	})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		// The item existed a moment ago; distinguish a lost row from a
		// failed predicate.
		var check int64
		s.db.Model(&models.Item{}).Where("id = ?", itemID).Count(&check)
		if check == 0 {
			return nil, ErrItemNotFound
		}
		return nil, ErrOutOfStock
	}

	if err := s.db.First(&item, "id = ?", itemID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload item: %w", err)
	}

	return &item, nil
}
