// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pradeepthalla80/grocery-share-backend/internal/config"
	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		}
	} else {
		gormConfig = &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Info),
			TranslateError: true,
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Item{},
		&models.Conversation{},
		&models.Message{},
		&models.PickupRequest{},
		&models.Order{},
		&models.Rating{},
		&models.Badge{},
		&models.Notification{},
		&models.StoreAgreement{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)",
		"CREATE INDEX IF NOT EXISTS idx_users_role_status ON users(role, status)",

		// Item indexes
		"CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owner_id)",
		"CREATE INDEX IF NOT EXISTS idx_items_category_status ON items(category, status)",
		"CREATE INDEX IF NOT EXISTS idx_items_active_status ON items(is_active, status)",
		"CREATE INDEX IF NOT EXISTS idx_items_location ON items(latitude, longitude)",
		"CREATE INDEX IF NOT EXISTS idx_items_expires_at ON items(expires_at)",
		"CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at DESC)",

		// Conversation and message indexes
		"CREATE INDEX IF NOT EXISTS idx_conversations_buyer ON conversations(buyer_id)",
		"CREATE INDEX IF NOT EXISTS idx_conversations_seller ON conversations(seller_id)",
		"CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at)",

		// Pickup request indexes
		"CREATE INDEX IF NOT EXISTS idx_pickup_requests_requester ON pickup_requests(requester_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_pickup_requests_seller ON pickup_requests(seller_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_pickup_requests_item ON pickup_requests(item_id)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders(seller_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, created_at DESC)",

		// Rating and notification indexes
		"CREATE INDEX IF NOT EXISTS idx_ratings_ratee ON ratings(ratee_id)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, is_read, created_at DESC)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",

		// Full-text search indexes
		"CREATE INDEX IF NOT EXISTS idx_items_search ON items USING GIN(to_tsvector('english', title || ' ' || description))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
