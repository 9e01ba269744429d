// internal/services/testutil_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

// newTestDB opens a fresh in-memory database with the full schema. Each test
// gets its own named shared-cache database so the pool's connections all see
// the same data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
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
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:      username,
		Email:         username + "@example.com",
		Role:          models.UserRoleMember,
		Status:        models.UserStatusActive,
		PickupAddress: "12 Elm Street",
		Latitude:      40.7128,
		Longitude:     -74.0060,
	}
	require.NoError(t, user.SetPassword("TestPass123!"))
	require.NoError(t, db.Create(user).Error)

	return user
}

func createTestItem(t *testing.T, db *gorm.DB, owner *models.User, mutate ...func(*models.Item)) *models.Item {
	t.Helper()

	item := &models.Item{
		OwnerID:       owner.ID,
		Title:         "Sourdough loaf",
		Description:   "Baked this morning, more than we can eat",
		Category:      "bakery",
		IsFree:        true,
		PickupAddress: "12 Elm Street",
		Latitude:      owner.Latitude,
		Longitude:     owner.Longitude,
		Status:        models.ItemStatusAvailable,
		IsActive:      true,
	}
	for _, m := range mutate {
		m(item)
	}
	require.NoError(t, db.Create(item).Error)

	return item
}

func testPagination() utils.PaginationParams {
	return utils.PaginationParams{
		Page:  1,
		Limit: 20,
		Sort:  "created_at",
		Order: "desc",
	}
}
