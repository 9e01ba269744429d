// internal/database/connection_test.go
package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
)

func newTransactionTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Badge{}))

	return db
}

func TestWithTransactionCommits(t *testing.T) {
	db := newTransactionTestDB(t)
	userID := uuid.New()

	err := WithTransaction(db, func(tx *gorm.DB) error {
		return tx.Create(&models.Badge{UserID: userID, Type: models.BadgeFiveStars}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Badge{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestWithTransactionRollsBack(t *testing.T) {
	db := newTransactionTestDB(t)
	userID := uuid.New()
	boom := errors.New("boom")

	err := WithTransaction(db, func(tx *gorm.DB) error {
		if err := tx.Create(&models.Badge{UserID: userID, Type: models.BadgeFiveStars}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&models.Badge{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
