// internal/services/badge_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
)

func TestAwardBadgeOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	user := createTestUser(t, db, "sharer")

	svc.Award(user.ID, models.BadgeFirstShare)
	svc.Award(user.ID, models.BadgeFirstShare)
	svc.Award(user.ID, models.BadgeFiveStars)

	badges, err := svc.ListBadges(user.ID)
	require.NoError(t, err)
	require.Len(t, badges, 2)
	assert.Equal(t, models.BadgeFirstShare, badges[0].Type)
	assert.Equal(t, "First Share", badges[0].Label)
	assert.Equal(t, models.BadgeFiveStars, badges[1].Type)
}
