// internal/services/cleanup_service.go
package services

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pradeepthalla80/grocery-share-backend/internal/config"
	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
)

// CleanupService runs the periodic housekeeping jobs: deactivating expired
// listings and declining pickup requests nobody answered.
type CleanupService struct {
	db        *gorm.DB
	cfg       *config.Config
	scheduler gocron.Scheduler
}

func NewCleanupService(db *gorm.DB, cfg *config.Config) (*CleanupService, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &CleanupService{
		db:        db,
		cfg:       cfg,
		scheduler: scheduler,
	}, nil
}

func (s *CleanupService) Start() error {
	interval := time.Duration(s.cfg.Cleanup.IntervalMinutes) * time.Minute

	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.runOnce),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup job: %w", err)
	}

	s.scheduler.Start()
	logrus.WithField("interval", interval).Info("cleanup scheduler started")

	return nil
}

func (s *CleanupService) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *CleanupService) runOnce() {
	if n, err := s.DeactivateExpiredItems(); err != nil {
		logrus.WithError(err).Error("failed to deactivate expired items")
	} else if n > 0 {
		logrus.WithField("count", n).Info("deactivated expired items")
	}

	if n, err := s.DeclineStalePickupRequests(); err != nil {
		logrus.WithError(err).Error("failed to decline stale pickup requests")
	} else if n > 0 {
		logrus.WithField("count", n).Info("declined stale pickup requests")
	}
}

// DeactivateExpiredItems hides live listings whose expiry has passed.
func (s *CleanupService) DeactivateExpiredItems() (int64, error) {
	res := s.db.Model(&models.Item{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at < ?", true, time.Now()).
		Update("is_active", false)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// DeclineStalePickupRequests closes pending requests older than the
// configured TTL so requesters are not left waiting forever.
func (s *CleanupService) DeclineStalePickupRequests() (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.Cleanup.PickupRequestTTLDays)
	now := time.Now()

	res := s.db.Model(&models.PickupRequest{}).
		Where("status = ? AND created_at < ?", models.PickupStatusPending, cutoff).
		Updates(map[string]interface{}{
			"status":         models.PickupStatusDeclined,
			"decline_reason": "request expired without a response",
			"declined_at":    now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
