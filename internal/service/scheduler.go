package service

import (
	"context"
	"time"

	"zapirelay/internal/constants"
	"zapirelay/internal/models"

	"github.com/sirupsen/logrus"
)

// cleanupStore is the retention surface the scheduler sweeps.
type cleanupStore interface {
	CleanupOldMessageLogs(ctx context.Context, retentionDays int) (int64, error)
	CleanupOldDeliveryLogs(ctx context.Context, retentionDays int) (int64, error)
	CleanupOldAPIRequestLogs(ctx context.Context, retentionDays int) (int64, error)
}

// Scheduler runs periodic retention cleanup over the three log tables. The
// webhook pipelines also clean opportunistically; the scheduler covers idle
// deployments where no traffic triggers those sweeps.
type Scheduler struct {
	store         cleanupStore
	retention     models.RetentionConfig
	intervalHours int
	logger        *logrus.Logger
	stopCh        chan struct{}
}

func NewScheduler(store cleanupStore, retention models.RetentionConfig, intervalHours int, logger *logrus.Logger) *Scheduler {
	if intervalHours <= 0 {
		intervalHours = constants.DefaultCleanupIntervalHours
	}
	return &Scheduler{
		store:         store,
		retention:     retention,
		intervalHours: intervalHours,
		logger:        logger,
		stopCh:        make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(s.intervalHours) * time.Hour)
	defer ticker.Stop()

	s.logger.Info("Starting cleanup scheduler")

	s.runCleanup(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler context cancelled, stopping")
			return
		case <-s.stopCh:
			s.logger.Info("Scheduler stop signal received, stopping")
			return
		case <-ticker.C:
			s.runCleanup(ctx)
		}
	}
}

func (s *Scheduler) Stop() {
	close(s.stopCh)
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	s.logger.Info("Running scheduled cleanup")

	sweeps := []struct {
		name string
		days int
		fn   func(context.Context, int) (int64, error)
	}{
		{"message_logs", s.retention.MessageDays, s.store.CleanupOldMessageLogs},
		{"delivery_webhook_logs", s.retention.DeliveryLogDays, s.store.CleanupOldDeliveryLogs},
		{"api_request_logs", s.retention.APILogDays, s.store.CleanupOldAPIRequestLogs},
	}

	for _, sweep := range sweeps {
		removed, err := sweep.fn(ctx, sweep.days)
		if err != nil {
			s.logger.WithError(err).WithField("table", sweep.name).Error("Cleanup failed")
			continue
		}
		if removed > 0 {
			s.logger.WithFields(logrus.Fields{
				"table":   sweep.name,
				"removed": removed,
			}).Info("Cleanup removed old records")
		}
	}
}
