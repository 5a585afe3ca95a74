package database

import (
	"context"
	"fmt"

	"zapirelay/internal/models"
)

// SaveDeliveryLog persists one processed delivery status item. Rows are
// immutable once written; every batch item produces exactly one row.
func (d *Database) SaveDeliveryLog(ctx context.Context, log *models.DeliveryLog) error {
	err := retryableDBOperation(ctx, func() error {
		_, execErr := d.db.ExecContext(ctx, InsertDeliveryLogQuery,
			log.MessageKey,
			log.RawItem,
			string(log.Outcome),
			log.ForwardResponse,
			log.SourceIP,
			log.DurationMs,
		)
		return execErr
	}, "save delivery log")
	if err != nil {
		return fmt.Errorf("failed to save delivery log: %w", err)
	}
	return nil
}

// CountDeliveryLogs returns the total number of delivery log rows.
func (d *Database) CountDeliveryLogs(ctx context.Context) (int64, error) {
	var count int64
	if err := d.db.QueryRowContext(ctx, CountDeliveryLogsQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count delivery logs: %w", err)
	}
	return count, nil
}

// CleanupOldDeliveryLogs deletes delivery logs older than retentionDays and
// returns the number of rows removed.
func (d *Database) CleanupOldDeliveryLogs(ctx context.Context, retentionDays int) (int64, error) {
	result, err := d.db.ExecContext(ctx, DeleteOldDeliveryLogsQuery, retentionDays)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old delivery logs: %w", err)
	}
	return result.RowsAffected()
}
