package service

import (
	"context"

	"zapirelay/internal/models"
)

// MessageStore is the persistence surface the inbound and delivery pipelines
// need from the message log table.
type MessageStore interface {
	SaveMessageLog(ctx context.Context, msg *models.MessageLog) (int64, error)
	GetMessageLogByMessageID(ctx context.Context, messageID string) (*models.MessageLog, error)
	UpdateMessageForwardResult(ctx context.Context, id int64, status models.ForwardStatus, response string, httpStatus *int) error
	CleanupOldMessageLogs(ctx context.Context, retentionDays int) (int64, error)
}

// DeliveryStore persists one row per delivery status item.
type DeliveryStore interface {
	SaveDeliveryLog(ctx context.Context, log *models.DeliveryLog) error
	CleanupOldDeliveryLogs(ctx context.Context, retentionDays int) (int64, error)
}

// TokenStore backs carga query API authentication and auditing.
type TokenStore interface {
	GetActiveAPIToken(ctx context.Context, token string) (*models.APIToken, error)
	TouchAPIToken(ctx context.Context, id int64) error
	SaveAPIRequestLog(ctx context.Context, log *models.APIRequestLog) error
	CleanupOldAPIRequestLogs(ctx context.Context, retentionDays int) (int64, error)
}
