package database

import (
	"context"
	"database/sql"
	"fmt"

	"zapirelay/internal/models"
)

// SaveMessageLog persists a newly received message event with forward status
// pending and returns the stored record's ID.
func (d *Database) SaveMessageLog(ctx context.Context, msg *models.MessageLog) (int64, error) {
	encryptedPhone, err := d.encryptor.EncryptIfEnabled(msg.Phone)
	if err != nil {
		return 0, fmt.Errorf("failed to encrypt phone: %w", err)
	}

	encryptedMessage, err := d.encryptor.EncryptIfEnabled(msg.Message)
	if err != nil {
		return 0, fmt.Errorf("failed to encrypt message: %w", err)
	}

	var id int64
	err = retryableDBOperation(ctx, func() error {
		result, execErr := d.db.ExecContext(ctx, InsertMessageLogQuery,
			msg.MessageID,
			encryptedPhone,
			encryptedMessage,
			msg.IsGroup,
			msg.Broadcast,
			msg.RawPayload,
			string(models.ForwardStatusPending),
		)
		if execErr != nil {
			return execErr
		}
		id, execErr = result.LastInsertId()
		return execErr
	}, "save message log")
	if err != nil {
		return 0, fmt.Errorf("failed to save message log: %w", err)
	}

	return id, nil
}

// GetMessageLogByMessageID returns the most recent message log with the given
// external message identifier, or nil when none exists.
func (d *Database) GetMessageLogByMessageID(ctx context.Context, messageID string) (*models.MessageLog, error) {
	msg := &models.MessageLog{}
	var encryptedPhone, rawPayload string
	var encryptedMessage, forwardResponse sql.NullString

	err := d.db.QueryRowContext(ctx, SelectMessageLogByMessageIDQuery, messageID).Scan(
		&msg.ID,
		&msg.MessageID,
		&encryptedPhone,
		&encryptedMessage,
		&msg.IsGroup,
		&msg.Broadcast,
		&rawPayload,
		&msg.ForwardStatus,
		&forwardResponse,
		&msg.ForwardHTTPStatus,
		&msg.ForwardedAt,
		&msg.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message log: %w", err)
	}

	msg.RawPayload = rawPayload
	msg.ForwardResponse = forwardResponse.String

	msg.Phone, err = d.encryptor.DecryptIfEnabled(encryptedPhone)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt phone: %w", err)
	}

	msg.Message, err = d.encryptor.DecryptIfEnabled(encryptedMessage.String)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt message: %w", err)
	}

	return msg, nil
}

// UpdateMessageForwardResult records the terminal outcome of the forward
// attempt. The pending guard in the query makes the pending-to-terminal
// transition happen at most once per record.
func (d *Database) UpdateMessageForwardResult(ctx context.Context, id int64, status models.ForwardStatus, response string, httpStatus *int) error {
	result, err := d.db.ExecContext(ctx, UpdateMessageForwardResultQuery,
		string(status), response, httpStatus, id)
	if err != nil {
		return fmt.Errorf("failed to update forward result: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no pending message log with id %d", id)
	}

	return nil
}

// CleanupOldMessageLogs deletes message logs older than retentionDays and
// returns the number of rows removed. Safe to run repeatedly.
func (d *Database) CleanupOldMessageLogs(ctx context.Context, retentionDays int) (int64, error) {
	result, err := d.db.ExecContext(ctx, DeleteOldMessageLogsQuery, retentionDays)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old message logs: %w", err)
	}
	return result.RowsAffected()
}
