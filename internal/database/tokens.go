package database

import (
	"context"
	"database/sql"
	"fmt"

	"zapirelay/internal/models"
)

// CreateAPIToken stores a new query API credential and returns its ID. The
// secret itself is generated by the caller and shown only once.
func (d *Database) CreateAPIToken(ctx context.Context, token, label string) (int64, error) {
	result, err := d.db.ExecContext(ctx, InsertAPITokenQuery, token, label)
	if err != nil {
		return 0, fmt.Errorf("failed to create API token: %w", err)
	}
	return result.LastInsertId()
}

// GetActiveAPIToken looks a credential up by its secret value. Inactive and
// unknown tokens both return nil.
func (d *Database) GetActiveAPIToken(ctx context.Context, token string) (*models.APIToken, error) {
	t := &models.APIToken{}
	err := d.db.QueryRowContext(ctx, SelectActiveAPITokenQuery, token).Scan(
		&t.ID, &t.Token, &t.Label, &t.Active, &t.LastUsedAt, &t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get API token: %w", err)
	}
	return t, nil
}

// ListAPITokens returns every credential, active or not, oldest first.
func (d *Database) ListAPITokens(ctx context.Context) ([]*models.APIToken, error) {
	rows, err := d.db.QueryContext(ctx, SelectAllAPITokensQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list API tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*models.APIToken
	for rows.Next() {
		t := &models.APIToken{}
		if err := rows.Scan(&t.ID, &t.Token, &t.Label, &t.Active, &t.LastUsedAt, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan API token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// TouchAPIToken updates the credential's last-used timestamp.
func (d *Database) TouchAPIToken(ctx context.Context, id int64) error {
	if _, err := d.db.ExecContext(ctx, TouchAPITokenQuery, id); err != nil {
		return fmt.Errorf("failed to touch API token: %w", err)
	}
	return nil
}

// DeactivateAPIToken retires a credential. Tokens are never hard-deleted.
func (d *Database) DeactivateAPIToken(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, DeactivateAPITokenQuery, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate API token: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no API token with id %d", id)
	}
	return nil
}

// SaveAPIRequestLog records one query API call, whatever branch it took.
func (d *Database) SaveAPIRequestLog(ctx context.Context, log *models.APIRequestLog) error {
	err := retryableDBOperation(ctx, func() error {
		_, execErr := d.db.ExecContext(ctx, InsertAPIRequestLogQuery,
			log.SourceIP, log.TokenID, log.CargaNumber, log.ResponseStatus, log.DurationMs)
		return execErr
	}, "save API request log")
	if err != nil {
		return fmt.Errorf("failed to save API request log: %w", err)
	}
	return nil
}

// CleanupOldAPIRequestLogs deletes request logs older than retentionDays and
// returns the number of rows removed.
func (d *Database) CleanupOldAPIRequestLogs(ctx context.Context, retentionDays int) (int64, error) {
	result, err := d.db.ExecContext(ctx, DeleteOldAPIRequestLogsQuery, retentionDays)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old API request logs: %w", err)
	}
	return result.RowsAffected()
}
