package database

// Message log queries
const (
	InsertMessageLogQuery = `
		INSERT INTO message_logs (
			message_id, phone, message, is_group, broadcast,
			raw_payload, forward_status
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	SelectMessageLogByMessageIDQuery = `
		SELECT id, message_id, phone, message, is_group, broadcast,
			   raw_payload, forward_status, forward_response, forward_http_status,
			   forwarded_at, created_at
		FROM message_logs
		WHERE message_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	UpdateMessageForwardResultQuery = `
		UPDATE message_logs
		SET forward_status = ?, forward_response = ?, forward_http_status = ?,
		    forwarded_at = CURRENT_TIMESTAMP
		WHERE id = ? AND forward_status = 'pending'
	`

	DeleteOldMessageLogsQuery = `
		DELETE FROM message_logs
		WHERE created_at < datetime('now', '-' || ? || ' days')
	`
)

// Delivery webhook log queries
const (
	InsertDeliveryLogQuery = `
		INSERT INTO delivery_webhook_logs (
			message_key, raw_item, outcome, forward_response, source_ip, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	CountDeliveryLogsQuery = `
		SELECT COUNT(*) FROM delivery_webhook_logs
	`

	DeleteOldDeliveryLogsQuery = `
		DELETE FROM delivery_webhook_logs
		WHERE created_at < datetime('now', '-' || ? || ' days')
	`
)

// API token and request log queries
const (
	InsertAPITokenQuery = `
		INSERT INTO api_tokens (token, label, active) VALUES (?, ?, TRUE)
	`

	SelectActiveAPITokenQuery = `
		SELECT id, token, label, active, last_used_at, created_at
		FROM api_tokens
		WHERE token = ? AND active = TRUE
	`

	SelectAllAPITokensQuery = `
		SELECT id, token, label, active, last_used_at, created_at
		FROM api_tokens
		ORDER BY created_at
	`

	TouchAPITokenQuery = `
		UPDATE api_tokens SET last_used_at = CURRENT_TIMESTAMP WHERE id = ?
	`

	DeactivateAPITokenQuery = `
		UPDATE api_tokens SET active = FALSE WHERE id = ?
	`

	InsertAPIRequestLogQuery = `
		INSERT INTO api_request_logs (
			source_ip, token_id, carga_number, response_status, duration_ms
		) VALUES (?, ?, ?, ?, ?)
	`

	DeleteOldAPIRequestLogsQuery = `
		DELETE FROM api_request_logs
		WHERE created_at < datetime('now', '-' || ? || ' days')
	`
)
