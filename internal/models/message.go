package models

import "time"

type ForwardStatus string

const (
	ForwardStatusPending ForwardStatus = "pending"
	ForwardStatusSuccess ForwardStatus = "success"
	ForwardStatusFailed  ForwardStatus = "failed"
)

// MessageLog is one externally-received message event. The forward status
// starts at pending and transitions at most once, to a terminal value, after
// the forward attempt completes.
type MessageLog struct {
	ID                int64         `json:"id"`
	MessageID         string        `json:"messageId"`
	Phone             string        `json:"phone"`
	Message           string        `json:"message"`
	IsGroup           bool          `json:"isGroup"`
	Broadcast         bool          `json:"broadcast"`
	RawPayload        string        `json:"rawPayload"`
	ForwardStatus     ForwardStatus `json:"forwardStatus"`
	ForwardResponse   string        `json:"forwardResponse"`
	ForwardHTTPStatus *int          `json:"forwardHttpStatus,omitempty"`
	ForwardedAt       *time.Time    `json:"forwardedAt,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// InboundResult is the acknowledgement returned to the provider. Forwarding
// failures never surface here; the provider-facing contract is "persisted".
type InboundResult struct {
	Status    string `json:"status"`
	Persisted bool   `json:"-"`
	Forwarded bool   `json:"-"`
}
