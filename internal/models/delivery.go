package models

import "time"

type DeliveryOutcome string

const (
	DeliveryOutcomeSuccess        DeliveryOutcome = "success"
	DeliveryOutcomeNotFound       DeliveryOutcome = "not_found"
	DeliveryOutcomeForwardError   DeliveryOutcome = "forward_error"
	DeliveryOutcomeInvalidPayload DeliveryOutcome = "invalid_payload"
)

// DeliveryLog is one durable record of a single status item processed from
// an inbound batch. Exactly one row exists per item, whatever the outcome.
// Rows are immutable after creation.
type DeliveryLog struct {
	ID              int64           `json:"id"`
	MessageKey      string          `json:"messageKey"`
	RawItem         string          `json:"rawItem"`
	Outcome         DeliveryOutcome `json:"outcome"`
	ForwardResponse string          `json:"forwardResponse"`
	SourceIP        string          `json:"sourceIp"`
	DurationMs      int64           `json:"durationMs"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// DeliveryItemResult is one entry of the aggregate batch response. Status is
// "ok" for a successful forward, otherwise the outcome name.
type DeliveryItemResult struct {
	MessageKey string `json:"message_key"`
	Status     string `json:"status"`
}

// DeliveryBatchResult is the aggregate response for one delivery-callback
// batch. Results preserve input order; Processed+Failed == Total.
type DeliveryBatchResult struct {
	Status    string               `json:"status"`
	Processed int                  `json:"processed"`
	Failed    int                  `json:"failed"`
	Total     int                  `json:"total"`
	Results   []DeliveryItemResult `json:"results"`
}
