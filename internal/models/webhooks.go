package models

import "encoding/json"

// ZAPIMessagePayload is the provider's message-received callback body. Only
// the fields the relay consumes are declared; the raw body is persisted
// alongside the decoded fields.
type ZAPIMessagePayload struct {
	MessageID string     `json:"messageId"`
	Phone     string     `json:"phone"`
	IsGroup   bool       `json:"isGroup"`
	Text      *TextBlock `json:"text"`
}

// TextBlock is the nested text object of a message callback. Non-text
// messages carry no text block and are persisted but not forwarded.
type TextBlock struct {
	Message   string `json:"message"`
	Broadcast bool   `json:"broadcast"`
}

// IsText reports whether the payload describes a text message.
func (p *ZAPIMessagePayload) IsText() bool {
	return p.Text != nil
}

// DeliveryCallbackPayload is the batched delivery-status callback body.
// Items are kept raw so one malformed entry cannot abort decoding the rest.
type DeliveryCallbackPayload struct {
	Statuses []json.RawMessage `json:"statuses"`
}

// DeliveryStatusItem is the decoded shape of one statuses entry. Message may
// be nil or partially populated; the pipeline treats missing nested fields
// as an item-level invalid_payload outcome.
type DeliveryStatusItem struct {
	Message *DeliveryStatusMessage `json:"message"`
}

type DeliveryStatusMessage struct {
	ID         string `json:"id"`
	MessageKey string `json:"message_key"`
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
}

// InternalStatusUpdate is the payload posted to the internal system for each
// processed delivery status item.
type InternalStatusUpdate struct {
	IDMensagem   string `json:"id_mensagem"`
	RetornoEnvio string `json:"retorno_envio"`
}
