package service

import (
	"context"
	"encoding/json"
	"fmt"

	"zapirelay/internal/constants"
	"zapirelay/internal/metrics"
	"zapirelay/internal/models"
	"zapirelay/pkg/forwarder"

	"github.com/sirupsen/logrus"
)

// MessageService handles provider message-received callbacks. Persistence is
// the contract with the provider; forwarding to the external system is
// best-effort and its failure never turns into a webhook error.
type MessageService struct {
	messages      MessageStore
	fwd           forwarder.Forwarder
	externalURLs  []string
	retentionDays int
	logger        *logrus.Logger
}

func NewMessageService(messages MessageStore, fwd forwarder.Forwarder, externalURL string, retentionDays int, logger *logrus.Logger) *MessageService {
	if retentionDays <= 0 {
		retentionDays = constants.DefaultMessageRetentionDays
	}
	return &MessageService{
		messages:      messages,
		fwd:           fwd,
		externalURLs:  forwarder.SplitURLs(externalURL),
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// ProcessInbound persists one message event and forwards text messages to
// the external system. Non-text events are persisted and left pending.
func (s *MessageService) ProcessInbound(ctx context.Context, body []byte, sourceIP string) (*models.InboundResult, error) {
	s.cleanupOldLogs(ctx)

	var payload models.ZAPIMessagePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidJSON, err)
	}

	msg := &models.MessageLog{
		MessageID:     payload.MessageID,
		Phone:         payload.Phone,
		IsGroup:       payload.IsGroup,
		RawPayload:    string(body),
		ForwardStatus: models.ForwardStatusPending,
	}
	if payload.Text != nil {
		msg.Message = payload.Text.Message
		msg.Broadcast = payload.Text.Broadcast
	}

	id, err := s.messages.SaveMessageLog(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to save message log: %w", err)
	}

	result := &models.InboundResult{Status: "ok", Persisted: true}

	if !payload.IsText() {
		s.logger.WithFields(logrus.Fields{
			"messageId": payload.MessageID,
			"sourceIp":  sourceIP,
		}).Debug("Non-text message persisted, skipping forward")
		return result, nil
	}

	out := s.fwd.ForwardAny(ctx, s.externalURLs, json.RawMessage(body))
	result.Forwarded = out.Success()

	status := models.ForwardStatusSuccess
	if !out.Success() {
		status = models.ForwardStatusFailed
		s.logger.WithFields(logrus.Fields{
			"messageId": payload.MessageID,
			"response":  out.ResponseSnippet,
		}).Warn("Failed to forward inbound message")
	}

	var httpStatus *int
	if out.HTTPStatus != 0 {
		code := out.HTTPStatus
		httpStatus = &code
	}
	if err := s.messages.UpdateMessageForwardResult(ctx, id, status, out.ResponseSnippet, httpStatus); err != nil {
		s.logger.WithError(err).WithField("messageId", payload.MessageID).Error("Failed to record forward result")
	}

	metrics.IncrementCounter("inbound_messages_total",
		map[string]string{"forward": string(status)},
		"Inbound messages by forward result")

	return result, nil
}

func (s *MessageService) cleanupOldLogs(ctx context.Context) {
	removed, err := s.messages.CleanupOldMessageLogs(ctx, s.retentionDays)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to clean up old message logs")
		return
	}
	if removed > 0 {
		s.logger.WithField("removed", removed).Info("Cleaned up old message logs")
	}
}
