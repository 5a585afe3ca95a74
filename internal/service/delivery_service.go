package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"zapirelay/internal/constants"
	"zapirelay/internal/httputil"
	"zapirelay/internal/metrics"
	"zapirelay/internal/models"
	"zapirelay/pkg/forwarder"

	"github.com/sirupsen/logrus"
)

// DeliveryService processes batched delivery-status callbacks. A batch is
// never all-or-nothing: each item resolves to its own outcome and the
// response reports them in input order.
type DeliveryService struct {
	messages      MessageStore
	deliveries    DeliveryStore
	fwd           forwarder.Forwarder
	internalURL   string
	retentionDays int
	logger        *logrus.Logger
}

func NewDeliveryService(messages MessageStore, deliveries DeliveryStore, fwd forwarder.Forwarder, internalBaseURL string, retentionDays int, logger *logrus.Logger) *DeliveryService {
	if retentionDays <= 0 {
		retentionDays = constants.DefaultDeliveryLogRetentionDays
	}
	return &DeliveryService{
		messages:      messages,
		deliveries:    deliveries,
		fwd:           fwd,
		internalURL:   statusUpdateURL(internalBaseURL),
		retentionDays: retentionDays,
		logger:        logger,
	}
}

func statusUpdateURL(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/") + "/atualizaretornomensagemporid/"
}

// ProcessBatch parses one callback body and processes every status item it
// carries. Body-level failures return models.ErrInvalidJSON or
// models.ErrMissingStatuses; once the batch parses, the error is always nil
// and failures are reported per item.
func (s *DeliveryService) ProcessBatch(ctx context.Context, body []byte, sourceIP string) (*models.DeliveryBatchResult, error) {
	s.cleanupOldLogs(ctx)

	var envelope struct {
		Statuses json.RawMessage `json:"statuses"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidJSON, err)
	}
	if len(envelope.Statuses) == 0 || string(envelope.Statuses) == "null" {
		return nil, models.ErrMissingStatuses
	}

	var items []json.RawMessage
	if err := json.Unmarshal(envelope.Statuses, &items); err != nil {
		return nil, fmt.Errorf("%w: statuses is not an array", models.ErrMissingStatuses)
	}

	result := &models.DeliveryBatchResult{
		Status:  "ok",
		Total:   len(items),
		Results: make([]models.DeliveryItemResult, 0, len(items)),
	}

	for _, raw := range items {
		item := s.processItem(ctx, raw, sourceIP)
		if item.Status == "ok" {
			result.Processed++
		} else {
			result.Failed++
		}
		result.Results = append(result.Results, item)
	}

	s.logger.WithFields(logrus.Fields{
		"total":     result.Total,
		"processed": result.Processed,
		"failed":    result.Failed,
	}).Info("Processed delivery callback batch")

	return result, nil
}

// processItem resolves one raw status fragment to its outcome and writes the
// delivery log row. A log-write failure never changes the outcome.
func (s *DeliveryService) processItem(ctx context.Context, raw json.RawMessage, sourceIP string) models.DeliveryItemResult {
	start := time.Now()

	var (
		key      string
		outcome  models.DeliveryOutcome
		response string
	)

	var item models.DeliveryStatusItem
	if err := json.Unmarshal(raw, &item); err != nil || item.Message == nil ||
		item.Message.MessageKey == "" || item.Message.Status == "" {
		outcome = models.DeliveryOutcomeInvalidPayload
	} else {
		key = item.Message.MessageKey
		outcome, response = s.resolveStatus(ctx, key, item.Message.Status)
	}

	s.saveLog(ctx, &models.DeliveryLog{
		MessageKey:      key,
		RawItem:         string(raw),
		Outcome:         outcome,
		ForwardResponse: response,
		SourceIP:        sourceIP,
		DurationMs:      time.Since(start).Milliseconds(),
	})

	metrics.IncrementCounter("delivery_items_total",
		map[string]string{"outcome": string(outcome)},
		"Delivery status items by outcome")

	status := string(outcome)
	if outcome == models.DeliveryOutcomeSuccess {
		status = "ok"
	}
	return models.DeliveryItemResult{MessageKey: key, Status: status}
}

// resolveStatus looks the message up and, when known, pushes the status
// update to the internal system.
func (s *DeliveryService) resolveStatus(ctx context.Context, key, status string) (models.DeliveryOutcome, string) {
	msg, err := s.messages.GetMessageLogByMessageID(ctx, key)
	if err != nil {
		s.logger.WithError(err).WithField("messageKey", key).Warn("Message lookup failed")
		return models.DeliveryOutcomeNotFound, httputil.Truncate(fmt.Sprintf("lookup error: %v", err), constants.MaxResponseSnippet)
	}
	if msg == nil {
		return models.DeliveryOutcomeNotFound, ""
	}

	update := models.InternalStatusUpdate{IDMensagem: key, RetornoEnvio: status}
	out := s.fwd.Forward(ctx, s.internalURL, update)
	if !out.Success() {
		return models.DeliveryOutcomeForwardError, out.ResponseSnippet
	}
	return models.DeliveryOutcomeSuccess, out.ResponseSnippet
}

func (s *DeliveryService) saveLog(ctx context.Context, log *models.DeliveryLog) {
	if err := s.deliveries.SaveDeliveryLog(ctx, log); err != nil {
		s.logger.WithError(err).WithField("messageKey", log.MessageKey).Error("Failed to save delivery log")
	}
}

func (s *DeliveryService) cleanupOldLogs(ctx context.Context) {
	removed, err := s.deliveries.CleanupOldDeliveryLogs(ctx, s.retentionDays)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to clean up old delivery logs")
		return
	}
	if removed > 0 {
		s.logger.WithField("removed", removed).Info("Cleaned up old delivery logs")
	}
}
