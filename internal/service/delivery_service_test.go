package service

import (
	"context"
	"errors"
	"testing"

	"zapirelay/internal/models"
	"zapirelay/pkg/forwarder"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDeliveryFixture(t *testing.T) (*DeliveryService, *mockMessageStore, *mockDeliveryStore, *mockForwarder) {
	t.Helper()
	messages := &mockMessageStore{}
	deliveries := &mockDeliveryStore{}
	fwd := &mockForwarder{}
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	svc := NewDeliveryService(messages, deliveries, fwd, "http://internal.example.com", 30, logger)
	return svc, messages, deliveries, fwd
}

func batchBody(items ...string) []byte {
	body := `{"statuses":[`
	for i, item := range items {
		if i > 0 {
			body += ","
		}
		body += item
	}
	return []byte(body + `]}`)
}

func TestProcessBatch_MixedOutcomes(t *testing.T) {
	svc, messages, deliveries, fwd := newDeliveryFixture(t)
	deliveries.On("CleanupOldDeliveryLogs", mock.Anything, 30).Return(int64(0), nil)
	deliveries.On("SaveDeliveryLog", mock.Anything, mock.Anything).Return(nil)

	messages.On("GetMessageLogByMessageID", mock.Anything, "key-ok").
		Return(&models.MessageLog{ID: 1, MessageID: "key-ok"}, nil)
	messages.On("GetMessageLogByMessageID", mock.Anything, "key-missing").
		Return(nil, nil)
	messages.On("GetMessageLogByMessageID", mock.Anything, "key-fwd-fail").
		Return(&models.MessageLog{ID: 2, MessageID: "key-fwd-fail"}, nil)

	fwd.On("Forward", mock.Anything, "http://internal.example.com/atualizaretornomensagemporid/",
		models.InternalStatusUpdate{IDMensagem: "key-ok", RetornoEnvio: "DELIVERED"}).
		Return(forwarder.Outcome{Status: forwarder.OutcomeSuccess, HTTPStatus: 200})
	fwd.On("Forward", mock.Anything, "http://internal.example.com/atualizaretornomensagemporid/",
		models.InternalStatusUpdate{IDMensagem: "key-fwd-fail", RetornoEnvio: "READ"}).
		Return(forwarder.Outcome{Status: forwarder.OutcomeFailed, ResponseSnippet: "HTTP 500: boom", HTTPStatus: 500})

	body := batchBody(
		`{"message":{"message_key":"key-ok","status":"DELIVERED"}}`,
		`{"message":{"message_key":"key-missing","status":"DELIVERED"}}`,
		`{"message":{"message_key":"key-fwd-fail","status":"READ"}}`,
		`{"message":{"status":"DELIVERED"}}`,
	)

	result, err := svc.ProcessBatch(context.Background(), body, "203.0.113.9")
	require.NoError(t, err)

	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 3, result.Failed)

	require.Len(t, result.Results, 4)
	assert.Equal(t, models.DeliveryItemResult{MessageKey: "key-ok", Status: "ok"}, result.Results[0])
	assert.Equal(t, models.DeliveryItemResult{MessageKey: "key-missing", Status: "not_found"}, result.Results[1])
	assert.Equal(t, models.DeliveryItemResult{MessageKey: "key-fwd-fail", Status: "forward_error"}, result.Results[2])
	assert.Equal(t, models.DeliveryItemResult{MessageKey: "", Status: "invalid_payload"}, result.Results[3])

	deliveries.AssertNumberOfCalls(t, "SaveDeliveryLog", 4)
}

func TestProcessBatch_InvalidJSON(t *testing.T) {
	svc, _, deliveries, _ := newDeliveryFixture(t)
	deliveries.On("CleanupOldDeliveryLogs", mock.Anything, 30).Return(int64(0), nil)

	result, err := svc.ProcessBatch(context.Background(), []byte(`{not json`), "203.0.113.9")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrInvalidJSON)
}

func TestProcessBatch_MissingStatuses(t *testing.T) {
	svc, _, deliveries, _ := newDeliveryFixture(t)
	deliveries.On("CleanupOldDeliveryLogs", mock.Anything, 30).Return(int64(0), nil)

	for _, body := range []string{`{}`, `{"statuses":null}`, `{"statuses":"nope"}`} {
		result, err := svc.ProcessBatch(context.Background(), []byte(body), "203.0.113.9")
		assert.Nil(t, result, body)
		assert.ErrorIs(t, err, models.ErrMissingStatuses, body)
	}
}

func TestProcessBatch_EmptyStatuses(t *testing.T) {
	svc, _, deliveries, _ := newDeliveryFixture(t)
	deliveries.On("CleanupOldDeliveryLogs", mock.Anything, 30).Return(int64(0), nil)

	result, err := svc.ProcessBatch(context.Background(), []byte(`{"statuses":[]}`), "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Results)
}

func TestProcessBatch_InvalidItemSkipsLookupAndForward(t *testing.T) {
	svc, messages, deliveries, fwd := newDeliveryFixture(t)
	deliveries.On("CleanupOldDeliveryLogs", mock.Anything, 30).Return(int64(0), nil)
	deliveries.On("SaveDeliveryLog", mock.Anything, mock.Anything).Return(nil)

	body := batchBody(
		`"just a string"`,
		`{"message":null}`,
		`{"message":{"message_key":"k","status":""}}`,
	)
	result, err := svc.ProcessBatch(context.Background(), body, "203.0.113.9")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Failed)
	for _, r := range result.Results {
		assert.Equal(t, "invalid_payload", r.Status)
	}
	messages.AssertNotCalled(t, "GetMessageLogByMessageID", mock.Anything, mock.Anything)
	fwd.AssertNotCalled(t, "Forward", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessBatch_LogWriteFailureKeepsOutcome(t *testing.T) {
	svc, messages, deliveries, fwd := newDeliveryFixture(t)
	deliveries.On("CleanupOldDeliveryLogs", mock.Anything, 30).Return(int64(0), nil)
	deliveries.On("SaveDeliveryLog", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	messages.On("GetMessageLogByMessageID", mock.Anything, "key-1").
		Return(&models.MessageLog{ID: 1, MessageID: "key-1"}, nil)
	fwd.On("Forward", mock.Anything, mock.Anything, mock.Anything).
		Return(forwarder.Outcome{Status: forwarder.OutcomeSuccess, HTTPStatus: 200})

	body := batchBody(`{"message":{"message_key":"key-1","status":"DELIVERED"}}`)
	result, err := svc.ProcessBatch(context.Background(), body, "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, "ok", result.Results[0].Status)
}

func TestProcessBatch_RecordsRawItemAndSourceIP(t *testing.T) {
	svc, _, deliveries, _ := newDeliveryFixture(t)
	deliveries.On("CleanupOldDeliveryLogs", mock.Anything, 30).Return(int64(0), nil)

	var saved *models.DeliveryLog
	deliveries.On("SaveDeliveryLog", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*models.DeliveryLog)
		}).Return(nil)

	raw := `{"message":{"status":"DELIVERED"}}`
	_, err := svc.ProcessBatch(context.Background(), batchBody(raw), "198.51.100.7")
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.JSONEq(t, raw, saved.RawItem)
	assert.Equal(t, "198.51.100.7", saved.SourceIP)
	assert.Equal(t, models.DeliveryOutcomeInvalidPayload, saved.Outcome)
}

func TestProcessBatch_CleanupFailureDoesNotAbort(t *testing.T) {
	svc, _, deliveries, _ := newDeliveryFixture(t)
	deliveries.On("CleanupOldDeliveryLogs", mock.Anything, 30).Return(int64(0), errors.New("locked"))

	result, err := svc.ProcessBatch(context.Background(), []byte(`{"statuses":[]}`), "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
}
