package service

import (
	"context"

	"zapirelay/internal/models"
	"zapirelay/pkg/carga"
	"zapirelay/pkg/forwarder"

	"github.com/stretchr/testify/mock"
)

type mockMessageStore struct {
	mock.Mock
}

func (m *mockMessageStore) SaveMessageLog(ctx context.Context, msg *models.MessageLog) (int64, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageStore) GetMessageLogByMessageID(ctx context.Context, messageID string) (*models.MessageLog, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MessageLog), args.Error(1)
}

func (m *mockMessageStore) UpdateMessageForwardResult(ctx context.Context, id int64, status models.ForwardStatus, response string, httpStatus *int) error {
	args := m.Called(ctx, id, status, response, httpStatus)
	return args.Error(0)
}

func (m *mockMessageStore) CleanupOldMessageLogs(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}

type mockDeliveryStore struct {
	mock.Mock
}

func (m *mockDeliveryStore) SaveDeliveryLog(ctx context.Context, log *models.DeliveryLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *mockDeliveryStore) CleanupOldDeliveryLogs(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}

type mockTokenStore struct {
	mock.Mock
}

func (m *mockTokenStore) GetActiveAPIToken(ctx context.Context, token string) (*models.APIToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.APIToken), args.Error(1)
}

func (m *mockTokenStore) TouchAPIToken(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTokenStore) SaveAPIRequestLog(ctx context.Context, log *models.APIRequestLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *mockTokenStore) CleanupOldAPIRequestLogs(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}

type mockForwarder struct {
	mock.Mock
}

func (m *mockForwarder) Forward(ctx context.Context, url string, payload interface{}) forwarder.Outcome {
	args := m.Called(ctx, url, payload)
	return args.Get(0).(forwarder.Outcome)
}

func (m *mockForwarder) ForwardAny(ctx context.Context, urls []string, payload interface{}) forwarder.Outcome {
	args := m.Called(ctx, urls, payload)
	return args.Get(0).(forwarder.Outcome)
}

type mockCargaClient struct {
	mock.Mock
}

func (m *mockCargaClient) Lookup(ctx context.Context, cargaNumber string) (*carga.StatusResult, error) {
	args := m.Called(ctx, cargaNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*carga.StatusResult), args.Error(1)
}
