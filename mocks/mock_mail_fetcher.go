package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ladinglens/internal/port"
)

// MockMailFetcher is a mock implementation of port.MailFetcher.
type MockMailFetcher struct {
	mock.Mock
}

func (m *MockMailFetcher) FetchRecent(ctx context.Context, limit int) ([]port.MailMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.MailMessage), args.Error(1)
}

func (m *MockMailFetcher) FetchAttachment(ctx context.Context, messageID string, ref port.AttachmentRef) ([]byte, error) {
	args := m.Called(ctx, messageID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
