package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ladinglens/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendJobSummary(ctx context.Context, toEmail, jobID string, summary domain.ProcessingSummary) error {
	args := m.Called(ctx, toEmail, jobID, summary)
	return args.Error(0)
}
