package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"ladinglens/internal/domain"
	"ladinglens/internal/service"
)

// MockProcessingService is a mock implementation of service.ProcessingService.
type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) Run(ctx context.Context, jobID uuid.UUID, skipDedupe bool, progress service.ProgressFunc) (domain.ProcessingSummary, error) {
	args := m.Called(ctx, jobID, skipDedupe, progress)
	return args.Get(0).(domain.ProcessingSummary), args.Error(1)
}
