package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"ladinglens/internal/domain"
	"ladinglens/internal/service"
)

// MockJobService is a mock implementation of service.JobService.
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) CreateJob(ctx context.Context, skipDedupe bool) (*domain.ProcessingJob, error) {
	args := m.Called(ctx, skipDedupe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessingJob), args.Error(1)
}

func (m *MockJobService) StartInlineJob(ctx context.Context, skipDedupe bool) (*domain.ProcessingJob, error) {
	args := m.Called(ctx, skipDedupe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessingJob), args.Error(1)
}

func (m *MockJobService) FinishInlineJob(ctx context.Context, id uuid.UUID, runErr error, summary domain.ProcessingSummary) error {
	args := m.Called(ctx, id, runErr, summary)
	return args.Error(0)
}

func (m *MockJobService) GetJob(ctx context.Context, id uuid.UUID) (*service.JobWithLogs, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.JobWithLogs), args.Error(1)
}

func (m *MockJobService) ListJobs(ctx context.Context, limit int) ([]domain.ProcessingJob, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProcessingJob), args.Error(1)
}
