package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ladinglens/internal/domain"
	"ladinglens/internal/service"
	"ladinglens/mocks"
)

func TestJobService_CreateJob(t *testing.T) {
	repo := new(mocks.MockJobRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(job *domain.ProcessingJob) bool {
		return job.ID != uuid.Nil && job.SkipDedupe
	})).Return(nil)

	svc := service.NewJobService(repo)
	job, err := svc.CreateJob(context.Background(), true)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.True(t, job.SkipDedupe)
	repo.AssertExpectations(t)
}

func TestJobService_GetJob_WithLogs(t *testing.T) {
	id := uuid.New()
	repo := new(mocks.MockJobRepo)
	repo.On("GetByID", mock.Anything, id).Return(&domain.ProcessingJob{ID: id, Status: domain.JobStatusCompleted}, nil)
	repo.On("ListLogs", mock.Anything, id, 0).Return([]domain.JobLogEntry{
		{JobID: id, Level: domain.LogLevelInfo, Message: "Fetched 3 emails"},
	}, nil)

	svc := service.NewJobService(repo)
	got, err := svc.GetJob(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, got.Job.Status)
	require.Len(t, got.Logs, 1)
	assert.Equal(t, "Fetched 3 emails", got.Logs[0].Message)
}

func TestJobService_GetJob_NotFound(t *testing.T) {
	id := uuid.New()
	repo := new(mocks.MockJobRepo)
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrJobNotFound)

	svc := service.NewJobService(repo)
	_, err := svc.GetJob(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
	repo.AssertNotCalled(t, "ListLogs", mock.Anything, mock.Anything, mock.Anything)
}

func TestJobService_ListJobs_DefaultLimit(t *testing.T) {
	repo := new(mocks.MockJobRepo)
	repo.On("ListRecent", mock.Anything, 20).Return([]domain.ProcessingJob{}, nil)

	svc := service.NewJobService(repo)
	_, err := svc.ListJobs(context.Background(), -1)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
