package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ladinglens/internal/domain"
	"ladinglens/internal/port"
)

// JobWithLogs bundles a processing job with its log entries for API responses.
type JobWithLogs struct {
	Job  *domain.ProcessingJob `json:"job"`
	Logs []domain.JobLogEntry  `json:"logs"`
}

// JobService defines the contract for creating and inspecting processing jobs.
type JobService interface {
	CreateJob(ctx context.Context, skipDedupe bool) (*domain.ProcessingJob, error)
	// StartInlineJob records a job that the caller runs itself, bypassing the
	// background runner.
	StartInlineJob(ctx context.Context, skipDedupe bool) (*domain.ProcessingJob, error)
	FinishInlineJob(ctx context.Context, id uuid.UUID, runErr error, summary domain.ProcessingSummary) error
	GetJob(ctx context.Context, id uuid.UUID) (*JobWithLogs, error)
	ListJobs(ctx context.Context, limit int) ([]domain.ProcessingJob, error)
}

type jobService struct {
	jobs port.JobRepository
}

// NewJobService creates a new JobService implementation.
func NewJobService(jobs port.JobRepository) JobService {
	return &jobService{jobs: jobs}
}

// CreateJob enqueues a pending job; the runner picks it up on its next poll.
func (s *jobService) CreateJob(ctx context.Context, skipDedupe bool) (*domain.ProcessingJob, error) {
	job := &domain.ProcessingJob{
		ID:         uuid.New(),
		SkipDedupe: skipDedupe,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("jobService.CreateJob: %w", err)
	}
	return job, nil
}

func (s *jobService) StartInlineJob(ctx context.Context, skipDedupe bool) (*domain.ProcessingJob, error) {
	now := time.Now().UTC()
	job := &domain.ProcessingJob{
		ID:         uuid.New(),
		Status:     domain.JobStatusRunning,
		SkipDedupe: skipDedupe,
		StartedAt:  &now,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("jobService.StartInlineJob: %w", err)
	}
	return job, nil
}

func (s *jobService) FinishInlineJob(ctx context.Context, id uuid.UUID, runErr error, summary domain.ProcessingSummary) error {
	status := domain.JobStatusCompleted
	if runErr != nil {
		status = domain.JobStatusFailed
	}
	if err := s.jobs.UpdateStatus(ctx, id, status, &summary); err != nil {
		return fmt.Errorf("jobService.FinishInlineJob: %w", err)
	}
	return nil
}

func (s *jobService) GetJob(ctx context.Context, id uuid.UUID) (*JobWithLogs, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	logs, err := s.jobs.ListLogs(ctx, id, 0)
	if err != nil {
		return nil, fmt.Errorf("jobService.GetJob: %w", err)
	}
	return &JobWithLogs{Job: job, Logs: logs}, nil
}

func (s *jobService) ListJobs(ctx context.Context, limit int) ([]domain.ProcessingJob, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.jobs.ListRecent(ctx, limit)
}
