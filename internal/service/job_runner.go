package service

import (
	"context"
	"log"
	"sync"
	"time"

	"ladinglens/internal/domain"
	"ladinglens/internal/port"
)

// JobRunnerConfig holds settings for the job runner.
type JobRunnerConfig struct {
	PollInterval time.Duration
	Concurrency  int
	JobTimeout   time.Duration
	// NotifyAddress receives the run summary email; empty disables notification.
	NotifyAddress string
}

// JobRunner polls for pending processing jobs and dispatches runs.
type JobRunner struct {
	jobs       port.JobRepository
	processing ProcessingService
	sender     port.EmailSender
	cfg        JobRunnerConfig
	wg         sync.WaitGroup
}

// NewJobRunner creates a new JobRunner. sender may be nil when summary
// notifications are disabled.
func NewJobRunner(jobs port.JobRepository, processing ProcessingService, sender port.EmailSender, cfg JobRunnerConfig) *JobRunner {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 15 * time.Minute
	}
	return &JobRunner{
		jobs:       jobs,
		processing: processing,
		sender:     sender,
		cfg:        cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight jobs have finished.
func (r *JobRunner) Start(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, r.cfg.Concurrency)

	log.Printf("service.JobRunner: started (poll=%s, concurrency=%d)", r.cfg.PollInterval, r.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("service.JobRunner: shutting down, waiting for in-flight jobs...")
			r.wg.Wait()
			log.Printf("service.JobRunner: shutdown complete")
			return
		case <-ticker.C:
			available := r.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			jobs, err := r.jobs.ClaimPending(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("service.JobRunner: ClaimPending error: %v", err)
				continue
			}

			for i := range jobs {
				job := jobs[i] // copy for goroutine

				sem <- struct{}{} // acquire
				r.wg.Add(1)
				go func() {
					defer r.wg.Done()
					defer func() { <-sem }() // release

					// Independent of the poll context so in-flight jobs
					// complete during shutdown.
					jobCtx, cancel := context.WithTimeout(context.Background(), r.cfg.JobTimeout)
					defer cancel()

					r.runJob(jobCtx, &job)
				}()
			}
		}
	}
}

func (r *JobRunner) runJob(ctx context.Context, job *domain.ProcessingJob) {
	log.Printf("service.JobRunner: dispatching job %s (skip_dedupe=%t)", job.ID, job.SkipDedupe)

	summary, err := r.processing.Run(ctx, job.ID, job.SkipDedupe, nil)

	status := domain.JobStatusCompleted
	if err != nil {
		status = domain.JobStatusFailed
		log.Printf("service.JobRunner: job %s failed: %v", job.ID, err)
	}

	if updateErr := r.jobs.UpdateStatus(ctx, job.ID, status, &summary); updateErr != nil {
		log.Printf("service.JobRunner: failed to update job %s status: %v", job.ID, updateErr)
		return
	}

	log.Printf("service.JobRunner: job %s %s (emails=%d docs=%d dupes=%d errors=%d)",
		job.ID, status, summary.EmailsProcessed, summary.DocsCreated, summary.SkippedDuplicates, summary.Errors)

	if r.sender != nil && r.cfg.NotifyAddress != "" {
		if mailErr := r.sender.SendJobSummary(ctx, r.cfg.NotifyAddress, job.ID.String(), summary); mailErr != nil {
			log.Printf("service.JobRunner: failed to send summary for job %s: %v", job.ID, mailErr)
		}
	}
}
