package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"ladinglens/internal/domain"
	"ladinglens/internal/port"
)

type jobRepo struct {
	db *sqlx.DB
}

// NewJobRepo creates a new PostgreSQL-backed JobRepository.
func NewJobRepo(db *sqlx.DB) port.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.ProcessingJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	// Inline runs insert themselves as running so the poller never claims them.
	if job.Status == "" {
		job.Status = domain.JobStatusPending
	}
	job.CreatedAt = time.Now().UTC()

	summaryJSON, err := json.Marshal(job.Summary)
	if err != nil {
		return fmt.Errorf("jobRepo.Create marshal summary: %w", err)
	}
	job.SummaryJSON = summaryJSON

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO processing_jobs (id, status, skip_dedupe, summary, started_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		job.ID, job.Status, job.SkipDedupe, job.SummaryJSON, job.StartedAt, job.CreatedAt)
	if err != nil {
		return fmt.Errorf("jobRepo.Create: %w", err)
	}
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProcessingJob, error) {
	var job domain.ProcessingJob
	err := r.db.GetContext(ctx, &job,
		"SELECT * FROM processing_jobs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("jobRepo.GetByID: %w", err)
	}
	if err := unmarshalSummary(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepo) ListRecent(ctx context.Context, limit int) ([]domain.ProcessingJob, error) {
	if limit <= 0 {
		limit = 20
	}
	var jobs []domain.ProcessingJob
	err := r.db.SelectContext(ctx, &jobs,
		"SELECT * FROM processing_jobs ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("jobRepo.ListRecent: %w", err)
	}
	for i := range jobs {
		if err := unmarshalSummary(&jobs[i]); err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

func (r *jobRepo) ClaimPending(ctx context.Context, limit int) ([]domain.ProcessingJob, error) {
	if limit <= 0 {
		limit = 1
	}

	// SKIP LOCKED lets multiple runners poll the same table without
	// claiming each other's jobs.
	var jobs []domain.ProcessingJob
	err := r.db.SelectContext(ctx, &jobs,
		`UPDATE processing_jobs SET status = $1, started_at = NOW()
		 WHERE id IN (
			SELECT id FROM processing_jobs
			WHERE status = $2
			ORDER BY created_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`,
		domain.JobStatusRunning, domain.JobStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("jobRepo.ClaimPending: %w", err)
	}
	for i := range jobs {
		if err := unmarshalSummary(&jobs[i]); err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

func (r *jobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus, summary *domain.ProcessingSummary) error {
	var summaryJSON []byte
	if summary != nil {
		var err error
		summaryJSON, err = json.Marshal(summary)
		if err != nil {
			return fmt.Errorf("jobRepo.UpdateStatus marshal summary: %w", err)
		}
	}

	var result sql.Result
	var err error
	if summaryJSON != nil {
		result, err = r.db.ExecContext(ctx,
			`UPDATE processing_jobs SET status = $1, summary = $2,
				completed_at = CASE WHEN $1 IN ('completed', 'failed') THEN NOW() ELSE completed_at END
			 WHERE id = $3`,
			status, summaryJSON, id)
	} else {
		result, err = r.db.ExecContext(ctx,
			`UPDATE processing_jobs SET status = $1,
				completed_at = CASE WHEN $1 IN ('completed', 'failed') THEN NOW() ELSE completed_at END
			 WHERE id = $2`,
			status, id)
	}
	if err != nil {
		return fmt.Errorf("jobRepo.UpdateStatus: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("jobRepo.UpdateStatus rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *jobRepo) AppendLog(ctx context.Context, entry *domain.JobLogEntry) error {
	entry.CreatedAt = time.Now().UTC()
	err := r.db.GetContext(ctx, &entry.ID,
		`INSERT INTO job_logs (job_id, level, message, email_id, attachment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		entry.JobID, entry.Level, entry.Message, entry.EmailID, entry.Attachment, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("jobRepo.AppendLog: %w", err)
	}
	return nil
}

func (r *jobRepo) ListLogs(ctx context.Context, jobID uuid.UUID, limit int) ([]domain.JobLogEntry, error) {
	if limit <= 0 {
		limit = 200
	}
	var logs []domain.JobLogEntry
	err := r.db.SelectContext(ctx, &logs,
		"SELECT * FROM job_logs WHERE job_id = $1 ORDER BY id LIMIT $2", jobID, limit)
	if err != nil {
		return nil, fmt.Errorf("jobRepo.ListLogs: %w", err)
	}
	return logs, nil
}

func unmarshalSummary(job *domain.ProcessingJob) error {
	if len(job.SummaryJSON) == 0 {
		return nil
	}
	if err := json.Unmarshal(job.SummaryJSON, &job.Summary); err != nil {
		return fmt.Errorf("jobRepo: unmarshal summary for %s: %w", job.ID, err)
	}
	return nil
}
