package port

import (
	"context"

	"github.com/google/uuid"

	"ladinglens/internal/domain"
)

// DocumentPage is one page of shipment documents plus the cursor to fetch the next.
type DocumentPage struct {
	Items      []domain.ShipmentDocument
	NextCursor *string
	HasMore    bool
}

// DocumentRepository defines the contract for shipment document persistence.
type DocumentRepository interface {
	Upsert(ctx context.Context, doc *domain.ShipmentDocument) error
	ExistsByDedupeKey(ctx context.Context, dedupeKey string) (bool, error)
	GetByDedupeKey(ctx context.Context, dedupeKey string) (*domain.ShipmentDocument, error)
	// ListByType returns documents of one type ordered newest first.
	// cursor is the dedupe key of the last item of the previous page, or nil.
	ListByType(ctx context.Context, docType domain.DocType, limit int, cursor *string) (*DocumentPage, error)
	ListAll(ctx context.Context) ([]domain.ShipmentDocument, error)
	CountByType(ctx context.Context, docType domain.DocType) (int, error)
}

// JobRepository defines the contract for processing job bookkeeping.
type JobRepository interface {
	Create(ctx context.Context, job *domain.ProcessingJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProcessingJob, error)
	ListRecent(ctx context.Context, limit int) ([]domain.ProcessingJob, error)
	// ClaimPending atomically marks up to limit pending jobs as running and returns them.
	ClaimPending(ctx context.Context, limit int) ([]domain.ProcessingJob, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus, summary *domain.ProcessingSummary) error
	AppendLog(ctx context.Context, entry *domain.JobLogEntry) error
	ListLogs(ctx context.Context, jobID uuid.UUID, limit int) ([]domain.JobLogEntry, error)
}
