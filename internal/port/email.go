package port

import (
	"context"

	"ladinglens/internal/domain"
)

// EmailSender defines the contract for sending operational notifications.
type EmailSender interface {
	SendJobSummary(ctx context.Context, toEmail, jobID string, summary domain.ProcessingSummary) error
}
