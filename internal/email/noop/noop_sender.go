package noop

import (
	"context"
	"log"

	"ladinglens/internal/domain"
	"ladinglens/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs job summaries to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendJobSummary(_ context.Context, toEmail, jobID string, summary domain.ProcessingSummary) error {
	log.Printf("[NOOP EMAIL] Job %s summary for %s: emails=%d attachments=%d docs=%d dupes=%d errors=%d",
		jobID, toEmail,
		summary.EmailsProcessed, summary.AttachmentsProcessed, summary.DocsCreated,
		summary.SkippedDuplicates, summary.Errors)
	return nil
}
