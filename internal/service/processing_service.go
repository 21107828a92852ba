package service

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"ladinglens/internal/domain"
	"ladinglens/internal/port"
)

// minPageTextChars is the threshold below which a page is treated as empty
// and skipped without extraction.
const minPageTextChars = 100

// PageExtractor is the extraction engine contract the pipeline depends on.
// Satisfied by extract.Engine.
type PageExtractor interface {
	Extract(ctx context.Context, text string, allowFallback bool) (*domain.DocumentExtraction, error)
}

// ProcessingEvent is one progress update emitted while a run executes.
type ProcessingEvent struct {
	Level      domain.LogLevel `json:"level"`
	Message    string          `json:"message"`
	EmailID    string          `json:"email_id,omitempty"`
	Attachment string          `json:"attachment,omitempty"`
}

// ProgressFunc receives processing events as they happen. May be nil.
type ProgressFunc func(event ProcessingEvent)

// ProcessingConfig holds pipeline settings.
type ProcessingConfig struct {
	EmailLimit    int
	AllowFallback bool
	ArchiveBucket string
}

// ProcessingService runs the mail-to-database extraction pipeline.
type ProcessingService interface {
	// Run processes recent inbox messages under the given job, appending job
	// logs and reporting progress. The returned error is reserved for
	// failures that abort the whole run; per-item failures are counted in
	// the summary instead.
	Run(ctx context.Context, jobID uuid.UUID, skipDedupe bool, progress ProgressFunc) (domain.ProcessingSummary, error)
}

type processingService struct {
	mail      port.MailFetcher
	converter port.PageConverter
	engine    PageExtractor
	docs      port.DocumentRepository
	jobs      port.JobRepository
	storage   port.ObjectStorage
	cfg       ProcessingConfig
}

// NewProcessingService creates a ProcessingService. storage may be nil, in
// which case source PDFs are not archived.
func NewProcessingService(
	mail port.MailFetcher,
	converter port.PageConverter,
	engine PageExtractor,
	docs port.DocumentRepository,
	jobs port.JobRepository,
	storage port.ObjectStorage,
	cfg ProcessingConfig,
) ProcessingService {
	return &processingService{
		mail:      mail,
		converter: converter,
		engine:    engine,
		docs:      docs,
		jobs:      jobs,
		storage:   storage,
		cfg:       cfg,
	}
}

// GenerateDedupeKey derives the stable identity of one processed page.
func GenerateDedupeKey(emailID, filename string, pageNumber int) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%s_%d", emailID, filename, pageNumber)))
	return fmt.Sprintf("%x", sum)
}

func (s *processingService) Run(ctx context.Context, jobID uuid.UUID, skipDedupe bool, progress ProgressFunc) (domain.ProcessingSummary, error) {
	var summary domain.ProcessingSummary

	messages, err := s.mail.FetchRecent(ctx, s.cfg.EmailLimit)
	if err != nil {
		summary.Errors++
		s.report(ctx, jobID, progress, domain.LogLevelError, fmt.Sprintf("Failed to fetch emails: %v", err), "", "")
		return summary, fmt.Errorf("processingService.Run: %w", err)
	}
	s.report(ctx, jobID, progress, domain.LogLevelInfo, fmt.Sprintf("Fetched %d emails", len(messages)), "", "")

	for _, msg := range messages {
		summary.EmailsProcessed++
		emailID := msg.Meta.EmailID

		if msg.Status == domain.EmailStatusUnknown {
			s.report(ctx, jobID, progress, domain.LogLevelInfo, "Skipping email - not a pre-alert or draft", emailID, "")
			continue
		}
		s.report(ctx, jobID, progress, domain.LogLevelInfo,
			fmt.Sprintf("Processing email as %s: %s", msg.Status, truncateSubject(msg.Meta.Subject)), emailID, "")

		for _, att := range msg.Attachments {
			summary.AttachmentsProcessed++
			s.processAttachment(ctx, jobID, skipDedupe, progress, msg, att, &summary)
		}
	}

	return summary, nil
}

func (s *processingService) processAttachment(
	ctx context.Context,
	jobID uuid.UUID,
	skipDedupe bool,
	progress ProgressFunc,
	msg port.MailMessage,
	att port.AttachmentRef,
	summary *domain.ProcessingSummary,
) {
	emailID := msg.Meta.EmailID

	pdfBytes, err := s.mail.FetchAttachment(ctx, emailID, att)
	if err != nil || len(pdfBytes) == 0 {
		s.report(ctx, jobID, progress, domain.LogLevelWarning, "Could not fetch attachment content", emailID, att.Filename)
		return
	}

	s.archive(ctx, jobID, progress, emailID, att.Filename, pdfBytes)

	pages, err := s.converter.Convert(ctx, pdfBytes)
	if err != nil {
		summary.Errors++
		s.report(ctx, jobID, progress, domain.LogLevelError, fmt.Sprintf("PDF conversion failed: %v", err), emailID, att.Filename)
		return
	}
	s.report(ctx, jobID, progress, domain.LogLevelInfo, fmt.Sprintf("Converted %d pages", len(pages)), emailID, att.Filename)

	for _, page := range pages {
		if len(strings.TrimSpace(page.Text)) < minPageTextChars {
			continue
		}

		dedupeKey := GenerateDedupeKey(emailID, att.Filename, page.PageNumber)
		if skipDedupe {
			// Unique suffix lets the same page be stored again during testing.
			dedupeKey = fmt.Sprintf("%s_%s", dedupeKey, uuid.NewString()[:8])
		} else {
			exists, err := s.docs.ExistsByDedupeKey(ctx, dedupeKey)
			if err != nil {
				summary.Errors++
				s.report(ctx, jobID, progress, domain.LogLevelError, fmt.Sprintf("Dedupe check failed: %v", err), emailID, att.Filename)
				continue
			}
			if exists {
				summary.SkippedDuplicates++
				continue
			}
		}

		extraction, err := s.engine.Extract(ctx, page.Text, s.cfg.AllowFallback)
		if err != nil {
			summary.Errors++
			s.report(ctx, jobID, progress, domain.LogLevelError,
				fmt.Sprintf("Extraction error on page %d: %v", page.PageNumber, err), emailID, att.Filename)
			continue
		}

		// The mail-level heuristic fills in what the page itself could not.
		if extraction.EmailStatus == domain.EmailStatusUnknown {
			extraction.EmailStatus = msg.Status
		}

		if extraction.DocType == domain.DocTypeUnknown {
			s.report(ctx, jobID, progress, domain.LogLevelWarning,
				fmt.Sprintf("Could not identify document type on page %d", page.PageNumber), emailID, att.Filename)
			continue
		}

		doc := domain.FromExtraction(extraction, msg.Meta, dedupeKey, page.PageNumber)
		if err := s.docs.Upsert(ctx, doc); err != nil {
			summary.Errors++
			s.report(ctx, jobID, progress, domain.LogLevelError, fmt.Sprintf("Failed to store document: %v", err), emailID, att.Filename)
			continue
		}

		summary.DocsCreated++
		blNumber := ""
		if extraction.BLNumber != nil {
			blNumber = *extraction.BLNumber
		}
		s.report(ctx, jobID, progress, domain.LogLevelInfo,
			fmt.Sprintf("Created %s document: %s", strings.ToUpper(string(extraction.DocType)), blNumber), emailID, att.Filename)
	}
}

// archive stores the source PDF in object storage. Failures are logged but
// never fail the run.
func (s *processingService) archive(ctx context.Context, jobID uuid.UUID, progress ProgressFunc, emailID, filename string, pdfBytes []byte) {
	if s.storage == nil || s.cfg.ArchiveBucket == "" {
		return
	}
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.ArchiveBucket,
		Key:         fmt.Sprintf("emails/%s/%s", emailID, filename),
		Body:        bytes.NewReader(pdfBytes),
		Size:        int64(len(pdfBytes)),
		ContentType: "application/pdf",
	})
	if err != nil {
		s.report(ctx, jobID, progress, domain.LogLevelWarning, fmt.Sprintf("Failed to archive attachment: %v", err), emailID, filename)
	}
}

// report appends a job log, emits a progress event, and mirrors to the
// process log.
func (s *processingService) report(ctx context.Context, jobID uuid.UUID, progress ProgressFunc, level domain.LogLevel, message, emailID, attachment string) {
	log.Printf("service.ProcessingService: [%s] %s", level, message)

	entry := &domain.JobLogEntry{
		JobID:   jobID,
		Level:   level,
		Message: message,
	}
	if emailID != "" {
		entry.EmailID = &emailID
	}
	if attachment != "" {
		entry.Attachment = &attachment
	}
	if err := s.jobs.AppendLog(ctx, entry); err != nil {
		log.Printf("service.ProcessingService: appending job log: %v", err)
	}

	if progress != nil {
		progress(ProcessingEvent{
			Level:      level,
			Message:    message,
			EmailID:    emailID,
			Attachment: attachment,
		})
	}
}

func truncateSubject(subject string) string {
	if len(subject) <= 50 {
		return subject
	}
	return subject[:50]
}
