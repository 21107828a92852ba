package port

import (
	"context"

	"ladinglens/internal/domain"
)

// AttachmentRef identifies a PDF attachment within a message without its content.
type AttachmentRef struct {
	Filename     string
	AttachmentID string
	MimeType     string
	// InlineData holds the decoded bytes when the part carried them inline.
	InlineData []byte
}

// MailMessage is a fetched email reduced to what processing needs: the latest
// plain-text body (quoted replies stripped), PDF attachment refs, and metadata.
type MailMessage struct {
	Meta        domain.SourceMetadata
	Body        string
	Status      domain.EmailStatus
	Attachments []AttachmentRef
}

// MailFetcher abstracts the inbox the pipeline reads from.
type MailFetcher interface {
	FetchRecent(ctx context.Context, limit int) ([]MailMessage, error)
	FetchAttachment(ctx context.Context, messageID string, ref AttachmentRef) ([]byte, error)
}
