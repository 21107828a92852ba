package gmail

import (
	"encoding/base64"
	"regexp"
	"strings"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"

	"ladinglens/internal/domain"
	"ladinglens/internal/port"
)

var (
	onWroteRe     = regexp.MustCompile(`(?is)On\s+[^\n]*wrote:.*$`)
	originalMsgRe = regexp.MustCompile(`(?is)-+\s*Original Message\s*-+.*$`)
	fromHeaderRe  = regexp.MustCompile(`(?is)\n\s*From:[^\n]*[\r\n]+\s*(?:Sent|Date):.*$`)
	sentFromRe    = regexp.MustCompile(`(?i)\n\s*Sent from my[^\n]*`)
)

// ParseMessage reduces a full Gmail message to the body, PDF attachment refs,
// and source metadata the pipeline needs.
func ParseMessage(msg *gmailapi.Message) port.MailMessage {
	out := port.MailMessage{
		Meta: domain.SourceMetadata{
			EmailID:    msg.Id,
			ReceivedAt: time.UnixMilli(msg.InternalDate).UTC(),
		},
	}
	if msg.Payload == nil {
		out.Status = domain.EmailStatusUnknown
		return out
	}

	for _, h := range msg.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "subject":
			out.Meta.Subject = h.Value
		case "from":
			out.Meta.From = h.Value
		}
	}

	var body string

	// Breadth-first walk over the MIME tree. The first text/plain part wins.
	parts := []*gmailapi.MessagePart{msg.Payload}
	for len(parts) > 0 {
		part := parts[0]
		parts = parts[1:]
		parts = append(parts, part.Parts...)

		if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" && body == "" {
			if decoded, err := decodeBase64URL(part.Body.Data); err == nil {
				body = string(decoded)
			}
		}

		if part.Filename != "" && strings.HasSuffix(strings.ToLower(part.Filename), ".pdf") && part.Body != nil {
			ref := port.AttachmentRef{
				Filename:     part.Filename,
				AttachmentID: part.Body.AttachmentId,
				MimeType:     part.MimeType,
			}
			if part.Body.Data != "" {
				if decoded, err := decodeBase64URL(part.Body.Data); err == nil {
					ref.InlineData = decoded
				}
			}
			out.Attachments = append(out.Attachments, ref)
		}
	}

	out.Body = StripQuotedReplies(body)
	out.Status = ClassifyStatus(out.Body)
	return out
}

// StripQuotedReplies keeps only the newest message in a reply chain, dropping
// quoted history and mobile signatures.
func StripQuotedReplies(body string) string {
	if body == "" {
		return ""
	}

	cleaned := body
	for _, sep := range []string{"-----Original Message-----", "----- Original Message -----"} {
		if i := strings.Index(cleaned, sep); i != -1 {
			cleaned = cleaned[:i]
		}
	}

	cleaned = onWroteRe.ReplaceAllString(cleaned, "")
	cleaned = originalMsgRe.ReplaceAllString(cleaned, "")
	cleaned = fromHeaderRe.ReplaceAllString(cleaned, "")
	cleaned = sentFromRe.ReplaceAllString(cleaned, "")

	return strings.TrimSpace(cleaned)
}

var (
	preAlertKeywords = []string{"pre-alert", "pre alert", "prealert"}
	draftKeywords    = []string{"draft", "b/l draft", "bl draft", "b/l to confirm", "draft bl"}
)

// ClassifyStatus labels the email from keywords in its body. Pre-alert wins
// over draft when both appear.
func ClassifyStatus(body string) domain.EmailStatus {
	lower := strings.ToLower(body)

	for _, kw := range preAlertKeywords {
		if strings.Contains(lower, kw) {
			return domain.EmailStatusPreAlert
		}
	}
	for _, kw := range draftKeywords {
		if strings.Contains(lower, kw) {
			return domain.EmailStatusDraft
		}
	}
	return domain.EmailStatusUnknown
}

// decodeBase64URL accepts Gmail's base64url payloads with or without padding.
func decodeBase64URL(s string) ([]byte, error) {
	if decoded, err := base64.URLEncoding.DecodeString(s); err == nil {
		return decoded, nil
	}
	return base64.RawURLEncoding.DecodeString(s)
}
