package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"ladinglens/internal/domain"
	"ladinglens/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendJobSummary(ctx context.Context, toEmail, jobID string, summary domain.ProcessingSummary) error {
	subject := fmt.Sprintf("LadingLens processing run %s finished", jobID)
	textBody := buildSummaryText(jobID, summary)
	htmlBody := buildSummaryHTML(jobID, summary)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildSummaryText(jobID string, s domain.ProcessingSummary) string {
	return fmt.Sprintf(`Processing run %s finished.

Emails processed:      %d
Attachments processed: %d
Documents created:     %d
Duplicates skipped:    %d
Errors:                %d

LadingLens`,
		jobID, s.EmailsProcessed, s.AttachmentsProcessed, s.DocsCreated, s.SkippedDuplicates, s.Errors)
}

func buildSummaryHTML(jobID string, s domain.ProcessingSummary) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: sans-serif; color: #333;">
<h2>Processing run %s finished</h2>
<table cellpadding="4">
<tr><td>Emails processed</td><td><b>%d</b></td></tr>
<tr><td>Attachments processed</td><td><b>%d</b></td></tr>
<tr><td>Documents created</td><td><b>%d</b></td></tr>
<tr><td>Duplicates skipped</td><td><b>%d</b></td></tr>
<tr><td>Errors</td><td><b>%d</b></td></tr>
</table>
<p>LadingLens</p>
</body>
</html>`,
		jobID, s.EmailsProcessed, s.AttachmentsProcessed, s.DocsCreated, s.SkippedDuplicates, s.Errors)
}
