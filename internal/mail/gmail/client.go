// Package gmail reads the shipment inbox through the Gmail API.
package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"ladinglens/internal/config"
	"ladinglens/internal/domain"
	"ladinglens/internal/port"
)

// Client implements port.MailFetcher over the Gmail API.
type Client struct {
	svc         *gmailapi.Service
	userID      string
	query       string
	maxMessages int
}

// NewClient builds a Gmail client from a client-secrets file and a previously
// obtained user token. Token refresh is handled by the oauth2 token source.
func NewClient(ctx context.Context, cfg *config.GmailConfig) (*Client, error) {
	secrets, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("gmail.NewClient: reading credentials: %w", err)
	}
	oauthCfg, err := google.ConfigFromJSON(secrets, gmailapi.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("gmail.NewClient: parsing credentials: %w", err)
	}

	tokenBytes, err := os.ReadFile(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("gmail.NewClient: reading token: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenBytes, &token); err != nil {
		return nil, fmt.Errorf("gmail.NewClient: parsing token: %w", err)
	}

	svc, err := gmailapi.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, &token)))
	if err != nil {
		return nil, fmt.Errorf("gmail.NewClient: creating service: %w", err)
	}

	userID := cfg.UserID
	if userID == "" {
		userID = "me"
	}

	return &Client{
		svc:         svc,
		userID:      userID,
		query:       cfg.Query,
		maxMessages: cfg.MaxMessages,
	}, nil
}

// FetchRecent lists the newest messages matching the configured query and
// parses each into a MailMessage.
func (c *Client) FetchRecent(ctx context.Context, limit int) ([]port.MailMessage, error) {
	if limit <= 0 || (c.maxMessages > 0 && limit > c.maxMessages) {
		limit = c.maxMessages
	}

	call := c.svc.Users.Messages.List(c.userID).MaxResults(int64(limit)).Context(ctx)
	if c.query != "" {
		call = call.Q(c.query)
	}
	listed, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("gmail.Client: %w: %v", domain.ErrMailFetchFailed, err)
	}

	messages := make([]port.MailMessage, 0, len(listed.Messages))
	for _, ref := range listed.Messages {
		full, err := c.svc.Users.Messages.Get(c.userID, ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("gmail.Client: fetching message %s: %w", ref.Id, err)
		}
		messages = append(messages, ParseMessage(full))
	}
	return messages, nil
}

// FetchAttachment resolves an attachment's bytes, preferring inline data.
func (c *Client) FetchAttachment(ctx context.Context, messageID string, ref port.AttachmentRef) ([]byte, error) {
	if len(ref.InlineData) > 0 {
		return ref.InlineData, nil
	}
	if ref.AttachmentID == "" {
		return nil, fmt.Errorf("gmail.Client: attachment %s has no id and no inline data", ref.Filename)
	}

	att, err := c.svc.Users.Messages.Attachments.Get(c.userID, messageID, ref.AttachmentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail.Client: fetching attachment %s: %w", ref.Filename, err)
	}
	data, err := decodeBase64URL(att.Data)
	if err != nil {
		return nil, fmt.Errorf("gmail.Client: decoding attachment %s: %w", ref.Filename, err)
	}
	return data, nil
}
