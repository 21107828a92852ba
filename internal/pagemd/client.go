// Package pagemd renders PDF pages to markdown text via an external converter
// service, one page per request.
package pagemd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ladinglens/internal/config"
	"ladinglens/internal/pdftext"
	"ladinglens/internal/port"
)

// splitFunc matches pdftext.SplitPages.
type splitFunc func(pdf []byte) ([][]byte, error)

// Client implements port.PageConverter against the converter service's
// /v1/convert endpoint.
type Client struct {
	baseURL string
	client  *http.Client
	split   splitFunc
}

// NewClient creates a converter client from config.
func NewClient(cfg *config.ConverterConfig) *Client {
	return newClient(cfg.BaseURL, cfg.TimeoutSecs, pdftext.SplitPages)
}

// NewClientWithSplitter creates a client with a custom page splitter (for testing).
func NewClientWithSplitter(baseURL string, timeoutSecs int, split splitFunc) *Client {
	return newClient(baseURL, timeoutSecs, split)
}

func newClient(baseURL string, timeoutSecs int, split splitFunc) *Client {
	timeout := time.Duration(timeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		split:   split,
	}
}

// convertResponse is the converter service's response for one page.
type convertResponse struct {
	Markdown string `json:"markdown"`
}

// Convert splits the PDF into pages and renders each one to markdown.
func (c *Client) Convert(ctx context.Context, pdfBytes []byte) ([]port.DocumentPageText, error) {
	pages, err := c.split(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("pagemd.Client: splitting pdf: %w", err)
	}

	out := make([]port.DocumentPageText, 0, len(pages))
	for i, page := range pages {
		text, err := c.convertPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("pagemd.Client: page %d: %w", i+1, err)
		}
		out = append(out, port.DocumentPageText{
			PageNumber: i + 1,
			Text:       text,
		})
	}
	return out, nil
}

func (c *Client) convertPage(ctx context.Context, page []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/convert", bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/pdf")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling converter: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("converter error (status %d): %s", resp.StatusCode, string(body))
	}

	var cr convertResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}
	return cr.Markdown, nil
}
