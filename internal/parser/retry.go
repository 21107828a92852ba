package parser

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/avast/retry-go/v4"

	"ladinglens/internal/domain"
	"ladinglens/internal/port"
)

// RetryingExtractor wraps an extractor with bounded retries on transient
// failures. Rate limits are not retried here; the fallback layer owns that
// backoff. It implements port.DocumentExtractor.
type RetryingExtractor struct {
	inner    port.DocumentExtractor
	name     string
	attempts uint
	delay    time.Duration
}

// NewRetryingExtractor wraps inner with up to maxRetries additional attempts.
func NewRetryingExtractor(inner port.DocumentExtractor, name string, maxRetries int) *RetryingExtractor {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryingExtractor{
		inner:    inner,
		name:     name,
		attempts: uint(maxRetries) + 1,
		delay:    2 * time.Second,
	}
}

func (r *RetryingExtractor) ExtractFromText(ctx context.Context, text string) (*domain.DocumentExtraction, error) {
	var out *domain.DocumentExtraction
	err := retry.Do(
		func() error {
			var err error
			out, err = r.inner.ExtractFromText(ctx, text)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.RetryIf(func(err error) bool {
			var rlErr *RateLimitError
			return !errors.As(err, &rlErr)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("parser.RetryingExtractor: %s attempt %d failed: %v", r.name, n+1, err)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}
