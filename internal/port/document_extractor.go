package port

import (
	"context"

	"ladinglens/internal/domain"
)

// DocumentExtractor abstracts model-based extraction of shipment data from
// page text. Implementations may block on network I/O and should honor ctx.
type DocumentExtractor interface {
	ExtractFromText(ctx context.Context, text string) (*domain.DocumentExtraction, error)
}
