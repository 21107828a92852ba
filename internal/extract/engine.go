// Package extract implements the hybrid extraction engine: a deterministic,
// pattern-based pass over markdown page text, scored for completeness, with
// escalation to a model-based extractor when the page has no exploitable
// structure or the deterministic result misses too much.
package extract

import (
	"context"
	"log"

	"ladinglens/internal/domain"
	"ladinglens/internal/port"
)

// maxNullFields is the tolerated number of missing fields before the
// deterministic candidate is discarded in favor of a full model re-extraction.
const maxNullFields = 3

// Engine orchestrates the deterministic pass and the model fallback.
// It is stateless apart from the injected extractor and safe for concurrent
// use across documents.
type Engine struct {
	model port.DocumentExtractor
}

// NewEngine creates an Engine. model may be nil, in which case fallback is
// never taken regardless of the caller's flag.
func NewEngine(model port.DocumentExtractor) *Engine {
	return &Engine{model: model}
}

// Extract runs the hybrid pipeline over one page of markdown text.
//
// Scanned pages go straight to the model (or yield an unknown shell when
// fallback is disabled). Otherwise the deterministic candidate is kept unless
// a critical field (doc type, BL number) is missing or more than three fields
// are null, in which case the model re-extracts the whole page; no merging.
// Only accepted deterministic candidates carry a confidence score.
func (e *Engine) Extract(ctx context.Context, text string, allowFallback bool) (*domain.DocumentExtraction, error) {
	allowFallback = allowFallback && e.model != nil

	if IsScanned(text) {
		if !allowFallback {
			return unknownShell(), nil
		}
		log.Printf("extract.Engine: no exploitable structure, delegating to model")
		return e.model.ExtractFromText(ctx, text)
	}

	candidate := All(text)

	if allowFallback {
		if candidate.DocType == domain.DocTypeUnknown || candidate.BLNumber == nil {
			log.Printf("extract.Engine: critical field missing, delegating to model")
			return e.model.ExtractFromText(ctx, text)
		}
		if nulls := candidate.NullFields(); len(nulls) > maxNullFields {
			log.Printf("extract.Engine: %d fields missing, delegating to model", len(nulls))
			return e.model.ExtractFromText(ctx, text)
		}
	}

	result := candidate.ToExtraction()
	confidence := Confidence(candidate)
	result.ExtractionConfidence = &confidence
	return result, nil
}

func unknownShell() *domain.DocumentExtraction {
	return &domain.DocumentExtraction{
		DocType:     domain.DocTypeUnknown,
		EmailStatus: domain.EmailStatusUnknown,
		Containers:  domain.ContainerList{},
	}
}
