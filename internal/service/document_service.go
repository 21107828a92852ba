package service

import (
	"context"
	"fmt"
	"io"

	"ladinglens/internal/csvexport"
	"ladinglens/internal/domain"
	"ladinglens/internal/port"
)

const maxListLimit = 200

// DocumentStats holds per-type document counts for the stats endpoint.
type DocumentStats struct {
	HBLCount     int `json:"hbl_count"`
	MBLCount     int `json:"mbl_count"`
	UnknownCount int `json:"unknown_count"`
}

// DocumentService defines the read and export contract for shipment documents.
type DocumentService interface {
	ListByType(ctx context.Context, docType domain.DocType, limit int, cursor *string) (*port.DocumentPage, error)
	GetByDedupeKey(ctx context.Context, dedupeKey string) (*domain.ShipmentDocument, error)
	Stats(ctx context.Context) (*DocumentStats, error)
	ExportCSV(ctx context.Context, w io.Writer) error
	ExportXLSX(ctx context.Context, w io.Writer) error
}

type documentService struct {
	docs port.DocumentRepository
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(docs port.DocumentRepository) DocumentService {
	return &documentService{docs: docs}
}

func (s *documentService) ListByType(ctx context.Context, docType domain.DocType, limit int, cursor *string) (*port.DocumentPage, error) {
	switch docType {
	case domain.DocTypeHBL, domain.DocTypeMBL:
	default:
		return nil, fmt.Errorf("documentService.ListByType: unsupported doc type %q", docType)
	}
	if limit <= 0 || limit > maxListLimit {
		limit = 50
	}
	return s.docs.ListByType(ctx, docType, limit, cursor)
}

func (s *documentService) GetByDedupeKey(ctx context.Context, dedupeKey string) (*domain.ShipmentDocument, error) {
	if dedupeKey == "" {
		return nil, domain.ErrDocumentNotFound
	}
	return s.docs.GetByDedupeKey(ctx, dedupeKey)
}

func (s *documentService) Stats(ctx context.Context) (*DocumentStats, error) {
	stats := &DocumentStats{}
	counts := []struct {
		docType domain.DocType
		dst     *int
	}{
		{domain.DocTypeHBL, &stats.HBLCount},
		{domain.DocTypeMBL, &stats.MBLCount},
		{domain.DocTypeUnknown, &stats.UnknownCount},
	}
	for _, c := range counts {
		n, err := s.docs.CountByType(ctx, c.docType)
		if err != nil {
			return nil, fmt.Errorf("documentService.Stats: %w", err)
		}
		*c.dst = n
	}
	return stats, nil
}

// ExportCSV streams all documents as a UTF-8 CSV with BOM for Excel.
func (s *documentService) ExportCSV(ctx context.Context, w io.Writer) error {
	docs, err := s.docs.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("documentService.ExportCSV: %w", err)
	}

	if _, err := w.Write(csvexport.BOM); err != nil {
		return fmt.Errorf("documentService.ExportCSV: %w", err)
	}

	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return fmt.Errorf("documentService.ExportCSV: %w", err)
	}
	if err := cw.WriteDocuments(docs); err != nil {
		return fmt.Errorf("documentService.ExportCSV: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("documentService.ExportCSV: %w", err)
	}
	return nil
}

func (s *documentService) ExportXLSX(ctx context.Context, w io.Writer) error {
	docs, err := s.docs.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("documentService.ExportXLSX: %w", err)
	}
	return csvexport.WriteXLSX(w, docs)
}
