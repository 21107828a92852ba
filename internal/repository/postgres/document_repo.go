package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"ladinglens/internal/domain"
	"ladinglens/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Upsert(ctx context.Context, doc *domain.ShipmentDocument) error {
	doc.CreatedAt = time.Now().UTC()

	query := `INSERT INTO shipment_documents (
		dedupe_key, doc_type, bl_number, email_status,
		shipper_name, consignee_name, notify_party_name, carrier_name,
		port_of_loading, port_of_discharge, place_of_receipt, place_of_delivery,
		etd, eta, containers, extraction_confidence, raw_text_excerpt,
		source_email_id, source_subject, source_from, source_received_at,
		attachment_filename, page_number, created_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8,
		$9, $10, $11, $12,
		$13, $14, $15, $16, $17,
		$18, $19, $20, $21,
		$22, $23, $24
	)
	ON CONFLICT (dedupe_key) DO UPDATE SET
		doc_type = EXCLUDED.doc_type,
		bl_number = EXCLUDED.bl_number,
		email_status = EXCLUDED.email_status,
		shipper_name = EXCLUDED.shipper_name,
		consignee_name = EXCLUDED.consignee_name,
		notify_party_name = EXCLUDED.notify_party_name,
		carrier_name = EXCLUDED.carrier_name,
		port_of_loading = EXCLUDED.port_of_loading,
		port_of_discharge = EXCLUDED.port_of_discharge,
		place_of_receipt = EXCLUDED.place_of_receipt,
		place_of_delivery = EXCLUDED.place_of_delivery,
		etd = EXCLUDED.etd,
		eta = EXCLUDED.eta,
		containers = EXCLUDED.containers,
		extraction_confidence = EXCLUDED.extraction_confidence,
		raw_text_excerpt = EXCLUDED.raw_text_excerpt`

	_, err := r.db.ExecContext(ctx, query,
		doc.DedupeKey, doc.DocType, doc.BLNumber, doc.EmailStatus,
		doc.ShipperName, doc.ConsigneeName, doc.NotifyPartyName, doc.CarrierName,
		doc.PortOfLoading, doc.PortOfDischarge, doc.PlaceOfReceipt, doc.PlaceOfDelivery,
		doc.ETD, doc.ETA, doc.Containers, doc.ExtractionConfidence, doc.RawTextExcerpt,
		doc.SourceEmailID, doc.SourceSubject, doc.SourceFrom, doc.SourceReceivedAt,
		doc.AttachmentFilename, doc.PageNumber, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Upsert: %w", err)
	}
	return nil
}

func (r *documentRepo) ExistsByDedupeKey(ctx context.Context, dedupeKey string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM shipment_documents WHERE dedupe_key = $1)", dedupeKey)
	if err != nil {
		return false, fmt.Errorf("documentRepo.ExistsByDedupeKey: %w", err)
	}
	return exists, nil
}

func (r *documentRepo) GetByDedupeKey(ctx context.Context, dedupeKey string) (*domain.ShipmentDocument, error) {
	var doc domain.ShipmentDocument
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM shipment_documents WHERE dedupe_key = $1", dedupeKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByDedupeKey: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) ListByType(ctx context.Context, docType domain.DocType, limit int, cursor *string) (*port.DocumentPage, error) {
	if limit <= 0 {
		limit = 50
	}

	// Fetch one extra row to detect whether another page exists.
	var docs []domain.ShipmentDocument
	var err error
	if cursor == nil {
		err = r.db.SelectContext(ctx, &docs,
			`SELECT * FROM shipment_documents WHERE doc_type = $1
			 ORDER BY created_at DESC, dedupe_key DESC LIMIT $2`,
			docType, limit+1)
	} else {
		var anchor struct {
			CreatedAt time.Time `db:"created_at"`
			DedupeKey string    `db:"dedupe_key"`
		}
		err = r.db.GetContext(ctx, &anchor,
			"SELECT created_at, dedupe_key FROM shipment_documents WHERE dedupe_key = $1", *cursor)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, domain.ErrInvalidCursor
			}
			return nil, fmt.Errorf("documentRepo.ListByType cursor: %w", err)
		}
		err = r.db.SelectContext(ctx, &docs,
			`SELECT * FROM shipment_documents WHERE doc_type = $1
			 AND (created_at, dedupe_key) < ($2, $3)
			 ORDER BY created_at DESC, dedupe_key DESC LIMIT $4`,
			docType, anchor.CreatedAt, anchor.DedupeKey, limit+1)
	}
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ListByType: %w", err)
	}

	page := &port.DocumentPage{Items: docs}
	if len(docs) > limit {
		page.Items = docs[:limit]
		page.HasMore = true
		next := page.Items[limit-1].DedupeKey
		page.NextCursor = &next
	}
	return page, nil
}

func (r *documentRepo) ListAll(ctx context.Context) ([]domain.ShipmentDocument, error) {
	var docs []domain.ShipmentDocument
	err := r.db.SelectContext(ctx, &docs,
		"SELECT * FROM shipment_documents ORDER BY created_at DESC, dedupe_key DESC")
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ListAll: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) CountByType(ctx context.Context, docType domain.DocType) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM shipment_documents WHERE doc_type = $1", docType)
	if err != nil {
		return 0, fmt.Errorf("documentRepo.CountByType: %w", err)
	}
	return total, nil
}
