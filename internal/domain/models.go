package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ContainerInfo describes a single container row extracted from a document.
// Weight is kilograms, Volume is cubic meters (CBM). Either may be absent.
type ContainerInfo struct {
	Number string   `json:"number"`
	Weight *float64 `json:"weight"`
	Volume *float64 `json:"volume"`
}

// ContainerList supports sqlx round-tripping of containers through a JSONB column.
type ContainerList []ContainerInfo

// Value implements driver.Valuer.
func (c ContainerList) Value() (interface{}, error) {
	if c == nil {
		return json.Marshal(ContainerList{})
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner.
func (c *ContainerList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = ContainerList{}
		return nil
	}
	return ErrInvalidContainerData
}

// DocumentExtraction is the output contract of the extraction engine.
// Every field except DocType is optional; a partial result is valid.
type DocumentExtraction struct {
	DocType     DocType     `json:"doc_type"`
	BLNumber    *string     `json:"bl_number"`
	EmailStatus EmailStatus `json:"email_status"`

	ShipperName     *string `json:"shipper_name"`
	ConsigneeName   *string `json:"consignee_name"`
	NotifyPartyName *string `json:"notify_party_name"`
	CarrierName     *string `json:"carrier_name"`

	PortOfLoading   *string `json:"port_of_loading"`
	PortOfDischarge *string `json:"port_of_discharge"`
	PlaceOfReceipt  *string `json:"place_of_receipt"`
	PlaceOfDelivery *string `json:"place_of_delivery"`

	ETD *time.Time `json:"etd"`
	ETA *time.Time `json:"eta"`

	Containers ContainerList `json:"containers"`

	// Set only by the deterministic extraction path, in [0.5, 1.0].
	ExtractionConfidence *float64 `json:"extraction_confidence"`

	RawTextExcerpt *string `json:"raw_text_excerpt"`
}

// ShipmentDocument is a DocumentExtraction enriched with source metadata,
// as persisted once per processing attempt.
type ShipmentDocument struct {
	DedupeKey            string        `db:"dedupe_key" json:"dedupe_key"`
	DocType              DocType       `db:"doc_type" json:"doc_type"`
	BLNumber             *string       `db:"bl_number" json:"bl_number"`
	EmailStatus          EmailStatus   `db:"email_status" json:"email_status"`
	ShipperName          *string       `db:"shipper_name" json:"shipper_name"`
	ConsigneeName        *string       `db:"consignee_name" json:"consignee_name"`
	NotifyPartyName      *string       `db:"notify_party_name" json:"notify_party_name"`
	CarrierName          *string       `db:"carrier_name" json:"carrier_name"`
	PortOfLoading        *string       `db:"port_of_loading" json:"port_of_loading"`
	PortOfDischarge      *string       `db:"port_of_discharge" json:"port_of_discharge"`
	PlaceOfReceipt       *string       `db:"place_of_receipt" json:"place_of_receipt"`
	PlaceOfDelivery      *string       `db:"place_of_delivery" json:"place_of_delivery"`
	ETD                  *time.Time    `db:"etd" json:"etd"`
	ETA                  *time.Time    `db:"eta" json:"eta"`
	Containers           ContainerList `db:"containers" json:"containers"`
	ExtractionConfidence *float64      `db:"extraction_confidence" json:"extraction_confidence"`
	RawTextExcerpt       *string       `db:"raw_text_excerpt" json:"raw_text_excerpt"`

	SourceEmailID      string    `db:"source_email_id" json:"source_email_id"`
	SourceSubject      string    `db:"source_subject" json:"source_subject"`
	SourceFrom         string    `db:"source_from" json:"source_from"`
	SourceReceivedAt   time.Time `db:"source_received_at" json:"source_received_at"`
	AttachmentFilename string    `db:"attachment_filename" json:"attachment_filename"`
	PageNumber         int       `db:"page_number" json:"page_number"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// FromExtraction builds a ShipmentDocument from an engine result plus source metadata.
func FromExtraction(ex *DocumentExtraction, src SourceMetadata, dedupeKey string, pageNumber int) *ShipmentDocument {
	return &ShipmentDocument{
		DedupeKey:            dedupeKey,
		DocType:              ex.DocType,
		BLNumber:             ex.BLNumber,
		EmailStatus:          ex.EmailStatus,
		ShipperName:          ex.ShipperName,
		ConsigneeName:        ex.ConsigneeName,
		NotifyPartyName:      ex.NotifyPartyName,
		CarrierName:          ex.CarrierName,
		PortOfLoading:        ex.PortOfLoading,
		PortOfDischarge:      ex.PortOfDischarge,
		PlaceOfReceipt:       ex.PlaceOfReceipt,
		PlaceOfDelivery:      ex.PlaceOfDelivery,
		ETD:                  ex.ETD,
		ETA:                  ex.ETA,
		Containers:           ex.Containers,
		ExtractionConfidence: ex.ExtractionConfidence,
		RawTextExcerpt:       ex.RawTextExcerpt,
		SourceEmailID:        src.EmailID,
		SourceSubject:        src.Subject,
		SourceFrom:           src.From,
		SourceReceivedAt:     src.ReceivedAt,
		AttachmentFilename:   src.AttachmentFilename,
		PageNumber:           pageNumber,
	}
}

// SourceMetadata identifies where a processed page came from.
type SourceMetadata struct {
	EmailID            string
	Subject            string
	From               string
	ReceivedAt         time.Time
	AttachmentFilename string
}

// ProcessingSummary aggregates counters for one processing run.
type ProcessingSummary struct {
	EmailsProcessed      int `json:"emails_processed"`
	AttachmentsProcessed int `json:"attachments_processed"`
	DocsCreated          int `json:"docs_created"`
	SkippedDuplicates    int `json:"skipped_duplicates"`
	Errors               int `json:"errors"`
}

// ProcessingJob tracks an asynchronous processing run.
type ProcessingJob struct {
	ID          uuid.UUID         `db:"id" json:"id"`
	Status      JobStatus         `db:"status" json:"status"`
	SkipDedupe  bool              `db:"skip_dedupe" json:"skip_dedupe"`
	Summary     ProcessingSummary `db:"-" json:"summary"`
	SummaryJSON json.RawMessage   `db:"summary" json:"-"`
	StartedAt   *time.Time        `db:"started_at" json:"started_at"`
	CompletedAt *time.Time        `db:"completed_at" json:"completed_at"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
}

// JobLogEntry is a single log line attached to a processing job.
type JobLogEntry struct {
	ID         int64     `db:"id" json:"id"`
	JobID      uuid.UUID `db:"job_id" json:"job_id"`
	Level      LogLevel  `db:"level" json:"level"`
	Message    string    `db:"message" json:"message"`
	EmailID    *string   `db:"email_id" json:"email_id,omitempty"`
	Attachment *string   `db:"attachment" json:"attachment,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
