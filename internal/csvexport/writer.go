// Package csvexport renders shipment documents as spreadsheet files for
// download.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ladinglens/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (19 columns).
var columns = []string{
	"BL Number",
	"Document Type",
	"Email Status",
	"Shipper",
	"Consignee",
	"Notify Party",
	"Carrier",
	"Port of Loading",
	"Port of Discharge",
	"Place of Receipt",
	"Place of Delivery",
	"ETD",
	"ETA",
	"Containers",
	"Container Count",
	"Confidence",
	"Source Subject",
	"Attachment",
	"Created At",
}

// Writer wraps csv.Writer for exporting shipment documents as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteDocuments converts a batch of documents to CSV rows and writes them.
func (w *Writer) WriteDocuments(docs []domain.ShipmentDocument) error {
	for i := range docs {
		row := documentToRow(&docs[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func documentToRow(doc *domain.ShipmentDocument) []string {
	row := make([]string, len(columns))

	row[0] = deref(doc.BLNumber)
	row[1] = strings.ToUpper(string(doc.DocType))
	row[2] = string(doc.EmailStatus)
	row[3] = deref(doc.ShipperName)
	row[4] = deref(doc.ConsigneeName)
	row[5] = deref(doc.NotifyPartyName)
	row[6] = deref(doc.CarrierName)
	row[7] = deref(doc.PortOfLoading)
	row[8] = deref(doc.PortOfDischarge)
	row[9] = deref(doc.PlaceOfReceipt)
	row[10] = deref(doc.PlaceOfDelivery)
	row[11] = formatDate(doc.ETD)
	row[12] = formatDate(doc.ETA)
	row[13] = FormatContainers(doc.Containers)
	row[14] = strconv.Itoa(len(doc.Containers))
	row[15] = formatConfidence(doc.ExtractionConfidence)
	row[16] = doc.SourceSubject
	row[17] = doc.AttachmentFilename
	row[18] = doc.CreatedAt.Format(time.RFC3339)

	return row
}

// FormatContainers renders a container list as a single semicolon-joined
// cell, e.g. "MSKU1234567 (1200.5 kg, 51.746 cbm); TGHU7654321".
func FormatContainers(containers domain.ContainerList) string {
	parts := make([]string, 0, len(containers))
	for _, c := range containers {
		var attrs []string
		if c.Weight != nil {
			attrs = append(attrs, fmt.Sprintf("%g kg", *c.Weight))
		}
		if c.Volume != nil {
			attrs = append(attrs, fmt.Sprintf("%g cbm", *c.Volume))
		}
		if len(attrs) == 0 {
			parts = append(parts, c.Number)
		} else {
			parts = append(parts, fmt.Sprintf("%s (%s)", c.Number, strings.Join(attrs, ", ")))
		}
	}
	return strings.Join(parts, "; ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatConfidence(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition. Replaces
// non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
