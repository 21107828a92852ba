package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ladinglens/internal/domain"
)

func strptr(s string) *string { return &s }

func float64ptr(v float64) *float64 { return &v }

func sampleDoc() domain.ShipmentDocument {
	etd := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	return domain.ShipmentDocument{
		DedupeKey:     "abc123",
		DocType:       domain.DocTypeHBL,
		BLNumber:      strptr("HBL-20260102"),
		EmailStatus:   domain.EmailStatusPreAlert,
		ShipperName:   strptr("Acme Corp"),
		ConsigneeName: strptr("Globex Trading GmbH"),
		CarrierName:   strptr("Evergreen Marine"),
		PortOfLoading: strptr("Singapore"),
		ETD:           &etd,
		Containers: domain.ContainerList{
			{Number: "MSKU1234567", Weight: float64ptr(1200.5), Volume: float64ptr(51.746)},
			{Number: "TGHU7654321"},
		},
		ExtractionConfidence: float64ptr(0.9),
		SourceSubject:        "Pre-alert HBL-20260102",
		AttachmentFilename:   "hbl.pdf",
		CreatedAt:            time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 19)
	assert.Equal(t, "BL Number", row[0])
	assert.Equal(t, "Created At", row[18])
}

func TestWriteDocuments(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteDocuments([]domain.ShipmentDocument{sampleDoc()}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "HBL-20260102", row[0])
	assert.Equal(t, "HBL", row[1])
	assert.Equal(t, "pre_alert", row[2])
	assert.Equal(t, "Acme Corp", row[3])
	assert.Equal(t, "2026-01-02", row[11])
	assert.Equal(t, "", row[12])
	assert.Equal(t, "MSKU1234567 (1200.5 kg, 51.746 cbm); TGHU7654321", row[13])
	assert.Equal(t, "2", row[14])
	assert.Equal(t, "0.90", row[15])
}

func TestWriteDocuments_EmptyFields(t *testing.T) {
	doc := domain.ShipmentDocument{
		DocType:   domain.DocTypeMBL,
		CreatedAt: time.Now().UTC(),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteDocuments([]domain.ShipmentDocument{doc}))
	w.Flush()

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Equal(t, "", row[0])
	assert.Equal(t, "MBL", row[1])
	assert.Equal(t, "", row[13])
	assert.Equal(t, "0", row[14])
	assert.Equal(t, "", row[15])
}

func TestFormatContainers(t *testing.T) {
	assert.Equal(t, "", FormatContainers(nil))
	assert.Equal(t, "ABCD1234567", FormatContainers(domain.ContainerList{{Number: "ABCD1234567"}}))
	assert.Equal(t, "ABCD1234567 (100.5 kg)",
		FormatContainers(domain.ContainerList{{Number: "ABCD1234567", Weight: float64ptr(100.5)}}))
	assert.Equal(t, "ABCD1234567 (18.001 cbm)",
		FormatContainers(domain.ContainerList{{Number: "ABCD1234567", Volume: float64ptr(18.001)}}))
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []domain.ShipmentDocument{sampleDoc()}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Shipments")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "BL Number", rows[0][0])
	assert.Equal(t, "HBL-20260102", rows[1][0])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "hbl_documents", SanitizeFilename("hbl documents"))
	assert.Equal(t, "My_Export-2", SanitizeFilename("My//Export-2!!"))
	assert.Equal(t, "a_b", SanitizeFilename("__a___b__"))
}

func TestBuildFilename(t *testing.T) {
	name := BuildFilename("hbl shipments", "csv")
	assert.Contains(t, name, "hbl_shipments_")
	assert.Contains(t, name, ".csv")
}
