package csvexport

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ladex/internal/domain"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 27)
	assert.Equal(t, "Document Name", row[0])
	assert.Equal(t, "B/L Number", row[4])
	assert.Equal(t, "Created At", row[26])
}

func TestWriteExtractions(t *testing.T) {
	rec := domain.ExtractionRecord{
		BLNumber:        "MAEU12345678",
		BookingNumber:   "4501234567",
		Shipper:         &domain.Party{Name: "ACME EXPORTS GMBH", Address: "HAMBURG"},
		Consignee:       &domain.Party{Name: "GLOBAL IMPORTS PTE LTD"},
		PortOfLoading:   &domain.Port{Name: "HAMBURG"},
		PortOfDischarge: &domain.Port{Name: "SINGAPORE"},
		Transport:       &domain.TransportDetails{VesselName: "MSC OSCAR", VoyageNumber: "FA824E"},
		Cargo:           []domain.Cargo{{Description: "MACHINERY", Weight: "18500", Volume: "28"}},
		Containers:      []domain.Container{{Number: "MSCU1234567"}, {Number: "TCLU7654321"}},
		FreightTerms:    "PREPAID",
	}
	recordJSON, err := json.Marshal(rec)
	require.NoError(t, err)

	e := domain.Extraction{
		ID:         uuid.New(),
		FileName:   "bl-scan.pdf",
		FileType:   domain.FileTypePDF,
		Method:     domain.MethodPatternOnly,
		Confidence: 0.87,
		Record:     recordJSON,
		CreatedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteExtractions([]domain.Extraction{e}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "bl-scan.pdf", row[0])
	assert.Equal(t, "pdf", row[1])
	assert.Equal(t, "pattern-only", row[2])
	assert.Equal(t, "0.87", row[3])
	assert.Equal(t, "MAEU12345678", row[4])
	assert.Equal(t, "ACME EXPORTS GMBH", row[6])
	assert.Equal(t, "GLOBAL IMPORTS PTE LTD", row[8])
	assert.Equal(t, "HAMBURG", row[11])
	assert.Equal(t, "SINGAPORE", row[12])
	assert.Equal(t, "MSC OSCAR", row[14])
	assert.Equal(t, "18500", row[20])
	assert.Equal(t, "2", row[22])
	assert.Equal(t, "MSCU1234567 TCLU7654321", row[23])
	assert.Equal(t, "PREPAID", row[24])
}

func TestWriteExtractions_InvalidRecordJSON(t *testing.T) {
	e := domain.Extraction{
		FileName:  "broken.pdf",
		FileType:  domain.FileTypePDF,
		Method:    domain.MethodEnhanced,
		Record:    json.RawMessage(`{not json`),
		CreatedAt: time.Now().UTC(),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteExtractions([]domain.Extraction{e}))
	w.Flush()

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "broken.pdf", rows[0][0])
	assert.Empty(t, rows[0][4])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "bl_scan_2024", SanitizeFilename("bl scan (2024)"))
	assert.Equal(t, "extractions", SanitizeFilename("extractions"))
	assert.Equal(t, "a_b", SanitizeFilename("__a///b__"))
}

func TestBuildFilename(t *testing.T) {
	name := BuildFilename("extractions", "csv")
	assert.Contains(t, name, "extractions_")
	assert.Contains(t, name, ".csv")
}
