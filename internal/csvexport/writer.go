package csvexport

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ladex/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Document Name",
	"File Type",
	"Extraction Method",
	"Confidence",
	"B/L Number",
	"Booking Number",
	"Shipper Name",
	"Shipper Address",
	"Consignee Name",
	"Consignee Address",
	"Notify Party",
	"Port of Loading",
	"Port of Discharge",
	"Port of Delivery",
	"Vessel",
	"Voyage",
	"Departure Date",
	"Arrival Date",
	"Cargo Description",
	"Quantity",
	"Gross Weight",
	"Volume",
	"Container Count",
	"Container Numbers",
	"Freight Terms",
	"Issue Date",
	"Created At",
}

// Writer wraps csv.Writer for exporting extraction history as CSV.
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

// WriteExtractions converts a batch of history rows to CSV rows and writes them.
func (w *Writer) WriteExtractions(extractions []domain.Extraction) error {
	for i := range extractions {
		row := extractionToRow(&extractions[i])
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

// extractionToRow converts a single history row to a string slice. When the
// stored record JSON fails to unmarshal, metadata columns are still filled
// and field columns are left empty.
func extractionToRow(e *domain.Extraction) []string {
	row := make([]string, len(columns))

	row[0] = e.FileName
	row[1] = string(e.FileType)
	row[2] = e.Method
	row[3] = strconv.FormatFloat(e.Confidence, 'f', 2, 64)
	row[26] = e.CreatedAt.Format(time.RFC3339)

	if len(e.Record) == 0 {
		return row
	}
	var rec domain.ExtractionRecord
	if err := json.Unmarshal(e.Record, &rec); err != nil {
		return row
	}

	row[4] = rec.BLNumber
	row[5] = rec.BookingNumber
	if rec.Shipper != nil {
		row[6] = rec.Shipper.Name
		row[7] = rec.Shipper.Address
	}
	if rec.Consignee != nil {
		row[8] = rec.Consignee.Name
		row[9] = rec.Consignee.Address
	}
	if rec.NotifyParty != nil {
		row[10] = rec.NotifyParty.Name
	}
	row[11] = portName(rec.PortOfLoading)
	row[12] = portName(rec.PortOfDischarge)
	row[13] = portName(rec.PortOfDelivery)
	if rec.Transport != nil {
		row[14] = rec.Transport.VesselName
		row[15] = rec.Transport.VoyageNumber
		row[16] = rec.Transport.DepartureDate
		row[17] = rec.Transport.ArrivalDate
	}
	if len(rec.Cargo) > 0 {
		row[18] = rec.Cargo[0].Description
		row[19] = rec.Cargo[0].Quantity
		row[20] = rec.Cargo[0].Weight
		row[21] = rec.Cargo[0].Volume
	}
	row[22] = strconv.Itoa(len(rec.Containers))
	row[23] = containerNumbers(rec.Containers)
	row[24] = rec.FreightTerms
	row[25] = rec.IssueDate

	return row
}

func portName(p *domain.Port) string {
	if p == nil {
		return ""
	}
	return p.Name
}

func containerNumbers(containers []domain.Container) string {
	nums := make([]string, 0, len(containers))
	for _, c := range containers {
		nums = append(nums, c.Number)
	}
	return strings.Join(nums, " ")
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
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

// BuildFilename returns a sanitized filename for the Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
