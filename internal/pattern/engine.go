// Package pattern implements the deterministic, dependency-free extraction
// strategy. It is the terminal fallback of the strategy chain: it always
// produces a record and never returns an error.
package pattern

import (
	"log"
	"regexp"
	"strings"

	"ladex/internal/domain"
	"ladex/internal/scoring"
)

var (
	// Characters outside this allow-list are replaced with spaces before
	// matching. OCR output is noisy; dropping everything but alphanumerics
	// and common label punctuation makes the rule table far more reliable.
	disallowedChars = regexp.MustCompile(`[^0-9A-Za-z_\s.:,/()#-]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// Normalize prepares raw document text for pattern matching: strip characters
// outside the allow-list, collapse whitespace runs to single spaces, and
// uppercase. Uppercasing trades case information for matching robustness.
func Normalize(text string) string {
	cleaned := disallowedChars.ReplaceAllString(text, " ")
	cleaned = whitespaceRuns.ReplaceAllString(cleaned, " ")
	return strings.ToUpper(strings.TrimSpace(cleaned))
}

// Engine converts raw text into an ExtractionRecord using the ordered rule
// table in fieldPatterns. Engine is stateless and safe for concurrent use.
type Engine struct{}

// NewEngine creates a pattern extraction engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Parse extracts a record from raw document text. It never fails: any panic
// during matching or assembly is recovered into a zero-confidence record with
// the raw text preserved.
func (e *Engine) Parse(text string) (rec *domain.ExtractionRecord) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("pattern.Engine: recovered during extraction: %v", r)
			rec = &domain.ExtractionRecord{
				Confidence: 0.0,
				Method:     domain.MethodPatternOnly,
				RawText:    text,
			}
		}
	}()

	norm := Normalize(text)

	rec = &domain.ExtractionRecord{
		Method:  domain.MethodPatternOnly,
		RawText: text,
	}

	rec.BLNumber = matchField(norm, fieldBLNumber)
	rec.BookingNumber = matchField(norm, fieldBookingNumber)

	rec.Shipper = extractParty(norm, fieldShipper)
	rec.Consignee = extractParty(norm, fieldConsignee)
	rec.NotifyParty = extractParty(norm, fieldNotifyParty)

	rec.PortOfLoading = extractPort(norm, fieldPortOfLoading)
	rec.PortOfDischarge = extractPort(norm, fieldPortOfDischarge)

	rec.Transport = extractTransport(norm)
	rec.Cargo = extractCargo(norm)
	rec.Containers = extractContainers(norm)

	rec.FreightTerms = matchField(norm, fieldFreightTerms)
	rec.IssueDate = matchField(norm, fieldIssueDate)

	rec.Confidence = scoring.Score(rec)
	return rec
}

// matchField tries the ordered rules for a field and returns the first
// capture, trimmed. First match wins; remaining rules are not tried.
func matchField(text, field string) string {
	for _, re := range fieldPatterns[field] {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// extractParty splits a matched party block into name and address. Scanned
// B/L forms separate name from address lines with slashes or line breaks, so
// both act as segment separators; the first segment is the name, the rest are
// rejoined as the address. No name means no party.
func extractParty(text, field string) *domain.Party {
	raw := matchField(text, field)
	if raw == "" {
		return nil
	}

	var segments []string
	for _, seg := range strings.FieldsFunc(raw, func(r rune) bool { return r == '/' || r == '\n' }) {
		if seg = strings.TrimSpace(seg); seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return nil
	}
	return domain.NewParty(segments[0], strings.Join(segments[1:], "\n"))
}

func extractPort(text, field string) *domain.Port {
	raw := matchField(text, field)
	if raw == "" {
		return nil
	}
	return domain.NewPort(raw, "", "")
}

// extractTransport populates transport details only when at least one of
// vessel name, voyage number, or B/L number matched independently.
func extractTransport(text string) *domain.TransportDetails {
	vessel := matchField(text, fieldVesselName)
	voyage := matchField(text, fieldVoyageNumber)
	blNumber := matchField(text, fieldBLNumber)
	booking := matchField(text, fieldBookingNumber)

	if vessel == "" && voyage == "" && blNumber == "" {
		return nil
	}
	return domain.NewTransportDetails(vessel, voyage, blNumber, booking, "", "")
}

// extractCargo produces at most one cargo entry: the first description match,
// with the single global weight and volume matches attached to it. Additional
// cargo blocks in the text are not enumerated.
func extractCargo(text string) []domain.Cargo {
	desc := matchField(text, fieldCargoDesc)
	if desc == "" {
		return nil
	}
	cargo := domain.NewCargo(desc, "", matchField(text, fieldWeight), matchField(text, fieldVolume))
	if cargo == nil {
		return nil
	}
	return []domain.Cargo{*cargo}
}

// extractContainers collects every container-number match across all rules,
// in order of appearance, with no cap.
func extractContainers(text string) []domain.Container {
	var containers []domain.Container
	for _, re := range fieldPatterns[fieldContainerNumber] {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if c := domain.NewContainer(strings.TrimSpace(m[1]), "", "", ""); c != nil {
				containers = append(containers, *c)
			}
		}
	}
	return containers
}
