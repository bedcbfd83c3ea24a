// Package scoring computes the shared extraction-confidence score. Every
// strategy scores its output through this package so scores are comparable
// across strategies.
package scoring

import "ladex/internal/domain"

// fieldWeight ties a named field to its importance weight and a presence check.
type fieldWeight struct {
	name    string
	weight  float64
	present func(*domain.ExtractionRecord) bool
}

// Tiered weights: critical fields count 1.0, important fields 0.5. The
// container bonus contributes 0.2 to both numerator (when present) and
// denominator (always), matching the fixed policy in the design.
var (
	criticalWeight  = 1.0
	importantWeight = 0.5
	containerBonus  = 0.2

	weights = []fieldWeight{
		{"bl_number", criticalWeight, func(r *domain.ExtractionRecord) bool { return r.BLNumber != "" }},
		{"shipper", criticalWeight, func(r *domain.ExtractionRecord) bool { return r.Shipper != nil }},
		{"consignee", criticalWeight, func(r *domain.ExtractionRecord) bool { return r.Consignee != nil }},
		{"port_of_loading", criticalWeight, func(r *domain.ExtractionRecord) bool { return r.PortOfLoading != nil }},
		{"port_of_discharge", criticalWeight, func(r *domain.ExtractionRecord) bool { return r.PortOfDischarge != nil }},
		{"booking_number", importantWeight, func(r *domain.ExtractionRecord) bool { return r.BookingNumber != "" }},
		{"transport_details", importantWeight, func(r *domain.ExtractionRecord) bool { return r.Transport != nil }},
		{"cargo", importantWeight, func(r *domain.ExtractionRecord) bool { return len(r.Cargo) > 0 }},
		{"freight_terms", importantWeight, func(r *domain.ExtractionRecord) bool { return r.FreightTerms != "" }},
		{"containers", containerBonus, func(r *domain.ExtractionRecord) bool { return len(r.Containers) > 0 }},
	}
)

// Score returns the field-presence confidence for a record, in [0, 1].
// A record with every weighted field populated scores 1.0; an empty record
// scores 0.0. An empty weight table yields 0.0 rather than dividing by zero.
func Score(rec *domain.ExtractionRecord) float64 {
	var total, filled float64
	for _, w := range weights {
		total += w.weight
		if w.present(rec) {
			filled += w.weight
		}
	}
	if total == 0 {
		return 0.0
	}
	score := filled / total
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// ScoreWithBonus applies a strategy-specific multiplicative trust bonus on top
// of Score, capped at 1.0. The enhancement strategy documents a x1.1 bonus;
// the pattern engine uses no bonus.
func ScoreWithBonus(rec *domain.ExtractionRecord, multiplier float64) float64 {
	score := Score(rec) * multiplier
	if score > 1.0 {
		return 1.0
	}
	return score
}
