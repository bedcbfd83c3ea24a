package domain

// StructuredHint is the pre-parsed section payload produced by an external
// document-structuring collaborator. Each group holds zero or more text
// fragments identified as belonging to that section of the document.
type StructuredHint struct {
	Header    []string `json:"header_info"`
	Parties   []string `json:"parties"`
	Ports     []string `json:"ports"`
	CargoInfo []string `json:"cargo_info"`
	Transport []string `json:"transport_details"`
	Other     []string `json:"other"`
}

// CompleteSections counts how many of the three gating section groups (header
// identifiers, party information, port information) are non-empty. The
// orchestrator compares this against a configured minimum before trusting the
// hint to seed enhancement.
func (h *StructuredHint) CompleteSections() int {
	n := 0
	for _, group := range [][]string{h.Header, h.Parties, h.Ports} {
		if len(group) > 0 {
			n++
		}
	}
	return n
}

// Empty reports whether the hint carries no fragments at all.
func (h *StructuredHint) Empty() bool {
	return len(h.Header) == 0 && len(h.Parties) == 0 && len(h.Ports) == 0 &&
		len(h.CargoInfo) == 0 && len(h.Transport) == 0 && len(h.Other) == 0
}
