// Package ollama extracts shipping-document fields with a local language
// model served by Ollama. Model output is validated against a JSON schema
// before any of it reaches the record.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"ladex/internal/domain"
	"ladex/internal/scoring"
)

const generatePath = "/api/generate"

// llmConfidenceBonus rewards language-model extractions for context
// awareness the pattern rules lack. Applied through the shared scorer,
// which caps the result at 1.0.
const llmConfidenceBonus = 1.1

// Enhancer calls an Ollama instance for field extraction.
type Enhancer struct {
	endpoint    string
	model       string
	temperature float64
	httpClient  *http.Client
}

func New(endpoint, model string, temperature float64, timeout time.Duration) *Enhancer {
	return &Enhancer{
		endpoint:    strings.TrimRight(endpoint, "/"),
		model:       model,
		temperature: temperature,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Available probes the Ollama tags endpoint.
func (e *Enhancer) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, e.endpoint+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Format  string         `json:"format"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Enhance sends the document text, plus the structured hint when present,
// to the model and maps the validated reply onto a record. Every failure
// mode is an error; the caller decides what to fall back to.
func (e *Enhancer) Enhance(ctx context.Context, text string, hint *domain.StructuredHint) (*domain.ExtractionRecord, error) {
	body, err := json.Marshal(generateRequest{
		Model:  e.model,
		Prompt: buildPrompt(text, hint),
		Stream: false,
		Format: "json",
		Options: map[string]any{
			"temperature": e.temperature,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+generatePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("service returned status %d: %s", resp.StatusCode, string(raw))
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	payload, err := parseModelOutput(decoded.Response)
	if err != nil {
		return nil, err
	}
	return payload.toRecord(), nil
}

func buildPrompt(text string, hint *domain.StructuredHint) string {
	var b strings.Builder
	b.WriteString("You are an expert at reading bills of lading in English and French.\n")
	b.WriteString("Extract the fields below from the document and answer with ONLY a JSON object.\n")
	b.WriteString("Use null for any field not present in the document. Do not invent values.\n\n")
	b.WriteString("Fields: bl_number, booking_number, shipper_name, shipper_address, ")
	b.WriteString("consignee_name, consignee_address, notify_party_name, notify_party_address, ")
	b.WriteString("port_of_loading, port_of_discharge, port_of_delivery, vessel_name, ")
	b.WriteString("voyage_number, departure_date, arrival_date, cargo_description, quantity, ")
	b.WriteString("weight, volume, container_numbers (array of strings), freight_terms, issue_date.\n")

	if hint != nil && !hint.Empty() {
		b.WriteString("\nThe document layout was pre-analyzed into sections:\n")
		writeSection(&b, "HEADER", hint.Header)
		writeSection(&b, "PARTIES", hint.Parties)
		writeSection(&b, "PORTS", hint.Ports)
		writeSection(&b, "CARGO", hint.CargoInfo)
		writeSection(&b, "TRANSPORT", hint.Transport)
	}

	b.WriteString("\nDocument text:\n")
	b.WriteString(text)
	return b.String()
}

func writeSection(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString(title)
	b.WriteString(":\n")
	for _, line := range lines {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
}

// outputSchema rejects replies whose shape would silently drop data, for
// example a string where an array is expected. Field values stay lenient;
// models disagree on number formatting.
var outputSchema = jsonschema.MustCompileString("llm_output.json", `{
	"type": "object",
	"properties": {
		"bl_number":            {"type": ["string", "null"]},
		"booking_number":       {"type": ["string", "null"]},
		"shipper_name":         {"type": ["string", "null"]},
		"shipper_address":      {"type": ["string", "null"]},
		"consignee_name":       {"type": ["string", "null"]},
		"consignee_address":    {"type": ["string", "null"]},
		"notify_party_name":    {"type": ["string", "null"]},
		"notify_party_address": {"type": ["string", "null"]},
		"port_of_loading":      {"type": ["string", "null"]},
		"port_of_discharge":    {"type": ["string", "null"]},
		"port_of_delivery":     {"type": ["string", "null"]},
		"vessel_name":          {"type": ["string", "null"]},
		"voyage_number":        {"type": ["string", "null"]},
		"departure_date":       {"type": ["string", "null"]},
		"arrival_date":         {"type": ["string", "null"]},
		"cargo_description":    {"type": ["string", "null"]},
		"quantity":             {"type": ["string", "number", "null"]},
		"weight":               {"type": ["string", "number", "null"]},
		"volume":               {"type": ["string", "number", "null"]},
		"container_numbers":    {"type": ["array", "null"], "items": {"type": "string"}},
		"freight_terms":        {"type": ["string", "null"]},
		"issue_date":           {"type": ["string", "null"]}
	}
}`)

// flexString accepts a JSON string, number, or null. Quantities and
// weights come back as bare numbers from some models.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	return fmt.Errorf("expected string or number, got %s", string(data))
}

type llmPayload struct {
	BLNumber           string     `json:"bl_number"`
	BookingNumber      string     `json:"booking_number"`
	ShipperName        string     `json:"shipper_name"`
	ShipperAddress     string     `json:"shipper_address"`
	ConsigneeName      string     `json:"consignee_name"`
	ConsigneeAddress   string     `json:"consignee_address"`
	NotifyPartyName    string     `json:"notify_party_name"`
	NotifyPartyAddress string     `json:"notify_party_address"`
	PortOfLoading      string     `json:"port_of_loading"`
	PortOfDischarge    string     `json:"port_of_discharge"`
	PortOfDelivery     string     `json:"port_of_delivery"`
	VesselName         string     `json:"vessel_name"`
	VoyageNumber       string     `json:"voyage_number"`
	DepartureDate      string     `json:"departure_date"`
	ArrivalDate        string     `json:"arrival_date"`
	CargoDescription   string     `json:"cargo_description"`
	Quantity           flexString `json:"quantity"`
	Weight             flexString `json:"weight"`
	Volume             flexString `json:"volume"`
	ContainerNumbers   []string   `json:"container_numbers"`
	FreightTerms       string     `json:"freight_terms"`
	IssueDate          string     `json:"issue_date"`
}

// parseModelOutput cleans up the raw model reply, validates it against
// the schema, and unmarshals it.
func parseModelOutput(raw string) (*llmPayload, error) {
	cleaned := cleanJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var untyped any
	if err := json.Unmarshal([]byte(cleaned), &untyped); err != nil {
		return nil, fmt.Errorf("model output is not valid JSON: %w", err)
	}
	if err := outputSchema.Validate(untyped); err != nil {
		return nil, fmt.Errorf("model output does not match schema: %w", err)
	}

	var payload llmPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model output: %w", err)
	}
	return &payload, nil
}

// cleanJSON strips markdown code fences and anything outside the
// outermost braces. Models wrap JSON in prose more often than not.
func cleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// toRecord maps the payload onto a record through the collapse-to-absent
// constructors and scores it with the enhancement bonus. Null fields never
// become empty objects, so the scorer only counts genuine presence.
func (p *llmPayload) toRecord() *domain.ExtractionRecord {
	rec := &domain.ExtractionRecord{
		BLNumber:        strings.TrimSpace(p.BLNumber),
		BookingNumber:   strings.TrimSpace(p.BookingNumber),
		Shipper:         domain.NewParty(strings.TrimSpace(p.ShipperName), strings.TrimSpace(p.ShipperAddress)),
		Consignee:       domain.NewParty(strings.TrimSpace(p.ConsigneeName), strings.TrimSpace(p.ConsigneeAddress)),
		NotifyParty:     domain.NewParty(strings.TrimSpace(p.NotifyPartyName), strings.TrimSpace(p.NotifyPartyAddress)),
		PortOfLoading:   domain.NewPort(strings.TrimSpace(p.PortOfLoading), "", ""),
		PortOfDischarge: domain.NewPort(strings.TrimSpace(p.PortOfDischarge), "", ""),
		PortOfDelivery:  domain.NewPort(strings.TrimSpace(p.PortOfDelivery), "", ""),
		Transport: domain.NewTransportDetails(
			strings.TrimSpace(p.VesselName),
			strings.TrimSpace(p.VoyageNumber),
			strings.TrimSpace(p.BLNumber),
			strings.TrimSpace(p.BookingNumber),
			strings.TrimSpace(p.DepartureDate),
			strings.TrimSpace(p.ArrivalDate),
		),
		FreightTerms: strings.TrimSpace(p.FreightTerms),
		IssueDate:    strings.TrimSpace(p.IssueDate),
	}

	if cargo := domain.NewCargo(
		strings.TrimSpace(p.CargoDescription),
		strings.TrimSpace(string(p.Quantity)),
		strings.TrimSpace(string(p.Weight)),
		strings.TrimSpace(string(p.Volume)),
	); cargo != nil {
		rec.Cargo = append(rec.Cargo, *cargo)
	}
	for _, num := range p.ContainerNumbers {
		if c := domain.NewContainer(strings.TrimSpace(num), "", "", ""); c != nil {
			rec.Containers = append(rec.Containers, *c)
		}
	}

	rec.Confidence = scoring.ScoreWithBonus(rec, llmConfidenceBonus)
	return rec
}
