// Package docling extracts a structured section hint from a PDF through a
// docling-serve instance. The converted document is bucketed line by line
// into the section groups the extraction pipeline gates on.
package docling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ladex/internal/domain"
)

const convertPath = "/v1alpha/convert/file"

// Extractor calls docling-serve and classifies the converted lines into
// a StructuredHint.
type Extractor struct {
	endpoint   string
	httpClient *http.Client
}

func New(endpoint string, timeout time.Duration) *Extractor {
	return &Extractor{
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Available probes the service health endpoint.
func (e *Extractor) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, e.endpoint+"/health", nil)
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

type convertResponse struct {
	Status   string `json:"status"`
	Document struct {
		MDContent string `json:"md_content"`
	} `json:"document"`
}

// ExtractHint converts the document at path and buckets its lines into
// section groups. An empty conversion yields an empty hint, not an error;
// the orchestrator's completeness gate handles that case.
func (e *Extractor) ExtractHint(ctx context.Context, path string) (*domain.StructuredHint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+convertPath, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("service returned status %d: %s", resp.StatusCode, string(raw))
	}

	var decoded convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if decoded.Status != "" && decoded.Status != "success" {
		return nil, fmt.Errorf("conversion failed with status %s", decoded.Status)
	}

	return bucketLines(decoded.Document.MDContent), nil
}

// Section keyword tables. A line joins the first group whose keyword it
// contains, checked in this order; unmatched lines land in Other.
var (
	headerKeywords = []string{
		"BILL OF LADING", "B/L", "CONNAISSEMENT", "BOOKING", "RESERVATION", "WAYBILL",
	}
	partyKeywords = []string{
		"SHIPPER", "CONSIGNEE", "NOTIFY", "EXPEDITEUR", "DESTINATAIRE", "EXPORTER", "IMPORTER",
	}
	portKeywords = []string{
		"PORT OF", "PORT DE", "PLACE OF RECEIPT", "PLACE OF DELIVERY", "LOADING", "DISCHARGE",
	}
	cargoKeywords = []string{
		"CONTAINER", "CARGO", "DESCRIPTION OF GOODS", "MARCHANDISES", "PACKAGES", "GROSS WEIGHT", "MEASUREMENT",
	}
	transportKeywords = []string{
		"VESSEL", "VOYAGE", "NAVIRE", "CARRIER", "ETD", "ETA",
	}
)

func bucketLines(content string) *domain.StructuredHint {
	hint := &domain.StructuredHint{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "#*| "))
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		switch {
		case containsAny(upper, headerKeywords):
			hint.Header = append(hint.Header, line)
		case containsAny(upper, partyKeywords):
			hint.Parties = append(hint.Parties, line)
		case containsAny(upper, portKeywords):
			hint.Ports = append(hint.Ports, line)
		case containsAny(upper, cargoKeywords):
			hint.CargoInfo = append(hint.CargoInfo, line)
		case containsAny(upper, transportKeywords):
			hint.Transport = append(hint.Transport, line)
		default:
			hint.Other = append(hint.Other, line)
		}
	}
	return hint
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
