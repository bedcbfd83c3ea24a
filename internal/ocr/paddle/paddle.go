// Package paddle recognizes text through a PaddleOCR serving endpoint.
package paddle

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const predictPath = "/predict/ocr_system"

// Recognizer calls a PaddleOCR hub-serving instance over HTTP. The
// service accepts base64 encoded images and returns per-line text with
// bounding boxes; only the text is kept here.
type Recognizer struct {
	endpoint   string
	httpClient *http.Client
}

func New(endpoint string, timeout time.Duration) *Recognizer {
	return &Recognizer{
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (r *Recognizer) Name() string {
	return "paddleocr"
}

// Available probes the service root. Any HTTP response counts as up;
// only a transport failure marks the backend down.
func (r *Recognizer) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, r.endpoint+"/", nil)
	if err != nil {
		return false
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

type predictRequest struct {
	Images []string `json:"images"`
}

type predictLine struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type predictResponse struct {
	Msg     string          `json:"msg"`
	Results [][]predictLine `json:"results"`
	Status  string          `json:"status"`
}

// ExtractText sends the image at path to the serving endpoint and joins
// the recognized lines in reading order.
func (r *Recognizer) ExtractText(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	body, err := json.Marshal(predictRequest{
		Images: []string{base64.StdEncoding.EncodeToString(data)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+predictPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("service returned status %d: %s", resp.StatusCode, string(raw))
	}

	var decoded predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if decoded.Status != "000" {
		return "", fmt.Errorf("service reported status %s: %s", decoded.Status, decoded.Msg)
	}

	var lines []string
	for _, page := range decoded.Results {
		for _, line := range page {
			if line.Text != "" {
				lines = append(lines, line.Text)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
