// Package pdftext recognizes text in PDFs that carry an embedded text
// layer. It needs no external service, so it is always available and
// handles digitally produced bills of lading without OCR.
package pdftext

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/tsawler/tabula"
)

type Recognizer struct{}

func New() *Recognizer {
	return &Recognizer{}
}

func (r *Recognizer) Name() string {
	return "pdftext"
}

func (r *Recognizer) Available(_ context.Context) bool {
	return true
}

// ExtractText pulls the embedded text layer out of the PDF at path.
// Scanned PDFs without a text layer come back empty and are reported as
// an error so the registry can fall through to an OCR backend.
func (r *Recognizer) ExtractText(_ context.Context, path string) (string, error) {
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		return "", fmt.Errorf("pdftext backend only reads PDFs, got %s", filepath.Ext(path))
	}

	text, warnings, err := tabula.Open(path).Text()
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text layer: %w", err)
	}
	if len(warnings) > 0 {
		log.Printf("pdftext.Recognizer: %s: %s", filepath.Base(path), tabula.FormatWarnings(warnings))
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no embedded text layer in %s", filepath.Base(path))
	}
	return text, nil
}
