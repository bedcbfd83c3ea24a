// Package ocr routes text recognition across the configured backends.
package ocr

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"ladex/internal/domain"
	"ladex/internal/port"
)

// Registry holds the text recognizers in fallback order. The preferred
// backend is tried first; the first backend that returns non-empty text
// wins, and a backend that errors or comes back empty is skipped.
type Registry struct {
	recognizers []port.TextRecognizer
}

// NewRegistry builds a registry. The recognizer whose name matches
// preferred is moved to the front; the rest keep their given order.
func NewRegistry(preferred string, recognizers ...port.TextRecognizer) *Registry {
	ordered := make([]port.TextRecognizer, 0, len(recognizers))
	for _, r := range recognizers {
		if r.Name() == preferred {
			ordered = append([]port.TextRecognizer{r}, ordered...)
		} else {
			ordered = append(ordered, r)
		}
	}
	return &Registry{recognizers: ordered}
}

// Backends returns the names of the recognizers that respond as available.
func (r *Registry) Backends(ctx context.Context) []string {
	var names []string
	for _, rec := range r.recognizers {
		if rec.Available(ctx) {
			names = append(names, rec.Name())
		}
	}
	return names
}

// ExtractText runs the recognizers in order and returns the first
// non-empty result together with the backend name that produced it.
// When every backend fails the document is unreadable.
func (r *Registry) ExtractText(ctx context.Context, path string) (string, string, error) {
	for _, rec := range r.recognizers {
		if !rec.Available(ctx) {
			continue
		}
		text, err := rec.ExtractText(ctx, path)
		if err != nil {
			log.Printf("ocr.Registry: backend %s failed on %s: %v", rec.Name(), filepath.Base(path), err)
			continue
		}
		if text == "" {
			log.Printf("ocr.Registry: backend %s returned no text for %s", rec.Name(), filepath.Base(path))
			continue
		}
		return text, rec.Name(), nil
	}
	return "", "", fmt.Errorf("%w: no backend could read %s", domain.ErrDocumentUnreadable, filepath.Base(path))
}
