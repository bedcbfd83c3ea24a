// Package tesseract recognizes text in image files through the local
// Tesseract engine. It requires the tesseract libraries and language data
// to be installed on the host.
package tesseract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Recognizer runs Tesseract over JPEG and PNG scans. PDF input is not
// supported here; the registry routes PDFs to the text-layer backend.
type Recognizer struct {
	languages string
}

// New creates a recognizer. languages is a "+" separated Tesseract
// language list such as "eng+fra".
func New(languages string) *Recognizer {
	return &Recognizer{languages: languages}
}

func (r *Recognizer) Name() string {
	return "tesseract"
}

// Available reports whether the Tesseract installation has usable
// language data.
func (r *Recognizer) Available(_ context.Context) bool {
	langs, err := gosseract.GetAvailableLanguages()
	return err == nil && len(langs) > 0
}

// ExtractText runs OCR over the image at path. A fresh client is created
// per call since gosseract clients are not safe for concurrent use.
func (r *Recognizer) ExtractText(_ context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png":
	default:
		return "", fmt.Errorf("tesseract backend only reads images, got %s", filepath.Ext(path))
	}

	client := gosseract.NewClient()
	defer client.Close()

	if r.languages != "" {
		if err := client.SetLanguage(strings.Split(r.languages, "+")...); err != nil {
			return "", fmt.Errorf("failed to set languages %q: %w", r.languages, err)
		}
	}
	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognition failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
