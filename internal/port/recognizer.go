package port

import "context"

// TextRecognizer abstracts an OCR backend that turns a document file into raw
// text. Backends may be slow or GPU-bound; errors are recoverable and trigger
// fallback to another backend.
type TextRecognizer interface {
	// Name identifies the backend (e.g. "tesseract", "paddleocr").
	Name() string
	// Available reports whether the backend can serve requests. Probed once
	// at startup; the result is treated as immutable for the process lifetime.
	Available(ctx context.Context) bool
	// ExtractText runs OCR on the file at path and returns the recognized text.
	ExtractText(ctx context.Context, path string) (string, error)
}
