package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrDocumentUnreadable  = errors.New("document could not be read by any OCR backend")
	ErrExtractionNotFound  = errors.New("extraction not found")
)
