package port

import (
	"context"

	"ladex/internal/domain"
)

// StructureExtractor abstracts a document-layout structuring collaborator
// that pre-parses a PDF into section groups. Optional: when unavailable, the
// orchestrator simply skips the structured-hint path.
type StructureExtractor interface {
	Available(ctx context.Context) bool
	// ExtractHint returns the section-group payload for the PDF at path.
	ExtractHint(ctx context.Context, path string) (*domain.StructuredHint, error)
}
