package port

import (
	"context"

	"ladex/internal/domain"
)

// Enhancer abstracts language-model extraction. Enhance returns a populated
// record with its confidence already computed through the shared scorer, or
// an error when the service is unreachable or its output is unparseable.
// Failure is always an error, never a zero-confidence record, so the
// orchestrator never blends partial data into later strategies.
type Enhancer interface {
	Available(ctx context.Context) bool
	Enhance(ctx context.Context, text string, hint *domain.StructuredHint) (*domain.ExtractionRecord, error)
}
