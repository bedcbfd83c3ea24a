package port

import (
	"context"

	"github.com/google/uuid"

	"ladex/internal/domain"
)

// ExtractionRepository persists extraction-history rows.
type ExtractionRepository interface {
	Create(ctx context.Context, e *domain.Extraction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Extraction, error)
	List(ctx context.Context, offset, limit int) ([]domain.Extraction, int, error)
}
