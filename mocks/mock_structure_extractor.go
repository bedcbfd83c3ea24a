package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ladex/internal/domain"
)

// MockStructureExtractor is a mock implementation of port.StructureExtractor.
type MockStructureExtractor struct {
	mock.Mock
}

func (m *MockStructureExtractor) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockStructureExtractor) ExtractHint(ctx context.Context, path string) (*domain.StructuredHint, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StructuredHint), args.Error(1)
}
