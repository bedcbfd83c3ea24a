package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ladex/internal/domain"
)

// MockEnhancer is a mock implementation of port.Enhancer.
type MockEnhancer struct {
	mock.Mock
}

func (m *MockEnhancer) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockEnhancer) Enhance(ctx context.Context, text string, hint *domain.StructuredHint) (*domain.ExtractionRecord, error) {
	args := m.Called(ctx, text, hint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionRecord), args.Error(1)
}
