package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ladinglens/internal/domain"
)

// MockDocumentExtractor is a mock implementation of port.DocumentExtractor.
type MockDocumentExtractor struct {
	mock.Mock
}

func (m *MockDocumentExtractor) ExtractFromText(ctx context.Context, text string) (*domain.DocumentExtraction, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentExtraction), args.Error(1)
}
