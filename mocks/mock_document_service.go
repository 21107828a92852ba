package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"ladinglens/internal/domain"
	"ladinglens/internal/port"
	"ladinglens/internal/service"
)

// MockDocumentService is a mock implementation of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) ListByType(ctx context.Context, docType domain.DocType, limit int, cursor *string) (*port.DocumentPage, error) {
	args := m.Called(ctx, docType, limit, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.DocumentPage), args.Error(1)
}

func (m *MockDocumentService) GetByDedupeKey(ctx context.Context, dedupeKey string) (*domain.ShipmentDocument, error) {
	args := m.Called(ctx, dedupeKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShipmentDocument), args.Error(1)
}

func (m *MockDocumentService) Stats(ctx context.Context) (*service.DocumentStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentStats), args.Error(1)
}

func (m *MockDocumentService) ExportCSV(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockDocumentService) ExportXLSX(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}
