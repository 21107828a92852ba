package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ladinglens/internal/domain"
	"ladinglens/internal/port"
)

// MockDocumentRepo is a mock implementation of port.DocumentRepository.
type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Upsert(ctx context.Context, doc *domain.ShipmentDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepo) ExistsByDedupeKey(ctx context.Context, dedupeKey string) (bool, error) {
	args := m.Called(ctx, dedupeKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepo) GetByDedupeKey(ctx context.Context, dedupeKey string) (*domain.ShipmentDocument, error) {
	args := m.Called(ctx, dedupeKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShipmentDocument), args.Error(1)
}

func (m *MockDocumentRepo) ListByType(ctx context.Context, docType domain.DocType, limit int, cursor *string) (*port.DocumentPage, error) {
	args := m.Called(ctx, docType, limit, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.DocumentPage), args.Error(1)
}

func (m *MockDocumentRepo) ListAll(ctx context.Context) ([]domain.ShipmentDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShipmentDocument), args.Error(1)
}

func (m *MockDocumentRepo) CountByType(ctx context.Context, docType domain.DocType) (int, error) {
	args := m.Called(ctx, docType)
	return args.Int(0), args.Error(1)
}
