package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ladinglens/internal/port"
)

// MockPageConverter is a mock implementation of port.PageConverter.
type MockPageConverter struct {
	mock.Mock
}

func (m *MockPageConverter) Convert(ctx context.Context, pdfBytes []byte) ([]port.DocumentPageText, error) {
	args := m.Called(ctx, pdfBytes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.DocumentPageText), args.Error(1)
}
