package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pitchwise/internal/domain"
)

// MockGenerator is a mock implementation of port.Generator.
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req domain.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
