package mocks

import (
	"github.com/stretchr/testify/mock"

	"pitchwise/internal/domain"
)

// MockOptionExtractor is a mock implementation of port.OptionExtractor.
type MockOptionExtractor struct {
	mock.Mock
}

func (m *MockOptionExtractor) Extract(raw string) (domain.ResultSet, string) {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil, args.String(1)
	}
	return args.Get(0).(domain.ResultSet), args.String(1)
}
