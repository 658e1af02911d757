package service

import (
	"context"

	"gemini-multitool/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockModelGateway ---
type MockModelGateway struct {
	mock.Mock
}

func (m *MockModelGateway) Generate(ctx context.Context, req domain.GenerateRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

var _ domain.ModelGateway = (*MockModelGateway)(nil)
