package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockRevocationStore is a mock implementation of port.TokenRevocationStore.
type MockRevocationStore struct {
	mock.Mock
}

func (m *MockRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, tokenID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}
