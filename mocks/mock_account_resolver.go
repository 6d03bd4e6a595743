package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fedauth/internal/domain"
	"fedauth/internal/service"
)

// MockAccountResolver is a mock implementation of service.AccountResolver.
type MockAccountResolver struct {
	mock.Mock
}

func (m *MockAccountResolver) Resolve(ctx context.Context, identity domain.ExternalIdentity) (*service.ResolvedAccount, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ResolvedAccount), args.Error(1)
}
