package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fedauth/internal/domain"
)

// MockIdentityRepo is a mock implementation of port.IdentityRepository.
type MockIdentityRepo struct {
	mock.Mock
}

func (m *MockIdentityRepo) GetByProviderSubject(ctx context.Context, provider domain.AuthProvider, subject string) (*domain.IdentityLink, error) {
	args := m.Called(ctx, provider, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdentityLink), args.Error(1)
}

func (m *MockIdentityRepo) Link(ctx context.Context, link *domain.IdentityLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockIdentityRepo) UpdateEmail(ctx context.Context, linkID int64, email string) error {
	args := m.Called(ctx, linkID, email)
	return args.Error(0)
}
