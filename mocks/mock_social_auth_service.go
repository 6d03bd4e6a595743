package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fedauth/internal/service"
)

// MockSocialAuthService is a mock implementation of service.SocialAuthService.
type MockSocialAuthService struct {
	mock.Mock
}

func (m *MockSocialAuthService) GoogleAuth(ctx context.Context, input service.GoogleAuthInput) (*service.SocialLoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SocialLoginOutput), args.Error(1)
}

func (m *MockSocialAuthService) AppleAuth(ctx context.Context, input service.AppleAuthInput) (*service.SocialLoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SocialLoginOutput), args.Error(1)
}
