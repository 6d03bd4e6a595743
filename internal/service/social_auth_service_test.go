package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fedauth/internal/domain"
	"fedauth/internal/port"
	"fedauth/internal/service"
	"fedauth/mocks"
)

type socialAuthDeps struct {
	google   *mocks.MockSocialTokenVerifier
	apple    *mocks.MockSocialTokenVerifier
	resolver *mocks.MockAccountResolver
	userRepo *mocks.MockUserRepo
	authSvc  *mocks.MockAuthService
	email    *mocks.MockEmailSender
}

func setupSocialAuth() (*socialAuthDeps, service.SocialAuthService) {
	d := &socialAuthDeps{
		google:   new(mocks.MockSocialTokenVerifier),
		apple:    new(mocks.MockSocialTokenVerifier),
		resolver: new(mocks.MockAccountResolver),
		userRepo: new(mocks.MockUserRepo),
		authSvc:  new(mocks.MockAuthService),
		email:    new(mocks.MockEmailSender),
	}
	verifiers := map[domain.AuthProvider]port.SocialTokenVerifier{
		domain.AuthProviderGoogle: d.google,
		domain.AuthProviderApple:  d.apple,
	}
	svc := service.NewSocialAuthService(verifiers, d.resolver, d.userRepo, d.authSvc, d.email)
	return d, svc
}

func testTokens() *service.TokenPair {
	return &service.TokenPair{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(15 * time.Minute),
	}
}

func TestGoogleAuth_NewUser(t *testing.T) {
	d, svc := setupSocialAuth()
	user := &domain.User{ID: 10, Username: "newuser", Email: "newuser@gmail.com", FirstName: "New", LastName: "User", IsActive: true}

	d.google.On("VerifyIDToken", mock.Anything, "valid-google-token").Return(&port.SocialAuthClaims{
		Subject:       "google-uid-123",
		Email:         "NewUser@gmail.com",
		EmailVerified: true,
		FullName:      "New User",
	}, nil)
	d.resolver.On("Resolve", mock.Anything, mock.MatchedBy(func(id domain.ExternalIdentity) bool {
		return id.Provider == domain.AuthProviderGoogle && id.Email == "newuser@gmail.com" &&
			id.GivenName == "New" && id.FamilyName == "User"
	})).Return(&service.ResolvedAccount{User: user, IsNewUser: true}, nil)
	d.authSvc.On("GenerateTokenPairForUser", user).Return(testTokens(), nil)
	d.userRepo.On("UpdateLastLogin", mock.Anything, int64(10)).Return(nil)
	d.email.On("SendWelcomeEmail", mock.Anything, "newuser@gmail.com", "New User").Return(nil)

	got, err := svc.GoogleAuth(context.Background(), service.GoogleAuthInput{Code: "valid-google-token"})

	require.NoError(t, err)
	assert.True(t, got.IsNewUser)
	assert.Equal(t, "access-token", got.AccessToken)
	assert.Equal(t, "refresh-token", got.RefreshToken)
	assert.Equal(t, int64(10), got.User.ID)
	assert.Equal(t, "newuser", got.User.Username)
	d.email.AssertExpectations(t)
	d.userRepo.AssertExpectations(t)
}

func TestGoogleAuth_ReturningUserNoWelcomeEmail(t *testing.T) {
	d, svc := setupSocialAuth()
	user := &domain.User{ID: 10, Email: "jane@gmail.com", IsActive: true}

	d.google.On("VerifyIDToken", mock.Anything, "tok").Return(&port.SocialAuthClaims{Subject: "g", Email: "jane@gmail.com", EmailVerified: true}, nil)
	d.resolver.On("Resolve", mock.Anything, mock.Anything).Return(&service.ResolvedAccount{User: user}, nil)
	d.authSvc.On("GenerateTokenPairForUser", user).Return(testTokens(), nil)
	d.userRepo.On("UpdateLastLogin", mock.Anything, int64(10)).Return(nil)

	got, err := svc.GoogleAuth(context.Background(), service.GoogleAuthInput{Code: "tok"})

	require.NoError(t, err)
	assert.False(t, got.IsNewUser)
	d.email.AssertNotCalled(t, "SendWelcomeEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestGoogleAuth_MissingToken(t *testing.T) {
	d, svc := setupSocialAuth()

	_, err := svc.GoogleAuth(context.Background(), service.GoogleAuthInput{Code: "  "})

	assert.ErrorIs(t, err, domain.ErrMissingToken)
	d.google.AssertNotCalled(t, "VerifyIDToken", mock.Anything, mock.Anything)
}

func TestGoogleAuth_InvalidToken(t *testing.T) {
	d, svc := setupSocialAuth()
	d.google.On("VerifyIDToken", mock.Anything, "bad").Return(nil, domain.NewTokenError("email not verified"))

	got, err := svc.GoogleAuth(context.Background(), service.GoogleAuthInput{Code: "bad"})

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	d.resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestGoogleAuth_InactiveUser(t *testing.T) {
	d, svc := setupSocialAuth()
	user := &domain.User{ID: 10, IsActive: false}
	d.google.On("VerifyIDToken", mock.Anything, "tok").Return(&port.SocialAuthClaims{Subject: "g", Email: "a@b.com", EmailVerified: true}, nil)
	d.resolver.On("Resolve", mock.Anything, mock.Anything).Return(&service.ResolvedAccount{User: user}, nil)

	_, err := svc.GoogleAuth(context.Background(), service.GoogleAuthInput{Code: "tok"})

	assert.ErrorIs(t, err, domain.ErrUserInactive)
	d.authSvc.AssertNotCalled(t, "GenerateTokenPairForUser", mock.Anything)
}

func TestGoogleAuth_SessionIssuanceFailed(t *testing.T) {
	d, svc := setupSocialAuth()
	user := &domain.User{ID: 10, IsActive: true}
	d.google.On("VerifyIDToken", mock.Anything, "tok").Return(&port.SocialAuthClaims{Subject: "g", Email: "a@b.com", EmailVerified: true}, nil)
	d.resolver.On("Resolve", mock.Anything, mock.Anything).Return(&service.ResolvedAccount{User: user, IsNewUser: true}, nil)
	d.authSvc.On("GenerateTokenPairForUser", user).Return(nil, errors.New("signer unavailable"))

	got, err := svc.GoogleAuth(context.Background(), service.GoogleAuthInput{Code: "tok"})

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrSessionIssuanceFailed)
	d.email.AssertNotCalled(t, "SendWelcomeEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestGoogleAuth_BookkeepingFailuresIgnored(t *testing.T) {
	d, svc := setupSocialAuth()
	user := &domain.User{ID: 10, Email: "a@b.com", IsActive: true}
	d.google.On("VerifyIDToken", mock.Anything, "tok").Return(&port.SocialAuthClaims{Subject: "g", Email: "a@b.com", EmailVerified: true}, nil)
	d.resolver.On("Resolve", mock.Anything, mock.Anything).Return(&service.ResolvedAccount{User: user, IsNewUser: true}, nil)
	d.authSvc.On("GenerateTokenPairForUser", user).Return(testTokens(), nil)
	d.userRepo.On("UpdateLastLogin", mock.Anything, int64(10)).Return(errors.New("db timeout"))
	d.email.On("SendWelcomeEmail", mock.Anything, "a@b.com", "").Return(errors.New("ses throttled"))

	got, err := svc.GoogleAuth(context.Background(), service.GoogleAuthInput{Code: "tok"})

	require.NoError(t, err)
	assert.Equal(t, "access-token", got.AccessToken)
}

func TestAppleAuth_FirstLogin(t *testing.T) {
	d, svc := setupSocialAuth()
	user := &domain.User{ID: 20, Username: "a", Email: "a@b.com", FirstName: "John", LastName: "Doe", IsActive: true}
	given, family, email := "John", "Doe", "a@b.com"

	d.apple.On("VerifyIDToken", mock.Anything, "apple-token").Return(&port.SocialAuthClaims{
		Subject:       "apple-1",
		Email:         "a@b.com",
		EmailVerified: true,
	}, nil)
	d.resolver.On("Resolve", mock.Anything, domain.ExternalIdentity{
		Provider:      domain.AuthProviderApple,
		SubjectID:     "apple-1",
		Email:         "a@b.com",
		EmailVerified: true,
		GivenName:     "John",
		FamilyName:    "Doe",
	}).Return(&service.ResolvedAccount{User: user, IsNewUser: true}, nil)
	d.authSvc.On("GenerateTokenPairForUser", user).Return(testTokens(), nil)
	d.userRepo.On("UpdateLastLogin", mock.Anything, int64(20)).Return(nil)
	d.email.On("SendWelcomeEmail", mock.Anything, "a@b.com", "John Doe").Return(nil)

	got, err := svc.AppleAuth(context.Background(), service.AppleAuthInput{
		Code:     "apple-token",
		Email:    &email,
		FullName: &service.AppleFullName{GivenName: &given, FamilyName: &family},
	})

	require.NoError(t, err)
	assert.True(t, got.IsNewUser)
	assert.Equal(t, service.UserPayload{ID: 20, Username: "a", Email: "a@b.com", FirstName: "John", LastName: "Doe"}, got.User)
}

func TestAppleAuth_SubsequentLoginIncomplete(t *testing.T) {
	d, svc := setupSocialAuth()
	d.apple.On("VerifyIDToken", mock.Anything, "apple-token").Return(&port.SocialAuthClaims{Subject: "apple-1"}, nil)
	d.resolver.On("Resolve", mock.Anything, mock.MatchedBy(func(id domain.ExternalIdentity) bool {
		return id.Email == ""
	})).Return(nil, &domain.IncompleteIdentityError{Reason: "no email"})

	got, err := svc.AppleAuth(context.Background(), service.AppleAuthInput{Code: "apple-token"})

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrIdentityIncomplete)
}

func TestAppleAuth_ClientEmailDoesNotReplaceMissingClaim(t *testing.T) {
	store := newMemStore()
	apple := new(mocks.MockSocialTokenVerifier)
	apple.On("VerifyIDToken", mock.Anything, "apple-token").Return(&port.SocialAuthClaims{Subject: "apple-9"}, nil)
	svc := service.NewSocialAuthService(
		map[domain.AuthProvider]port.SocialTokenVerifier{domain.AuthProviderApple: apple},
		service.NewAccountResolver(store, memIdentities{store}),
		store,
		new(mocks.MockAuthService),
		new(mocks.MockEmailSender),
	)
	email := "a@b.com"

	got, err := svc.AppleAuth(context.Background(), service.AppleAuthInput{Code: "apple-token", Email: &email})

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrIdentityIncomplete)
	assert.Equal(t, 0, store.creates)
}

func TestAppleAuth_UnsupportedWhenNotConfigured(t *testing.T) {
	svc := service.NewSocialAuthService(
		map[domain.AuthProvider]port.SocialTokenVerifier{},
		new(mocks.MockAccountResolver),
		new(mocks.MockUserRepo),
		new(mocks.MockAuthService),
		new(mocks.MockEmailSender),
	)

	_, err := svc.AppleAuth(context.Background(), service.AppleAuthInput{Code: "tok"})

	assert.ErrorIs(t, err, domain.ErrUnsupportedProvider)
}
