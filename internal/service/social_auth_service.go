package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"fedauth/internal/domain"
	"fedauth/internal/metrics"
	"fedauth/internal/port"
)

// GoogleAuthInput is the DTO for Google sign-in requests.
type GoogleAuthInput struct {
	Code string `json:"code"`
}

// AppleAuthInput is the DTO for Apple sign-in requests. Email and FullName
// are sent by the client on first authorization and are not signed. Only
// FullName is used: a token without an email claim and without a linked
// account yields domain.ErrIdentityIncomplete even when Email is set.
type AppleAuthInput struct {
	Code     string         `json:"code"`
	Email    *string        `json:"email"`
	FullName *AppleFullName `json:"fullName"`
}

// SocialLoginOutput contains the results of a social login.
type SocialLoginOutput struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserPayload `json:"user"`
	IsNewUser    bool        `json:"-"`
}

// SocialAuthService exchanges provider ID tokens for local sessions.
type SocialAuthService interface {
	GoogleAuth(ctx context.Context, input GoogleAuthInput) (*SocialLoginOutput, error)
	AppleAuth(ctx context.Context, input AppleAuthInput) (*SocialLoginOutput, error)
}

type socialAuthService struct {
	verifiers   map[domain.AuthProvider]port.SocialTokenVerifier
	resolver    AccountResolver
	userRepo    port.UserRepository
	authSvc     AuthService
	emailSender port.EmailSender
}

// NewSocialAuthService creates a new SocialAuthService. Providers without a
// verifier are rejected with domain.ErrUnsupportedProvider.
func NewSocialAuthService(
	verifiers map[domain.AuthProvider]port.SocialTokenVerifier,
	resolver AccountResolver,
	userRepo port.UserRepository,
	authSvc AuthService,
	emailSender port.EmailSender,
) SocialAuthService {
	return &socialAuthService{
		verifiers:   verifiers,
		resolver:    resolver,
		userRepo:    userRepo,
		authSvc:     authSvc,
		emailSender: emailSender,
	}
}

func (s *socialAuthService) GoogleAuth(ctx context.Context, input GoogleAuthInput) (*SocialLoginOutput, error) {
	return s.signIn(ctx, domain.AuthProviderGoogle, input.Code, func(claims *port.SocialAuthClaims) domain.ExternalIdentity {
		return NormalizeGoogle(claims)
	})
}

func (s *socialAuthService) AppleAuth(ctx context.Context, input AppleAuthInput) (*SocialLoginOutput, error) {
	payload := AppleClientPayload{Email: input.Email, FullName: input.FullName}
	return s.signIn(ctx, domain.AuthProviderApple, input.Code, func(claims *port.SocialAuthClaims) domain.ExternalIdentity {
		return NormalizeApple(ctx, claims, payload)
	})
}

func (s *socialAuthService) signIn(
	ctx context.Context,
	provider domain.AuthProvider,
	code string,
	normalize func(*port.SocialAuthClaims) domain.ExternalIdentity,
) (out *SocialLoginOutput, err error) {
	defer func() {
		metrics.RecordSignIn(string(provider), outcome(err))
	}()
	logger := log.Ctx(ctx).With().Str("provider", string(provider)).Logger()

	// 1. Token present
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrMissingToken
	}

	// 2. Verify with the provider's trust material
	verifier, ok := s.verifiers[provider]
	if !ok {
		return nil, domain.ErrUnsupportedProvider
	}
	claims, err := verifier.VerifyIDToken(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			logger.Info().Err(err).Msg("id token rejected")
			return nil, err
		}
		return nil, fmt.Errorf("socialAuth.signIn: verifying token: %w", err)
	}

	// 3. Normalize and resolve the local account
	identity := normalize(claims)
	resolved, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	user := resolved.User
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	// 4. Issue the session
	tokens, err := s.authSvc.GenerateTokenPairForUser(user)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSessionIssuanceFailed, err)
	}

	// 5. Best-effort bookkeeping
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to update last login")
	}
	if resolved.IsNewUser {
		metrics.RecordAccountCreated(string(provider))
		name := strings.TrimSpace(user.FirstName + " " + user.LastName)
		if err := s.emailSender.SendWelcomeEmail(ctx, user.Email, name); err != nil {
			logger.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to send welcome email")
		}
	}

	logger.Info().
		Int64("user_id", user.ID).
		Bool("new_user", resolved.IsNewUser).
		Msg("sign-in succeeded")

	return &SocialLoginOutput{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         NewUserPayload(user),
		IsNewUser:    resolved.IsNewUser,
	}, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrMissingToken), errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrIdentityIncomplete):
		return "identity_incomplete"
	case errors.Is(err, domain.ErrAccountConflict):
		return "account_conflict"
	case errors.Is(err, domain.ErrUserInactive):
		return "user_inactive"
	case errors.Is(err, domain.ErrSessionIssuanceFailed):
		return "session_failed"
	default:
		return "error"
	}
}
