package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"fedauth/internal/config"
	"fedauth/internal/domain"
	"fedauth/internal/port"
)

const (
	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

// Claims represents the JWT claims of a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenPair holds access and refresh tokens.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"-"`
}

// RefreshInput is the DTO for token refresh and logout requests.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthService issues and validates session tokens.
type AuthService interface {
	GenerateTokenPairForUser(user *domain.User) (*TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	ValidateToken(tokenString string) (*Claims, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo    port.UserRepository
	revocations port.TokenRevocationStore
	cfg         config.JWTConfig
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(
	userRepo port.UserRepository,
	revocations port.TokenRevocationStore,
	cfg config.JWTConfig,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		revocations: revocations,
		cfg:         cfg,
	}
}

func (s *authService) GenerateTokenPairForUser(user *domain.User) (*TokenPair, error) {
	return s.generateTokenPair(user)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.validateTokenString(refreshToken, audienceRefresh)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("auth.RefreshToken: checking revocation: %w", err)
	}
	if revoked {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	if !s.cfg.RotateRefreshTokens {
		access, expiresAt, err := s.signToken(user, audienceAccess, s.cfg.AccessTokenExpiry)
		if err != nil {
			return nil, err
		}
		return &TokenPair{AccessToken: access, RefreshToken: refreshToken, ExpiresAt: expiresAt}, nil
	}

	// Only the refresh that revokes the old token gets a new pair.
	first, err := s.revoke(ctx, claims)
	if err != nil {
		return nil, fmt.Errorf("auth.RefreshToken: %w", err)
	}
	if !first {
		return nil, domain.ErrUnauthorized
	}
	return s.generateTokenPair(user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.validateTokenString(refreshToken, audienceRefresh)
	if err != nil {
		return domain.ErrUnauthorized
	}
	if _, err := s.revoke(ctx, claims); err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}
	return nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	return s.validateTokenString(tokenString, audienceAccess)
}

// revoke blacklists the token ID until the token would have expired. It
// reports whether this call was the one that revoked it.
func (s *authService) revoke(ctx context.Context, claims *Claims) (bool, error) {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return true, nil
	}
	return s.revocations.Revoke(ctx, claims.ID, ttl)
}

func (s *authService) generateTokenPair(user *domain.User) (*TokenPair, error) {
	access, accessExpiry, err := s.signToken(user, audienceAccess, s.cfg.AccessTokenExpiry)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.signToken(user, audienceRefresh, s.cfg.RefreshTokenExpiry)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExpiry,
	}, nil
}

func (s *authService) signToken(user *domain.User, audience string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiry := now.Add(ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{audience},
		},
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing %s token: %w", audience, err)
	}
	return signed, expiry, nil
}

func (s *authService) validateTokenString(tokenString, audience string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithAudience(audience),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid || claims.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
