package google

import (
	"context"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"fedauth/internal/auth/idtoken"
	"fedauth/internal/config"
	"fedauth/internal/domain"
	"fedauth/internal/port"
)

type idTokenClaims struct {
	Email         string       `json:"email"`
	EmailVerified idtoken.Bool `json:"email_verified"`
	Name          string       `json:"name"`
	GivenName     string       `json:"given_name"`
	FamilyName    string       `json:"family_name"`
	Picture       string       `json:"picture"`
}

// Verifier validates Google ID tokens against Google's published keys.
type Verifier struct {
	idToken *idtoken.Verifier
}

// NewVerifier creates a Google ID token verifier accepting any of cfg.ClientIDs.
func NewVerifier(cfg config.ProviderConfig, keys oidc.KeySet) (*Verifier, error) {
	v, err := idtoken.NewVerifier(idtoken.Config{
		Issuer:    cfg.Issuer,
		Audiences: cfg.ClientIDs,
		KeySet:    keys,
	})
	if err != nil {
		return nil, err
	}
	return &Verifier{idToken: v}, nil
}

// VerifyIDToken verifies the token and requires a verified email.
func (v *Verifier) VerifyIDToken(ctx context.Context, rawToken string) (*port.SocialAuthClaims, error) {
	tok, err := v.idToken.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	var c idTokenClaims
	if err := tok.Claims(&c); err != nil {
		return nil, domain.NewTokenError("malformed token")
	}
	if strings.TrimSpace(c.Email) == "" {
		return nil, domain.NewTokenError("email claim missing")
	}
	if !c.EmailVerified {
		return nil, domain.NewTokenError("email not verified")
	}

	return &port.SocialAuthClaims{
		Subject:       tok.Subject,
		Email:         c.Email,
		EmailVerified: true,
		FullName:      c.Name,
		GivenName:     c.GivenName,
		FamilyName:    c.FamilyName,
		Picture:       c.Picture,
	}, nil
}

func (v *Verifier) Provider() string {
	return string(domain.AuthProviderGoogle)
}

// Compile-time check.
var _ port.SocialTokenVerifier = (*Verifier)(nil)
