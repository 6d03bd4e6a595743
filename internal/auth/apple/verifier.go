package apple

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"

	"fedauth/internal/auth/idtoken"
	"fedauth/internal/config"
	"fedauth/internal/domain"
	"fedauth/internal/port"
)

// Apple sends the boolean claims as strings on some platforms.
type idTokenClaims struct {
	Email          string       `json:"email"`
	EmailVerified  idtoken.Bool `json:"email_verified"`
	IsPrivateEmail idtoken.Bool `json:"is_private_email"`
}

// Verifier validates Sign in with Apple identity tokens.
// Apple only discloses the email on the first authorization, so a
// token without one is valid.
type Verifier struct {
	idToken *idtoken.Verifier
}

// NewVerifier creates an Apple identity token verifier. cfg.ClientIDs holds
// the app bundle IDs and services IDs that may appear as audience.
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

func (v *Verifier) VerifyIDToken(ctx context.Context, rawToken string) (*port.SocialAuthClaims, error) {
	tok, err := v.idToken.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	var c idTokenClaims
	if err := tok.Claims(&c); err != nil {
		return nil, domain.NewTokenError("malformed token")
	}

	return &port.SocialAuthClaims{
		Subject:        tok.Subject,
		Email:          c.Email,
		EmailVerified:  bool(c.EmailVerified),
		IsPrivateEmail: bool(c.IsPrivateEmail),
	}, nil
}

func (v *Verifier) Provider() string {
	return string(domain.AuthProviderApple)
}

// Compile-time check.
var _ port.SocialTokenVerifier = (*Verifier)(nil)
