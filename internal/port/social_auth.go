package port

import "context"

// SocialAuthClaims holds the verified claims from a social identity provider.
type SocialAuthClaims struct {
	Subject        string // Provider-specific user ID ("sub" claim)
	Email          string // empty when the provider did not disclose it
	EmailVerified  bool
	FullName       string
	GivenName      string
	FamilyName     string
	Picture        string
	IsPrivateEmail bool
}

// SocialTokenVerifier validates an ID token from a social identity provider.
// Verification failures are returned as *domain.TokenError.
type SocialTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*SocialAuthClaims, error)
	Provider() string
}
