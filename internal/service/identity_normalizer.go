package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/rs/zerolog/log"

	"fedauth/internal/domain"
	"fedauth/internal/port"
)

// AppleFullName is the name object the Apple client SDK returns on first
// authorization. It is not signed.
type AppleFullName struct {
	GivenName  *string `json:"givenName"`
	FamilyName *string `json:"familyName"`
}

// AppleClientPayload carries the unsigned fields an Apple client sends next
// to the identity token.
type AppleClientPayload struct {
	Email    *string
	FullName *AppleFullName
}

// NormalizeGoogle maps verified Google claims to an ExternalIdentity.
func NormalizeGoogle(claims *port.SocialAuthClaims) domain.ExternalIdentity {
	given, family := SplitName(claims.FullName)
	if given == "" && family == "" {
		given, family = strings.TrimSpace(claims.GivenName), strings.TrimSpace(claims.FamilyName)
	}
	return domain.ExternalIdentity{
		Provider:      domain.AuthProviderGoogle,
		SubjectID:     claims.Subject,
		Email:         NormalizeEmail(claims.Email),
		EmailVerified: claims.EmailVerified,
		GivenName:     given,
		FamilyName:    family,
		Picture:       claims.Picture,
	}
}

// NormalizeApple maps verified Apple claims and the client payload to an
// ExternalIdentity. The email only ever comes from the signed claims.
func NormalizeApple(ctx context.Context, claims *port.SocialAuthClaims, payload AppleClientPayload) domain.ExternalIdentity {
	id := domain.ExternalIdentity{
		Provider:       domain.AuthProviderApple,
		SubjectID:      claims.Subject,
		Email:          NormalizeEmail(claims.Email),
		EmailVerified:  claims.EmailVerified,
		IsPrivateEmail: claims.IsPrivateEmail,
	}
	if id.Email == "" && payload.Email != nil && strings.TrimSpace(*payload.Email) != "" {
		log.Ctx(ctx).Debug().Str("sub", claims.Subject).Msg("ignoring client supplied apple email missing from token")
	}
	if payload.FullName != nil {
		id.GivenName = derefTrim(payload.FullName.GivenName)
		id.FamilyName = derefTrim(payload.FullName.FamilyName)
	}
	return id
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DeriveUsername returns the local part of email.
func DeriveUsername(email string) string {
	local, _, _ := strings.Cut(NormalizeEmail(email), "@")
	return local
}

// fallbackUsername is used when DeriveUsername collides with another user's
// username. It is stable for a given email.
func fallbackUsername(email string) string {
	sum := sha256.Sum256([]byte(NormalizeEmail(email)))
	return DeriveUsername(email) + "-" + hex.EncodeToString(sum[:])[:6]
}

// SplitName splits a display name into the first word and the rest.
func SplitName(full string) (given, family string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func derefTrim(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
