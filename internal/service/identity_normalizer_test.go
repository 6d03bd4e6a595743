package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"fedauth/internal/domain"
	"fedauth/internal/port"
	"fedauth/internal/service"
)

func strPtr(s string) *string { return &s }

func TestDeriveUsername(t *testing.T) {
	assert.Equal(t, "jane.doe", service.DeriveUsername("jane.doe@example.com"))
	assert.Equal(t, "jane.doe", service.DeriveUsername("  Jane.Doe@Example.com "))
	assert.Equal(t, service.DeriveUsername("a@b.com"), service.DeriveUsername("a@b.com"))
	assert.Equal(t, "a", service.DeriveUsername("a@b.com"))
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, given, family string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Mary  Ann   van Smith", "Mary", "Ann van Smith"},
		{"Cher", "Cher", ""},
		{"   ", "", ""},
	}
	for _, tt := range tests {
		given, family := service.SplitName(tt.in)
		assert.Equal(t, tt.given, given, tt.in)
		assert.Equal(t, tt.family, family, tt.in)
	}
}

func TestNormalizeGoogle(t *testing.T) {
	id := service.NormalizeGoogle(&port.SocialAuthClaims{
		Subject:       "g-1",
		Email:         " Jane.Doe@Gmail.com",
		EmailVerified: true,
		FullName:      "Jane Doe",
		Picture:       "https://example.com/p.png",
	})

	assert.Equal(t, domain.AuthProviderGoogle, id.Provider)
	assert.Equal(t, "g-1", id.SubjectID)
	assert.Equal(t, "jane.doe@gmail.com", id.Email)
	assert.True(t, id.EmailVerified)
	assert.Equal(t, "Jane", id.GivenName)
	assert.Equal(t, "Doe", id.FamilyName)
	assert.Equal(t, "https://example.com/p.png", id.Picture)
}

func TestNormalizeGoogle_FallsBackToNameParts(t *testing.T) {
	id := service.NormalizeGoogle(&port.SocialAuthClaims{
		Subject:    "g-1",
		Email:      "a@b.com",
		GivenName:  "Ada",
		FamilyName: "Lovelace",
	})

	assert.Equal(t, "Ada", id.GivenName)
	assert.Equal(t, "Lovelace", id.FamilyName)
}

func TestNormalizeApple_FirstLogin(t *testing.T) {
	id := service.NormalizeApple(context.Background(), &port.SocialAuthClaims{
		Subject:       "apple-1",
		Email:         "a@b.com",
		EmailVerified: true,
	}, service.AppleClientPayload{
		Email:    strPtr("a@b.com"),
		FullName: &service.AppleFullName{GivenName: strPtr("John"), FamilyName: strPtr("Doe")},
	})

	assert.Equal(t, domain.AuthProviderApple, id.Provider)
	assert.Equal(t, "a@b.com", id.Email)
	assert.True(t, id.EmailVerified)
	assert.Equal(t, "John", id.GivenName)
	assert.Equal(t, "Doe", id.FamilyName)
}

func TestNormalizeApple_ClientEmailIgnored(t *testing.T) {
	id := service.NormalizeApple(context.Background(), &port.SocialAuthClaims{
		Subject: "apple-1",
	}, service.AppleClientPayload{
		Email: strPtr("attacker@example.com"),
	})

	assert.Empty(t, id.Email)
	assert.False(t, id.HasVerifiedEmail())
}

func TestNormalizeApple_NullNameParts(t *testing.T) {
	id := service.NormalizeApple(context.Background(), &port.SocialAuthClaims{Subject: "apple-1"}, service.AppleClientPayload{
		FullName: &service.AppleFullName{GivenName: nil, FamilyName: strPtr("Doe")},
	})

	assert.Empty(t, id.GivenName)
	assert.Equal(t, "Doe", id.FamilyName)
}
