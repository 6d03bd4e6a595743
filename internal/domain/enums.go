package domain

// AuthProvider identifies the external identity provider that issued a token.
type AuthProvider string

const (
	AuthProviderGoogle AuthProvider = "google"
	AuthProviderApple  AuthProvider = "apple"
)

// ValidAuthProviders lists the providers this service accepts tokens from.
var ValidAuthProviders = map[AuthProvider]bool{
	AuthProviderGoogle: true,
	AuthProviderApple:  true,
}
