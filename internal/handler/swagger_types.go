package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// GoogleAuthRequest represents the Google sign-in request body.
type GoogleAuthRequest struct {
	Code string `json:"code" example:"eyJhbGciOiJSUzI1NiIsImtpZCI6Ij..."`
}

// AppleName represents the name Apple sends on first authorization.
type AppleName struct {
	GivenName  *string `json:"givenName" example:"John"`
	FamilyName *string `json:"familyName" example:"Doe"`
}

// AppleAuthRequest represents the Apple sign-in request body.
type AppleAuthRequest struct {
	Code     string     `json:"code" example:"eyJraWQiOiJXNldjT0tCIiwiYWxnIjoiUlMyNTYifQ..."`
	Email    *string    `json:"email" example:"a@b.com"`
	FullName *AppleName `json:"fullName"`
}

// RefreshRequest represents the token refresh and logout request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}
