package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrUserInactive          = errors.New("user is inactive")
	ErrMissingToken          = errors.New("token is required")
	ErrInvalidToken          = errors.New("invalid token")
	ErrUnsupportedProvider   = errors.New("unsupported identity provider")
	ErrIdentityIncomplete    = errors.New("identity provider did not disclose enough information to resolve an account")
	ErrAccountConflict       = errors.New("account conflict")
	ErrSessionIssuanceFailed = errors.New("session issuance failed")
	ErrDuplicateEmail        = errors.New("email already exists")
	ErrDuplicateUsername     = errors.New("username already exists")
	ErrDuplicateIdentity     = errors.New("identity already linked")
)

// TokenError is returned when an identity token fails verification.
// Reason is safe to show to clients.
type TokenError struct {
	Reason string
}

// NewTokenError builds a TokenError with a formatted reason.
func NewTokenError(format string, args ...any) *TokenError {
	return &TokenError{Reason: fmt.Sprintf(format, args...)}
}

func (e *TokenError) Error() string {
	return "invalid token: " + e.Reason
}

func (e *TokenError) Unwrap() error {
	return ErrInvalidToken
}

// IncompleteIdentityError explains why an identity could not be resolved.
type IncompleteIdentityError struct {
	Reason string
}

func (e *IncompleteIdentityError) Error() string {
	return "identity incomplete: " + e.Reason
}

func (e *IncompleteIdentityError) Unwrap() error {
	return ErrIdentityIncomplete
}
