package port

import (
	"context"

	"fedauth/internal/domain"
)

// UserRepository defines the contract for user persistence.
// Create must surface domain.ErrDuplicateEmail and domain.ErrDuplicateUsername
// distinctly so callers can resolve races.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateEmail(ctx context.Context, userID int64, email string) error
	UpdateLastLogin(ctx context.Context, userID int64) error
}

// IdentityRepository stores provider subject links for users.
type IdentityRepository interface {
	GetByProviderSubject(ctx context.Context, provider domain.AuthProvider, subject string) (*domain.IdentityLink, error)
	Link(ctx context.Context, link *domain.IdentityLink) error
	UpdateEmail(ctx context.Context, linkID int64, email string) error
}
