package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"fedauth/internal/domain"
	"fedauth/internal/port"
)

// ResolvedAccount is the local user an external identity maps to.
type ResolvedAccount struct {
	User      *domain.User
	IsNewUser bool
}

// AccountResolver finds, links or creates the local user for an identity.
// Concurrent calls for the same identity resolve to the same user.
type AccountResolver interface {
	Resolve(ctx context.Context, identity domain.ExternalIdentity) (*ResolvedAccount, error)
}

type accountResolver struct {
	userRepo     port.UserRepository
	identityRepo port.IdentityRepository
}

// NewAccountResolver creates a new AccountResolver.
func NewAccountResolver(userRepo port.UserRepository, identityRepo port.IdentityRepository) AccountResolver {
	return &accountResolver{
		userRepo:     userRepo,
		identityRepo: identityRepo,
	}
}

func (r *accountResolver) Resolve(ctx context.Context, identity domain.ExternalIdentity) (*ResolvedAccount, error) {
	// 1. Known subject: returning user
	link, err := r.identityRepo.GetByProviderSubject(ctx, identity.Provider, identity.SubjectID)
	if err == nil {
		user, userErr := r.userRepo.GetByID(ctx, link.UserID)
		if userErr != nil {
			return nil, fmt.Errorf("accountResolver.Resolve: loading linked user: %w", userErr)
		}
		if err := r.syncEmail(ctx, user, link, identity); err != nil {
			return nil, err
		}
		return &ResolvedAccount{User: user}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("accountResolver.Resolve: looking up identity: %w", err)
	}

	// 2. Unknown subject needs a verified email to go further
	if identity.Email == "" {
		return nil, &domain.IncompleteIdentityError{Reason: "no email disclosed and no linked account for this subject"}
	}
	if !identity.EmailVerified {
		return nil, &domain.IncompleteIdentityError{Reason: "email not verified by provider"}
	}

	// 3. Existing email user: link the subject
	user, err := r.userRepo.GetByEmail(ctx, identity.Email)
	if err == nil {
		if err := r.link(ctx, user, identity); err != nil {
			return nil, err
		}
		return &ResolvedAccount{User: user}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("accountResolver.Resolve: looking up email: %w", err)
	}

	// 4. New user
	user, created, err := r.create(ctx, identity)
	if err != nil {
		return nil, err
	}
	if err := r.link(ctx, user, identity); err != nil {
		return nil, err
	}
	return &ResolvedAccount{User: user, IsNewUser: created}, nil
}

// create inserts a user. A concurrent insert for the same email wins and
// its user is returned with created=false.
func (r *accountResolver) create(ctx context.Context, identity domain.ExternalIdentity) (*domain.User, bool, error) {
	user := &domain.User{
		Username:  DeriveUsername(identity.Email),
		Email:     identity.Email,
		FirstName: identity.GivenName,
		LastName:  identity.FamilyName,
		IsActive:  true,
	}

	err := r.userRepo.Create(ctx, user)
	if errors.Is(err, domain.ErrDuplicateUsername) {
		user.Username = fallbackUsername(identity.Email)
		err = r.userRepo.Create(ctx, user)
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, false, fmt.Errorf("%w: username %q taken", domain.ErrAccountConflict, user.Username)
		}
	}
	switch {
	case err == nil:
		return user, true, nil
	case errors.Is(err, domain.ErrDuplicateEmail):
		existing, getErr := r.userRepo.GetByEmail(ctx, identity.Email)
		if getErr == nil {
			return existing, false, nil
		}
		if errors.Is(getErr, domain.ErrNotFound) {
			return nil, false, fmt.Errorf("%w: email exists but could not be read back", domain.ErrAccountConflict)
		}
		return nil, false, fmt.Errorf("accountResolver.create: re-reading user: %w", getErr)
	default:
		return nil, false, fmt.Errorf("accountResolver.create: %w", err)
	}
}

// link records (provider, subject) for user. An existing link to the same
// user is fine.
func (r *accountResolver) link(ctx context.Context, user *domain.User, identity domain.ExternalIdentity) error {
	err := r.identityRepo.Link(ctx, &domain.IdentityLink{
		UserID:   user.ID,
		Provider: identity.Provider,
		Subject:  identity.SubjectID,
		Email:    identity.Email,
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrDuplicateIdentity) {
		return fmt.Errorf("accountResolver.link: %w", err)
	}

	existing, getErr := r.identityRepo.GetByProviderSubject(ctx, identity.Provider, identity.SubjectID)
	if getErr != nil {
		return fmt.Errorf("accountResolver.link: re-reading identity: %w", getErr)
	}
	if existing.UserID != user.ID {
		return fmt.Errorf("%w: subject already linked to another user", domain.ErrAccountConflict)
	}
	return nil
}

// syncEmail updates the stored email when this provider reports a new
// verified email for the subject. Emails seen through other linked providers
// do not count. A uniqueness conflict keeps the old email.
func (r *accountResolver) syncEmail(ctx context.Context, user *domain.User, link *domain.IdentityLink, identity domain.ExternalIdentity) error {
	if !identity.HasVerifiedEmail() || NormalizeEmail(link.Email) == identity.Email {
		return nil
	}

	logger := log.Ctx(ctx)
	if NormalizeEmail(user.Email) != identity.Email {
		err := r.userRepo.UpdateEmail(ctx, user.ID, identity.Email)
		switch {
		case err == nil:
			logger.Info().Int64("user_id", user.ID).Str("provider", string(identity.Provider)).Msg("user email updated from provider")
			user.Email = identity.Email
		case errors.Is(err, domain.ErrDuplicateEmail):
			logger.Warn().Int64("user_id", user.ID).Str("provider", string(identity.Provider)).Msg("provider email belongs to another user, keeping stored email")
			return nil
		default:
			return fmt.Errorf("accountResolver.syncEmail: %w", err)
		}
	}

	if err := r.identityRepo.UpdateEmail(ctx, link.ID, identity.Email); err != nil {
		logger.Warn().Err(err).Int64("link_id", link.ID).Msg("failed to update identity email")
	}
	return nil
}
