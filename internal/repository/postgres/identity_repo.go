package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"fedauth/internal/domain"
	"fedauth/internal/port"
)

type identityRepo struct {
	db *sqlx.DB
}

// NewIdentityRepo creates a new PostgreSQL-backed IdentityRepository.
func NewIdentityRepo(db *sqlx.DB) port.IdentityRepository {
	return &identityRepo{db: db}
}

func (r *identityRepo) GetByProviderSubject(ctx context.Context, provider domain.AuthProvider, subject string) (*domain.IdentityLink, error) {
	var link domain.IdentityLink
	err := r.db.GetContext(ctx, &link,
		`SELECT id, user_id, provider, subject, email, created_at, updated_at
		 FROM user_identities WHERE provider = $1 AND subject = $2`,
		provider, subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("identityRepo.GetByProviderSubject: %w", err)
	}
	return &link, nil
}

func (r *identityRepo) Link(ctx context.Context, link *domain.IdentityLink) error {
	now := time.Now().UTC()
	link.CreatedAt = now
	link.UpdatedAt = now

	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO user_identities (user_id, provider, subject, email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		link.UserID, link.Provider, link.Subject, link.Email, link.CreatedAt, link.UpdatedAt,
	).Scan(&link.ID)
	if err != nil {
		if dup := mapUniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("identityRepo.Link: %w", err)
	}
	return nil
}

func (r *identityRepo) UpdateEmail(ctx context.Context, linkID int64, email string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE user_identities SET email = $1, updated_at = NOW() WHERE id = $2", email, linkID)
	if err != nil {
		return fmt.Errorf("identityRepo.UpdateEmail: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
