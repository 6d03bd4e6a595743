package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"fedauth/internal/domain"
)

const uniqueViolation = "23505"

// Constraint names from db/migrations.
const (
	constraintUsersEmail      = "users_email_key"
	constraintUsersUsername   = "users_username_key"
	constraintIdentitySubject = "user_identities_provider_subject_key"
)

// mapUniqueViolation translates a unique violation into the domain error for
// its constraint. Other errors are returned as nil.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case constraintUsersEmail:
		return domain.ErrDuplicateEmail
	case constraintUsersUsername:
		return domain.ErrDuplicateUsername
	case constraintIdentitySubject:
		return domain.ErrDuplicateIdentity
	default:
		return nil
	}
}
