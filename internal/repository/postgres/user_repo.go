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

const userColumns = `id, username, email, first_name, last_name, is_active, last_login_at, created_at, updated_at`

type userRepo struct {
	db *sqlx.DB
}

// NewUserRepo creates a new PostgreSQL-backed UserRepository.
func NewUserRepo(db *sqlx.DB) port.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `INSERT INTO users (username, email, first_name, last_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		user.Username, user.Email, user.FirstName, user.LastName,
		user.IsActive, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if dup := mapUniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("userRepo.Create: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		"SELECT "+userColumns+" FROM users WHERE id = $1", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("userRepo.GetByID: %w", err)
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		"SELECT "+userColumns+" FROM users WHERE LOWER(email) = LOWER($1)", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("userRepo.GetByEmail: %w", err)
	}
	return &user, nil
}

func (r *userRepo) UpdateEmail(ctx context.Context, userID int64, email string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET email = $1, updated_at = NOW() WHERE id = $2", email, userID)
	if err != nil {
		if dup := mapUniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("userRepo.UpdateEmail: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET last_login_at = NOW() WHERE id = $1", userID)
	if err != nil {
		return fmt.Errorf("userRepo.UpdateLastLogin: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
