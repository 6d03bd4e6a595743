package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"fedauth/internal/config"
)

// NewDB creates a new PostgreSQL connection pool, retrying with exponential
// backoff until cfg.ConnectTimeout elapses.
func NewDB(ctx context.Context, cfg *config.DBConfig) (*sqlx.DB, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	maxElapsed := cfg.ConnectTimeout
	if maxElapsed <= 0 {
		maxElapsed = 30 * time.Second
	}

	db, err := backoff.Retry(ctx, func() (*sqlx.DB, error) {
		return sqlx.ConnectContext(ctx, "pgx", cfg.DSN())
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxElapsedTime(maxElapsed),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn().Err(err).Dur("retry_in", next).Msg("postgres not ready")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	return db, nil
}
