package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"fedauth/internal/config"
	"fedauth/internal/port"
)

const revokedPrefix = "revoked:jti:"

type revocationStore struct {
	client goredis.UniversalClient
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}

// NewRevocationStore creates a Redis-backed TokenRevocationStore.
func NewRevocationStore(client goredis.UniversalClient) port.TokenRevocationStore {
	return &revocationStore{client: client}
}

// Revoke marks tokenID as revoked for ttl. Only the first caller for a given
// ID gets true. A non-positive ttl means the token has already expired.
func (s *revocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return true, nil
	}
	set, err := s.client.SetNX(ctx, revokedPrefix+tokenID, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("revocationStore.Revoke: %w", err)
	}
	return set, nil
}

func (s *revocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := s.client.Get(ctx, revokedPrefix+tokenID).Err()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("revocationStore.IsRevoked: %w", err)
	}
	return true, nil
}

type noopStore struct{}

// NewNoopRevocationStore returns a store that never revokes anything. Used
// when Redis is not configured.
func NewNoopRevocationStore() port.TokenRevocationStore {
	return noopStore{}
}

func (noopStore) Revoke(context.Context, string, time.Duration) (bool, error) { return true, nil }

func (noopStore) IsRevoked(context.Context, string) (bool, error) { return false, nil }
