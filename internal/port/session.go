package port

import (
	"context"
	"time"
)

// TokenRevocationStore blacklists refresh token IDs until they would have expired anyway.
// Revoke is atomic and reports false when the ID was already revoked.
type TokenRevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
