package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocation is the signed-out token list backed by Redis.
// Key format: revoked:<token_id>, expiring with the token.
type Revocation struct {
	client *redis.Client
}

func NewRevocation(client *redis.Client) *Revocation {
	return &Revocation{client: client}
}

// Revoke marks tokenID as signed out for ttl.
func (r *Revocation) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *Revocation) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (r *Revocation) key(tokenID string) string {
	return fmt.Sprintf("revoked:%s", tokenID)
}
