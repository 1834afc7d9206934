// Package redis keeps the access-token revocation set in Redis. Each revoked
// jti is a key that expires together with the token it blocks.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked_jti:"

type RevocationStore struct {
	client *goredis.Client
}

// NewRevocationStore connects to redisURL (redis://[:password@]host[:port][/database]).
func NewRevocationStore(redisURL string) (*RevocationStore, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return &RevocationStore{client: goredis.NewClient(opts)}, nil
}

// Revoke blocks jti for ttl. The write is acknowledged before it returns.
func (s *RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, keyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token %s: %w", jti, err)
	}
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.client.Get(ctx, keyPrefix+jti).Err()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token %s: %w", jti, err)
	}
	return true, nil
}

// Ping checks if Redis is reachable.
func (s *RevocationStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *RevocationStore) Close() error {
	return s.client.Close()
}
