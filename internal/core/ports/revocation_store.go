package ports

import (
	"context"
	"time"
)

// RevocationStore keeps the ids (jti) of access tokens invalidated before
// their natural expiry. Entries expire on their own after ttl.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
