package ports

import (
	"context"
)

type PasswordHasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	// Verify reports whether plain matches digest. A malformed digest is an error.
	Verify(ctx context.Context, plain, digest string) (bool, error)
}
