// Package crypto hashes account passwords with Argon2id. Digests use the PHC
// string format, so the cost parameters travel with every stored hash and
// can be raised without invalidating old ones.
package crypto

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedDigest is returned by Verify for digests it cannot parse.
var ErrMalformedDigest = errors.New("malformed argon2id digest")

// Params are the Argon2id cost factors.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams suit a single-core container.
var DefaultParams = Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

type Argon2Hasher struct {
	params Params
}

// NewArgon2Hasher falls back to DefaultParams for a zero Params.
func NewArgon2Hasher(p Params) *Argon2Hasher {
	if p == (Params{}) {
		p = DefaultParams
	}
	return &Argon2Hasher{params: p}
}

// Hash salts plain with fresh random bytes. argon2 cannot be interrupted, so
// ctx is only checked before the work starts.
func (h *Argon2Hasher) Hash(ctx context.Context, plain string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("crypto/rand failed: %w", err)
	}

	key := argon2.IDKey([]byte(plain), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Iterations, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the key with the digest's own parameters and compares in constant time.
func (h *Argon2Hasher) Verify(ctx context.Context, plain, digest string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	p, salt, key, err := decodeDigest(digest)
	if err != nil {
		return false, err
	}

	other := argon2.IDKey([]byte(plain), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return subtle.ConstantTimeCompare(key, other) == 1, nil
}

func decodeDigest(digest string) (Params, []byte, []byte, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Params{}, nil, nil, ErrMalformedDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: %w", ErrMalformedDigest, err)
	}
	if version != argon2.Version {
		return Params{}, nil, nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedDigest, version)
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: %w", ErrMalformedDigest, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: %w", ErrMalformedDigest, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: %w", ErrMalformedDigest, err)
	}
	if len(key) == 0 {
		return Params{}, nil, nil, ErrMalformedDigest
	}
	p.SaltLength = uint32(len(salt)) //nolint:gosec // bounded by the digest length
	p.KeyLength = uint32(len(key))   //nolint:gosec // bounded by the digest length

	return p, salt, key, nil
}
