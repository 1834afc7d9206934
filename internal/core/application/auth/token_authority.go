// Package auth issues and verifies the bearer tokens that guard every mutating
// operation, plus the purpose-scoped action tokens used in e-mail links.
package auth

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const (
	DefaultAccessTTL = 24 * time.Hour
	DefaultResetTTL  = 2 * time.Hour
)

// Purpose scopes an action token. A token minted for one purpose never
// verifies for another.
type Purpose string

const (
	// PurposeGeneric is the unscoped namespace used when the caller names no purpose.
	PurposeGeneric           Purpose = ""
	PurposeEmailVerification Purpose = "email-verification"
	PurposePasswordReset     Purpose = "password-reset"
	PurposeReview            Purpose = "review"
)

// Subject is the account an access token speaks for.
type Subject struct {
	ID   kernel.UUID
	Name string
	Role account.Role
}

// AccessToken is a freshly issued bearer token.
type AccessToken struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// AccessClaims is what VerifyAccess extracts from a valid, unrevoked token.
type AccessClaims struct {
	Subject
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Config struct {
	Secret    []byte
	AccessTTL time.Duration
	ResetTTL  time.Duration
}

type Option func(*TokenAuthority)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *TokenAuthority) {
		a.now = now
	}
}

// TokenAuthority mints and checks HS256 JWTs.
//
// Access tokens carry a unique id (jti) and an absolute expiry and can be
// revoked before expiry through the RevocationStore. Action tokens carry a
// small payload, are signed with a key derived from the secret and the purpose,
// and are not revocable.
type TokenAuthority struct {
	secret    []byte
	accessTTL time.Duration
	resetTTL  time.Duration
	store     ports.RevocationStore
	now       func() time.Time
}

func NewTokenAuthority(cfg Config, store ports.RevocationStore, opts ...Option) (*TokenAuthority, error) {
	if len(cfg.Secret) == 0 {
		return nil, errs.NewValueIsRequiredError("token secret")
	}
	if store == nil {
		return nil, errs.NewValueIsRequiredError("revocation store")
	}

	a := &TokenAuthority{
		secret:    cfg.Secret,
		accessTTL: cfg.AccessTTL,
		resetTTL:  cfg.ResetTTL,
		store:     store,
		now:       time.Now,
	}
	if a.accessTTL <= 0 {
		a.accessTTL = DefaultAccessTTL
	}
	if a.resetTTL <= 0 {
		a.resetTTL = DefaultResetTTL
	}
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

type accessClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueAccess mints an access token for subject valid for the configured TTL.
func (a *TokenAuthority) IssueAccess(subject Subject) (AccessToken, error) {
	if err := errors.Join(subject.ID.Validate(), subject.Role.Validate()); err != nil {
		return AccessToken{}, err
	}

	now := a.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(a.accessTTL)
	jti := kernel.NewUUID().String()

	claims := accessClaims{
		Name: subject.Name,
		Role: subject.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.ID.String(),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return AccessToken{}, fmt.Errorf("sign access token: %w", err)
	}

	return AccessToken{Token: token, JTI: jti, ExpiresAt: expiresAt}, nil
}

// VerifyAccess checks signature, expiry and revocation.
//
// Returns:
//   - *errs.InvalidTokenError for malformed, tampered or expired tokens
//   - *errs.InvalidTokenError with Revoked set for revoked tokens
//   - the RevocationStore error unchanged when the store cannot be reached
func (a *TokenAuthority) VerifyAccess(ctx context.Context, token string) (AccessClaims, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(token, claims, a.keyFunc(a.secret),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AccessClaims{}, errs.NewInvalidTokenErrorWithCause("token has expired", err)
		}
		return AccessClaims{}, errs.NewInvalidTokenErrorWithCause("token could not be parsed", err)
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return AccessClaims{}, errs.NewInvalidTokenErrorWithCause("subject is invalid", err)
	}
	role, err := account.ParseRole(claims.Role)
	if err != nil {
		return AccessClaims{}, errs.NewInvalidTokenErrorWithCause("role is invalid", err)
	}
	if claims.ID == "" {
		return AccessClaims{}, errs.NewInvalidTokenError("token id is missing")
	}

	revoked, err := a.store.IsRevoked(ctx, claims.ID)
	if err != nil {
		return AccessClaims{}, err
	}
	if revoked {
		return AccessClaims{}, errs.NewRevokedTokenError()
	}

	return AccessClaims{
		Subject:   Subject{ID: id, Name: claims.Name, Role: role},
		JTI:       claims.ID,
		IssuedAt:  claims.IssuedAt.UTC(),
		ExpiresAt: claims.ExpiresAt.UTC(),
	}, nil
}

// Revoke invalidates jti until expiresAt. A token that has already expired
// needs no entry and nothing is written.
func (a *TokenAuthority) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return errs.NewValueIsRequiredError("jti")
	}

	ttl := expiresAt.Sub(a.now())
	if ttl <= 0 {
		return nil
	}
	return a.store.Revoke(ctx, jti, ttl)
}

type actionClaims struct {
	Purpose string            `json:"pur"`
	Data    map[string]string `json:"data"`
	jwt.RegisteredClaims
}

// IssueAction signs payload for purpose. ttl > 0 embeds an expiry; otherwise
// the token only ages and callers may bound it with maxAge on verify.
func (a *TokenAuthority) IssueAction(payload map[string]string, purpose Purpose, ttl time.Duration) (string, error) {
	key, err := a.actionKey(purpose)
	if err != nil {
		return "", err
	}

	now := a.now().UTC().Truncate(time.Second)
	claims := actionClaims{
		Purpose: string(purpose),
		Data:    payload,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", purpose, err)
	}
	return token, nil
}

// VerifyAction returns the payload of a token minted for purpose. Any failure
// (bad signature, other purpose, expired, older than maxAge when maxAge > 0)
// yields (nil, false).
func (a *TokenAuthority) VerifyAction(token string, purpose Purpose, maxAge time.Duration) (map[string]string, bool) {
	key, err := a.actionKey(purpose)
	if err != nil {
		return nil, false
	}

	claims := &actionClaims{}
	if _, err = jwt.ParseWithClaims(token, claims, a.keyFunc(key),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithIssuedAt(),
	); err != nil {
		return nil, false
	}

	if claims.Purpose != string(purpose) || claims.IssuedAt == nil {
		return nil, false
	}
	if maxAge > 0 && a.now().Sub(claims.IssuedAt.Time) > maxAge {
		return nil, false
	}
	if claims.Data == nil {
		claims.Data = map[string]string{}
	}
	return claims.Data, true
}

func (a *TokenAuthority) IssueVerificationToken(id kernel.UUID, email kernel.Email) (string, error) {
	return a.IssueAction(map[string]string{"id": id.String(), "email": email.String()}, PurposeEmailVerification, 0)
}

func (a *TokenAuthority) VerifyVerificationToken(token string) (kernel.UUID, bool) {
	return a.verifyID(token, PurposeEmailVerification, 0)
}

// IssueResetToken mints a password reset token. Its lifetime is enforced by VerifyResetToken.
func (a *TokenAuthority) IssueResetToken(id kernel.UUID) (string, error) {
	return a.IssueAction(map[string]string{"id": id.String()}, PurposePasswordReset, 0)
}

func (a *TokenAuthority) VerifyResetToken(token string) (kernel.UUID, bool) {
	return a.verifyID(token, PurposePasswordReset, a.resetTTL)
}

func (a *TokenAuthority) IssueReviewToken(shipmentID kernel.UUID) (string, error) {
	return a.IssueAction(map[string]string{"id": shipmentID.String()}, PurposeReview, 0)
}

func (a *TokenAuthority) VerifyReviewToken(token string) (kernel.UUID, bool) {
	return a.verifyID(token, PurposeReview, 0)
}

func (a *TokenAuthority) verifyID(token string, purpose Purpose, maxAge time.Duration) (kernel.UUID, bool) {
	data, ok := a.VerifyAction(token, purpose, maxAge)
	if !ok {
		return kernel.UUID{}, false
	}
	id, err := kernel.UUIDFromString(data["id"])
	if err != nil {
		return kernel.UUID{}, false
	}
	return id, true
}

func (a *TokenAuthority) keyFunc(key []byte) jwt.Keyfunc {
	return func(*jwt.Token) (any, error) {
		return key, nil
	}
}

func (a *TokenAuthority) actionKey(purpose Purpose) ([]byte, error) {
	switch purpose {
	case PurposeGeneric, PurposeEmailVerification, PurposePasswordReset, PurposeReview:
	default:
		return nil, errs.NewValueIsInvalidError("token purpose " + string(purpose))
	}

	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, a.secret, nil, []byte("fastship:"+string(purpose))), key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", purpose, err)
	}
	return key, nil
}
