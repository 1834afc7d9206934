package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fastship/internal/core/application/auth"
	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type revokeCall struct {
	jti string
	ttl time.Duration
}

type fakeRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	calls   []revokeCall
	err     error
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{revoked: map[string]time.Duration{}}
}

func (s *fakeRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, revokeCall{jti: jti, ttl: ttl})
	s.revoked[jti] = ttl
	return s.err
}

func (s *fakeRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.revoked[jti]
	return ok, nil
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newAuthority(t *testing.T, store *fakeRevocationStore) (*auth.TokenAuthority, *clock) {
	t.Helper()

	clk := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	authority, err := auth.NewTokenAuthority(auth.Config{Secret: []byte("test-secret")}, store, auth.WithClock(clk.Now))
	require.NoError(t, err)
	return authority, clk
}

func sellerSubject() auth.Subject {
	return auth.Subject{ID: kernel.NewUUID(), Name: "Acme", Role: account.RoleSeller}
}

func TestNewTokenAuthority(t *testing.T) {
	t.Run("should require a secret", func(t *testing.T) {
		_, err := auth.NewTokenAuthority(auth.Config{}, newFakeRevocationStore())

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should require a revocation store", func(t *testing.T) {
		_, err := auth.NewTokenAuthority(auth.Config{Secret: []byte("s")}, nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestTokenAuthority_AccessRoundTrip(t *testing.T) {
	authority, clk := newAuthority(t, newFakeRevocationStore())
	subject := sellerSubject()

	issued, err := authority.IssueAccess(subject)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.JTI)
	assert.Equal(t, clk.Now().Add(auth.DefaultAccessTTL), issued.ExpiresAt)

	claims, err := authority.VerifyAccess(t.Context(), issued.Token)

	require.NoError(t, err)
	assert.True(t, claims.ID.IsEqual(subject.ID))
	assert.Equal(t, "Acme", claims.Name)
	assert.Equal(t, account.RoleSeller, claims.Role)
	assert.Equal(t, issued.JTI, claims.JTI)
	assert.Equal(t, issued.ExpiresAt, claims.ExpiresAt)
}

func TestTokenAuthority_IssueAccessUsesFreshJTI(t *testing.T) {
	authority, _ := newAuthority(t, newFakeRevocationStore())
	subject := sellerSubject()

	first, err := authority.IssueAccess(subject)
	require.NoError(t, err)
	second, err := authority.IssueAccess(subject)
	require.NoError(t, err)

	assert.NotEqual(t, first.JTI, second.JTI)
}

func TestTokenAuthority_VerifyAccessFailures(t *testing.T) {
	t.Run("should reject an expired token", func(t *testing.T) {
		authority, clk := newAuthority(t, newFakeRevocationStore())
		issued, err := authority.IssueAccess(sellerSubject())
		require.NoError(t, err)

		clk.Advance(auth.DefaultAccessTTL + time.Second)
		_, err = authority.VerifyAccess(t.Context(), issued.Token)

		var tokenErr *errs.InvalidTokenError
		require.ErrorAs(t, err, &tokenErr)
		assert.False(t, tokenErr.Revoked)
	})

	t.Run("should reject a tampered token", func(t *testing.T) {
		authority, _ := newAuthority(t, newFakeRevocationStore())
		issued, err := authority.IssueAccess(sellerSubject())
		require.NoError(t, err)

		_, err = authority.VerifyAccess(t.Context(), issued.Token+"x")

		require.ErrorIs(t, err, errs.ErrInvalidToken)
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		other, err := auth.NewTokenAuthority(auth.Config{Secret: []byte("other")}, newFakeRevocationStore())
		require.NoError(t, err)
		issued, err := other.IssueAccess(sellerSubject())
		require.NoError(t, err)

		authority, _ := newAuthority(t, newFakeRevocationStore())
		_, err = authority.VerifyAccess(t.Context(), issued.Token)

		require.ErrorIs(t, err, errs.ErrInvalidToken)
	})

	t.Run("should reject garbage", func(t *testing.T) {
		authority, _ := newAuthority(t, newFakeRevocationStore())

		_, err := authority.VerifyAccess(t.Context(), "not.a.token")

		require.ErrorIs(t, err, errs.ErrInvalidToken)
	})

	t.Run("should propagate store failures", func(t *testing.T) {
		store := newFakeRevocationStore()
		authority, _ := newAuthority(t, store)
		issued, err := authority.IssueAccess(sellerSubject())
		require.NoError(t, err)

		store.err = errors.New("redis down")
		_, err = authority.VerifyAccess(t.Context(), issued.Token)

		require.EqualError(t, err, "redis down")
	})
}

func TestTokenAuthority_Revoke(t *testing.T) {
	t.Run("should reject a revoked token on every later verify", func(t *testing.T) {
		store := newFakeRevocationStore()
		authority, clk := newAuthority(t, store)
		issued, err := authority.IssueAccess(sellerSubject())
		require.NoError(t, err)

		clk.Advance(time.Hour)
		require.NoError(t, authority.Revoke(t.Context(), issued.JTI, issued.ExpiresAt))

		for range 2 {
			_, err = authority.VerifyAccess(t.Context(), issued.Token)

			var tokenErr *errs.InvalidTokenError
			require.ErrorAs(t, err, &tokenErr)
			assert.True(t, tokenErr.Revoked)
		}
		require.Len(t, store.calls, 1)
		assert.Equal(t, auth.DefaultAccessTTL-time.Hour, store.calls[0].ttl)
	})

	t.Run("should not write when the token already expired", func(t *testing.T) {
		store := newFakeRevocationStore()
		authority, clk := newAuthority(t, store)

		require.NoError(t, authority.Revoke(t.Context(), "jti", clk.Now()))
		require.NoError(t, authority.Revoke(t.Context(), "jti", clk.Now().Add(-time.Minute)))

		assert.Empty(t, store.calls)
	})

	t.Run("should leave other tokens valid", func(t *testing.T) {
		authority, _ := newAuthority(t, newFakeRevocationStore())
		subject := sellerSubject()
		revoked, err := authority.IssueAccess(subject)
		require.NoError(t, err)
		kept, err := authority.IssueAccess(subject)
		require.NoError(t, err)

		require.NoError(t, authority.Revoke(t.Context(), revoked.JTI, revoked.ExpiresAt))

		_, err = authority.VerifyAccess(t.Context(), kept.Token)
		assert.NoError(t, err)
	})
}

func TestTokenAuthority_ActionTokens(t *testing.T) {
	t.Run("should round trip the payload", func(t *testing.T) {
		authority, _ := newAuthority(t, newFakeRevocationStore())
		payload := map[string]string{"id": "42", "email": "a@b.io"}

		token, err := authority.IssueAction(payload, auth.PurposeEmailVerification, 0)
		require.NoError(t, err)
		got, ok := authority.VerifyAction(token, auth.PurposeEmailVerification, 0)

		require.True(t, ok)
		assert.Equal(t, payload, got)
	})

	t.Run("should not verify for another purpose", func(t *testing.T) {
		authority, _ := newAuthority(t, newFakeRevocationStore())

		token, err := authority.IssueAction(map[string]string{"id": "42"}, auth.PurposeReview, 0)
		require.NoError(t, err)
		got, ok := authority.VerifyAction(token, auth.PurposePasswordReset, 0)

		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("should fail after the embedded expiry", func(t *testing.T) {
		authority, clk := newAuthority(t, newFakeRevocationStore())

		token, err := authority.IssueAction(map[string]string{"id": "42"}, auth.PurposeReview, time.Minute)
		require.NoError(t, err)
		clk.Advance(2 * time.Minute)

		_, ok := authority.VerifyAction(token, auth.PurposeReview, 0)
		assert.False(t, ok)
	})

	t.Run("should fail when older than max age", func(t *testing.T) {
		authority, clk := newAuthority(t, newFakeRevocationStore())

		token, err := authority.IssueAction(map[string]string{"id": "42"}, auth.PurposePasswordReset, 0)
		require.NoError(t, err)

		clk.Advance(time.Hour)
		_, ok := authority.VerifyAction(token, auth.PurposePasswordReset, 2*time.Hour)
		assert.True(t, ok)

		clk.Advance(90 * time.Minute)
		_, ok = authority.VerifyAction(token, auth.PurposePasswordReset, 2*time.Hour)
		assert.False(t, ok)
	})

	t.Run("should keep scoped and unscoped tokens apart", func(t *testing.T) {
		authority, _ := newAuthority(t, newFakeRevocationStore())
		payload := map[string]string{"id": "42"}

		reset, err := authority.IssueAction(payload, auth.PurposePasswordReset, 0)
		require.NoError(t, err)
		generic, err := authority.IssueAction(payload, auth.PurposeGeneric, 0)
		require.NoError(t, err)

		_, ok := authority.VerifyAction(reset, auth.PurposeGeneric, 0)
		assert.False(t, ok, "a reset token is not a generic token")
		_, ok = authority.VerifyAction(generic, auth.PurposePasswordReset, 0)
		assert.False(t, ok, "a generic token is not a reset token")

		got, ok := authority.VerifyAction(generic, auth.PurposeGeneric, 0)
		require.True(t, ok)
		assert.Equal(t, payload, got)
	})

	t.Run("should reject an unknown purpose", func(t *testing.T) {
		authority, _ := newAuthority(t, newFakeRevocationStore())

		_, err := authority.IssueAction(nil, auth.Purpose("payout"), 0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestTokenAuthority_TypedHelpers(t *testing.T) {
	authority, clk := newAuthority(t, newFakeRevocationStore())
	id := kernel.NewUUID()
	email, err := kernel.NewEmail("shop@example.com")
	require.NoError(t, err)

	verification, err := authority.IssueVerificationToken(id, email)
	require.NoError(t, err)
	review, err := authority.IssueReviewToken(id)
	require.NoError(t, err)
	reset, err := authority.IssueResetToken(id)
	require.NoError(t, err)

	got, ok := authority.VerifyVerificationToken(verification)
	require.True(t, ok)
	assert.True(t, got.IsEqual(id))

	_, ok = authority.VerifyReviewToken(verification)
	assert.False(t, ok, "verification token must not pass as a review token")

	got, ok = authority.VerifyReviewToken(review)
	require.True(t, ok)
	assert.True(t, got.IsEqual(id))

	got, ok = authority.VerifyResetToken(reset)
	require.True(t, ok)
	assert.True(t, got.IsEqual(id))

	clk.Advance(auth.DefaultResetTTL + time.Second)
	_, ok = authority.VerifyResetToken(reset)
	assert.False(t, ok, "reset tokens expire after two hours")

	_, ok = authority.VerifyReviewToken(review)
	assert.True(t, ok, "review tokens do not expire")
}
