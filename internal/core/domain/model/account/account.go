// Package account holds the credentials and identity shared by sellers and
// delivery partners.
package account

import (
	"errors"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

const (
	NameMaxLength = 50
)

var ErrAccountIsNotConstructed = errors.New("Account must be created via New or Restore")

// Role tells which kind of account a token subject is.
type Role string

const (
	RoleSeller  Role = "seller"
	RolePartner Role = "partner"
)

// ParseRole converts the wire name into a Role.
func ParseRole(name string) (Role, error) {
	role := Role(name)
	if err := role.Validate(); err != nil {
		return "", err
	}
	return role, nil
}

func (r Role) Validate() error {
	switch r {
	case RoleSeller, RolePartner:
		return nil
	}
	return errs.NewValueIsInvalidError("role " + string(r))
}

func (r Role) String() string {
	return string(r)
}

// Account is embedded by Seller and Partner.
type Account struct {
	id           kernel.UUID
	name         string
	email        kernel.Email
	passwordHash string
	verified     bool
	createdAt    time.Time

	guard guard.ConstructorGuard
}

// New creates an unverified account.
func New(id kernel.UUID, name string, email kernel.Email, passwordHash string, now time.Time) (Account, error) {
	return Restore(id, name, email, passwordHash, false, now.UTC().Truncate(time.Microsecond))
}

// Restore rebuilds a persisted account.
func Restore(
	id kernel.UUID,
	name string,
	email kernel.Email,
	passwordHash string,
	verified bool,
	createdAt time.Time,
) (Account, error) {
	a := Account{
		verified:  verified,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.Rename(name),
		a.setEmail(email),
		a.SetPasswordHash(passwordHash),
	); err != nil {
		return Account{}, err
	}

	return a, nil
}

func (a Account) Validate() error {
	return a.guard.Validate(ErrAccountIsNotConstructed)
}

func (a Account) ID() kernel.UUID {
	return a.id
}

func (a Account) Name() string {
	return a.name
}

func (a Account) Email() kernel.Email {
	return a.email
}

func (a Account) PasswordHash() string {
	return a.passwordHash
}

func (a Account) IsVerified() bool {
	return a.verified
}

func (a Account) CreatedAt() time.Time {
	return a.createdAt
}

// MarkVerified records that the owner proved control of the e-mail address.
func (a *Account) MarkVerified() {
	a.verified = true
}

func (a *Account) Rename(name string) error {
	switch n := len([]rune(name)); {
	case n == 0:
		return errs.NewValueIsRequiredError("name")
	case n > NameMaxLength:
		return errs.NewValueIsOutOfRangeError("name length", n, 1, NameMaxLength)
	}
	a.name = name
	return nil
}

func (a *Account) SetPasswordHash(hash string) error {
	if hash == "" {
		return errs.NewValueIsRequiredError("password hash")
	}
	a.passwordHash = hash
	return nil
}

func (a *Account) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Account) setEmail(email kernel.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	a.email = email
	return nil
}
