package commands

import (
	"errors"

	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var ErrLoginCommandIsNotConstructed = errors.New(
	"LoginCommand must be created via NewLoginCommand constructor",
)

type LoginCommand struct { //nolint:recvcheck //using for validation
	role     account.Role
	email    kernel.Email
	password string

	guard guard.ConstructorGuard
}

// NewLoginCommand reports a malformed e-mail as errs.ErrBadCredentials so that
// login failures all look alike.
func NewLoginCommand(role account.Role, email, password string) (LoginCommand, error) {
	if err := role.Validate(); err != nil {
		return LoginCommand{}, err
	}
	parsed, err := kernel.NewEmail(email)
	if err != nil || password == "" {
		return LoginCommand{}, errs.ErrBadCredentials
	}
	return LoginCommand{role: role, email: parsed, password: password, guard: guard.NewConstructorGuard()}, nil
}

func (c LoginCommand) Validate() error {
	return c.guard.Validate(ErrLoginCommandIsNotConstructed)
}

func (c LoginCommand) Role() account.Role {
	return c.role
}

func (c LoginCommand) Email() kernel.Email {
	return c.email
}

func (c LoginCommand) Password() string {
	return c.password
}
