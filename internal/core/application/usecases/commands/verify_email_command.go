package commands

import (
	"errors"

	"fastship/internal/core/domain/model/account"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var ErrVerifyEmailCommandIsNotConstructed = errors.New(
	"VerifyEmailCommand must be created via NewVerifyEmailCommand constructor",
)

type VerifyEmailCommand struct { //nolint:recvcheck //using for validation
	role  account.Role
	token string

	guard guard.ConstructorGuard
}

func NewVerifyEmailCommand(role account.Role, token string) (VerifyEmailCommand, error) {
	var tokenErr error
	if token == "" {
		tokenErr = errs.NewValueIsRequiredError("verification token")
	}
	if err := errors.Join(role.Validate(), tokenErr); err != nil {
		return VerifyEmailCommand{}, err
	}
	return VerifyEmailCommand{role: role, token: token, guard: guard.NewConstructorGuard()}, nil
}

func (c VerifyEmailCommand) Validate() error {
	return c.guard.Validate(ErrVerifyEmailCommandIsNotConstructed)
}

func (c VerifyEmailCommand) Role() account.Role {
	return c.role
}

func (c VerifyEmailCommand) Token() string {
	return c.token
}
