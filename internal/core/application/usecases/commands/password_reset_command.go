package commands

import (
	"errors"

	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var (
	ErrRequestPasswordResetCommandIsNotConstructed = errors.New(
		"RequestPasswordResetCommand must be created via NewRequestPasswordResetCommand constructor",
	)
	ErrResetPasswordCommandIsNotConstructed = errors.New(
		"ResetPasswordCommand must be created via NewResetPasswordCommand constructor",
	)
)

type RequestPasswordResetCommand struct { //nolint:recvcheck //using for validation
	role  account.Role
	email kernel.Email

	guard guard.ConstructorGuard
}

func NewRequestPasswordResetCommand(role account.Role, email string) (RequestPasswordResetCommand, error) {
	parsed, emailErr := kernel.NewEmail(email)
	if err := errors.Join(role.Validate(), emailErr); err != nil {
		return RequestPasswordResetCommand{}, err
	}
	return RequestPasswordResetCommand{role: role, email: parsed, guard: guard.NewConstructorGuard()}, nil
}

func (c RequestPasswordResetCommand) Validate() error {
	return c.guard.Validate(ErrRequestPasswordResetCommandIsNotConstructed)
}

func (c RequestPasswordResetCommand) Role() account.Role {
	return c.role
}

func (c RequestPasswordResetCommand) Email() kernel.Email {
	return c.email
}

type ResetPasswordCommand struct { //nolint:recvcheck //using for validation
	role        account.Role
	token       string
	newPassword string

	guard guard.ConstructorGuard
}

func NewResetPasswordCommand(role account.Role, token, newPassword string) (ResetPasswordCommand, error) {
	var tokenErr error
	if token == "" {
		tokenErr = errs.NewValueIsRequiredError("reset token")
	}
	if err := errors.Join(role.Validate(), tokenErr, validatePassword(newPassword)); err != nil {
		return ResetPasswordCommand{}, err
	}
	return ResetPasswordCommand{role: role, token: token, newPassword: newPassword, guard: guard.NewConstructorGuard()}, nil
}

func (c ResetPasswordCommand) Validate() error {
	return c.guard.Validate(ErrResetPasswordCommandIsNotConstructed)
}

func (c ResetPasswordCommand) Role() account.Role {
	return c.role
}

func (c ResetPasswordCommand) Token() string {
	return c.token
}

func (c ResetPasswordCommand) NewPassword() string {
	return c.newPassword
}
