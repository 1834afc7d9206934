package commands

import (
	"context"
	"errors"

	"fastship/internal/core/application/auth"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"
)

// LoginCommandHandler exchanges credentials for an access token.
//
// Returns:
//   - errs.ErrBadCredentials for an unknown e-mail or a wrong password
//   - errs.ErrEmailNotVerified when the credentials match an unverified account
type LoginCommandHandler struct {
	uowFactory AccountUoWFactory
	hasher     ports.PasswordHasher
	tokens     AccessTokenIssuer
}

func NewLoginCommandHandler(uowFactory AccountUoWFactory, hasher ports.PasswordHasher, tokens AccessTokenIssuer) LoginCommandHandler {
	return LoginCommandHandler{uowFactory: uowFactory, hasher: hasher, tokens: tokens}
}

func (h *LoginCommandHandler) Handle(ctx context.Context, cmd LoginCommand) (auth.AccessToken, error) {
	if err := cmd.Validate(); err != nil {
		return auth.AccessToken{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return auth.AccessToken{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	record, err := findAccountByEmail(ctx, uow, cmd.Role(), cmd.Email())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return auth.AccessToken{}, errs.ErrBadCredentials
	}
	if err != nil {
		return auth.AccessToken{}, err
	}

	matches, err := h.hasher.Verify(ctx, cmd.Password(), record.acc.PasswordHash())
	if err != nil {
		return auth.AccessToken{}, err
	}
	if !matches {
		return auth.AccessToken{}, errs.ErrBadCredentials
	}
	if !record.acc.IsVerified() {
		return auth.AccessToken{}, errs.ErrEmailNotVerified
	}

	return h.tokens.IssueAccess(auth.Subject{
		ID:   record.acc.ID(),
		Name: record.acc.Name(),
		Role: cmd.Role(),
	})
}
