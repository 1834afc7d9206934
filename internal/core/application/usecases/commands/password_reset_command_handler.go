package commands

import (
	"context"
	"errors"

	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"
)

// RequestPasswordResetCommandHandler e-mails a reset link. Unknown addresses
// are ignored without error so the endpoint does not reveal which e-mails
// are registered.
type RequestPasswordResetCommandHandler struct {
	uowFactory AccountUoWFactory
	tokens     ResetTokens
	mailer     AccountMailer
}

func NewRequestPasswordResetCommandHandler(
	uowFactory AccountUoWFactory,
	tokens ResetTokens,
	mailer AccountMailer,
) RequestPasswordResetCommandHandler {
	return RequestPasswordResetCommandHandler{uowFactory: uowFactory, tokens: tokens, mailer: mailer}
}

func (h *RequestPasswordResetCommandHandler) Handle(ctx context.Context, cmd RequestPasswordResetCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	record, err := findAccountByEmail(ctx, uow, cmd.Role(), cmd.Email())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token, err := h.tokens.IssueResetToken(record.acc.ID())
	if err != nil {
		return err
	}
	h.mailer.SendPasswordReset(ctx, cmd.Role(), *record.acc, token)
	return nil
}

// ResetPasswordCommandHandler replaces the password of the account named by a
// reset token. It reports false, without error, for an invalid or expired token.
type ResetPasswordCommandHandler struct {
	uowFactory AccountUoWFactory
	hasher     ports.PasswordHasher
	tokens     ResetTokens
}

func NewResetPasswordCommandHandler(
	uowFactory AccountUoWFactory,
	hasher ports.PasswordHasher,
	tokens ResetTokens,
) ResetPasswordCommandHandler {
	return ResetPasswordCommandHandler{uowFactory: uowFactory, hasher: hasher, tokens: tokens}
}

func (h *ResetPasswordCommandHandler) Handle(ctx context.Context, cmd ResetPasswordCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	id, ok := h.tokens.VerifyResetToken(cmd.Token())
	if !ok {
		return false, nil
	}

	hash, err := h.hasher.Hash(ctx, cmd.NewPassword())
	if err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	record, err := findAccount(ctx, uow, cmd.Role(), id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err = record.acc.SetPasswordHash(hash); err != nil {
		return false, err
	}
	if err = record.save(ctx); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}
