package commands

import (
	"context"

	"fastship/internal/pkg/errs"
)

// VerifyEmailCommandHandler marks the account named by a verification token as verified.
type VerifyEmailCommandHandler struct {
	uowFactory AccountUoWFactory
	tokens     VerificationTokens
}

func NewVerifyEmailCommandHandler(uowFactory AccountUoWFactory, tokens VerificationTokens) VerifyEmailCommandHandler {
	return VerifyEmailCommandHandler{uowFactory: uowFactory, tokens: tokens}
}

func (h *VerifyEmailCommandHandler) Handle(ctx context.Context, cmd VerifyEmailCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	id, ok := h.tokens.VerifyVerificationToken(cmd.Token())
	if !ok {
		return errs.NewInvalidTokenError("verification token is invalid")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	record, err := findAccount(ctx, uow, cmd.Role(), id)
	if err != nil {
		return err
	}

	record.acc.MarkVerified()
	if err = record.save(ctx); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
