package commands

import (
	"context"
	"errors"
	"time"

	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/core/domain/model/seller"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"
)

// RegisterAccountCommandHandler creates an unverified account and e-mails the
// verification link. An e-mail address already registered for the same role
// fails with errs.ErrAlreadyExists.
type RegisterAccountCommandHandler struct {
	uowFactory AccountUoWFactory
	hasher     ports.PasswordHasher
	tokens     VerificationTokens
	mailer     AccountMailer
}

func NewRegisterAccountCommandHandler(
	uowFactory AccountUoWFactory,
	hasher ports.PasswordHasher,
	tokens VerificationTokens,
	mailer AccountMailer,
) RegisterAccountCommandHandler {
	return RegisterAccountCommandHandler{
		uowFactory: uowFactory,
		hasher:     hasher,
		tokens:     tokens,
		mailer:     mailer,
	}
}

// Handle returns the new account.
func (h *RegisterAccountCommandHandler) Handle(ctx context.Context, cmd RegisterAccountCommand) (account.Account, error) {
	if err := cmd.Validate(); err != nil {
		return account.Account{}, err
	}

	hash, err := h.hasher.Hash(ctx, cmd.Password())
	if err != nil {
		return account.Account{}, err
	}

	acc, err := account.New(kernel.NewUUID(), cmd.Name(), cmd.Email(), hash, time.Now())
	if err != nil {
		return account.Account{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return account.Account{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	_, err = findAccountByEmail(ctx, uow, cmd.Role(), cmd.Email())
	switch {
	case err == nil:
		return account.Account{}, errs.NewAlreadyExistsError(cmd.Role().String()+" email", cmd.Email())
	case !errors.Is(err, errs.ErrObjectNotFound):
		return account.Account{}, err
	}

	if err = h.add(ctx, uow, cmd, acc); err != nil {
		return account.Account{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return account.Account{}, err
	}

	token, err := h.tokens.IssueVerificationToken(acc.ID(), acc.Email())
	if err != nil {
		return account.Account{}, err
	}
	h.mailer.SendVerification(ctx, cmd.Role(), acc, token)

	return acc, nil
}

func (h *RegisterAccountCommandHandler) add(ctx context.Context, uow AccountUoW, cmd RegisterAccountCommand, acc account.Account) error {
	switch cmd.Role() {
	case account.RoleSeller:
		s, err := seller.NewSeller(acc, cmd.Address(), cmd.PostalCode())
		if err != nil {
			return err
		}
		return uow.SellerRepository().Add(ctx, s)
	case account.RolePartner:
		p, err := partner.NewPartner(acc, cmd.ServiceArea(), cmd.MaxCapacity())
		if err != nil {
			return err
		}
		return uow.PartnerRepository().Add(ctx, p)
	}
	return cmd.Role().Validate()
}
