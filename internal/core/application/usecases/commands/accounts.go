package commands

import (
	"context"

	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
)

const (
	PasswordMinLength = 8
	PasswordMaxLength = 128
)

// accountRecord is a seller or partner account loaded for update.
type accountRecord struct {
	acc  *account.Account
	save func(ctx context.Context) error
}

func findAccountByEmail(ctx context.Context, uow AccountUoW, role account.Role, email kernel.Email) (accountRecord, error) {
	switch role {
	case account.RoleSeller:
		s, err := uow.SellerRepository().GetByEmail(ctx, email)
		if err != nil {
			return accountRecord{}, err
		}
		return accountRecord{acc: &s.Account, save: func(ctx context.Context) error {
			return uow.SellerRepository().Update(ctx, s)
		}}, nil
	case account.RolePartner:
		p, err := uow.PartnerRepository().GetByEmail(ctx, email)
		if err != nil {
			return accountRecord{}, err
		}
		return accountRecord{acc: &p.Account, save: func(ctx context.Context) error {
			return uow.PartnerRepository().Update(ctx, p)
		}}, nil
	}
	return accountRecord{}, role.Validate()
}

func findAccount(ctx context.Context, uow AccountUoW, role account.Role, id kernel.UUID) (accountRecord, error) {
	switch role {
	case account.RoleSeller:
		s, err := uow.SellerRepository().Get(ctx, id)
		if err != nil {
			return accountRecord{}, err
		}
		return accountRecord{acc: &s.Account, save: func(ctx context.Context) error {
			return uow.SellerRepository().Update(ctx, s)
		}}, nil
	case account.RolePartner:
		p, err := uow.PartnerRepository().Get(ctx, id)
		if err != nil {
			return accountRecord{}, err
		}
		return accountRecord{acc: &p.Account, save: func(ctx context.Context) error {
			return uow.PartnerRepository().Update(ctx, p)
		}}, nil
	}
	return accountRecord{}, role.Validate()
}

func validatePassword(password string) error {
	if n := len([]rune(password)); n < PasswordMinLength || n > PasswordMaxLength {
		return errs.NewValueIsOutOfRangeError("password length", n, PasswordMinLength, PasswordMaxLength)
	}
	return nil
}
