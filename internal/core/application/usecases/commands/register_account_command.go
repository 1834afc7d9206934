package commands

import (
	"errors"

	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var ErrRegisterAccountCommandIsNotConstructed = errors.New(
	"RegisterAccountCommand must be created via NewRegisterSellerCommand or NewRegisterPartnerCommand",
)

// RegisterAccountCommand signs up a seller or a delivery partner. The
// role-specific fields of the other role are left empty.
type RegisterAccountCommand struct { //nolint:recvcheck //using for validation
	role     account.Role
	name     string
	email    kernel.Email
	password string

	// seller
	address    string
	postalCode *kernel.PostalCode

	// partner
	serviceArea []kernel.PostalCode
	maxCapacity int

	guard guard.ConstructorGuard
}

// NewRegisterSellerCommand builds a seller signup. postalCode 0 means "none".
func NewRegisterSellerCommand(name, email, password, address string, postalCode int) (RegisterAccountCommand, error) {
	cmd, err := newRegisterAccountCommand(account.RoleSeller, name, email, password)

	var codeErr error
	if postalCode != 0 {
		var code kernel.PostalCode
		if code, codeErr = kernel.NewPostalCode(postalCode); codeErr == nil {
			cmd.postalCode = &code
		}
	}
	if err = errors.Join(err, codeErr); err != nil {
		return RegisterAccountCommand{}, err
	}

	cmd.address = address
	return cmd, nil
}

// NewRegisterPartnerCommand builds a delivery partner signup.
func NewRegisterPartnerCommand(name, email, password string, serviceArea []int, maxCapacity int) (RegisterAccountCommand, error) {
	cmd, err := newRegisterAccountCommand(account.RolePartner, name, email, password)

	area, areaErr := parsePostalCodes(serviceArea)
	var capErr error
	if maxCapacity < 0 {
		capErr = errs.NewValueIsOutOfRangeError("max handling capacity", maxCapacity, 0, "unbounded")
	}
	if err = errors.Join(err, areaErr, capErr); err != nil {
		return RegisterAccountCommand{}, err
	}

	cmd.serviceArea = area
	cmd.maxCapacity = maxCapacity
	return cmd, nil
}

func newRegisterAccountCommand(role account.Role, name, email, password string) (RegisterAccountCommand, error) {
	parsed, emailErr := kernel.NewEmail(email)

	var nameErr error
	switch n := len([]rune(name)); {
	case n == 0:
		nameErr = errs.NewValueIsRequiredError("name")
	case n > account.NameMaxLength:
		nameErr = errs.NewValueIsOutOfRangeError("name length", n, 1, account.NameMaxLength)
	}

	if err := errors.Join(emailErr, nameErr, validatePassword(password)); err != nil {
		return RegisterAccountCommand{}, err
	}

	return RegisterAccountCommand{
		role:     role,
		name:     name,
		email:    parsed,
		password: password,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func parsePostalCodes(values []int) ([]kernel.PostalCode, error) {
	if len(values) == 0 {
		return nil, errs.NewValueIsRequiredError("service area")
	}
	codes := make([]kernel.PostalCode, 0, len(values))
	for _, v := range values {
		code, err := kernel.NewPostalCode(v)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}

func (c RegisterAccountCommand) Validate() error {
	return c.guard.Validate(ErrRegisterAccountCommandIsNotConstructed)
}

func (c RegisterAccountCommand) Role() account.Role {
	return c.role
}

func (c RegisterAccountCommand) Name() string {
	return c.name
}

func (c RegisterAccountCommand) Email() kernel.Email {
	return c.email
}

func (c RegisterAccountCommand) Password() string {
	return c.password
}

func (c RegisterAccountCommand) Address() string {
	return c.address
}

func (c RegisterAccountCommand) PostalCode() *kernel.PostalCode {
	return c.postalCode
}

func (c RegisterAccountCommand) ServiceArea() []kernel.PostalCode {
	return c.serviceArea
}

func (c RegisterAccountCommand) MaxCapacity() int {
	return c.maxCapacity
}
