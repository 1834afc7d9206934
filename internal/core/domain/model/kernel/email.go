package kernel

import (
	"net/mail"
	"strings"

	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

const emailMaxLength = 254

var ErrEmailIsNotConstructed = errs.NewValueIsRequiredError("email must be created via NewEmail")

// Email is a normalised (trimmed, lower-cased) mailbox address.
type Email struct { //nolint:recvcheck //using for validation
	address string
	guard   guard.ConstructorGuard
}

func NewEmail(raw string) (Email, error) {
	address := strings.ToLower(strings.TrimSpace(raw))
	if address == "" {
		return Email{}, errs.NewValueIsRequiredError("email")
	}
	if len(address) > emailMaxLength {
		return Email{}, errs.NewValueIsOutOfRangeError("email length", len(address), 3, emailMaxLength)
	}

	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address {
		return Email{}, errs.NewValueIsInvalidErrorWithCause("email", err)
	}

	return Email{address: address, guard: guard.NewConstructorGuard()}, nil
}

func (e Email) Validate() error {
	return e.guard.Validate(ErrEmailIsNotConstructed)
}

func (e Email) String() string {
	return e.address
}
