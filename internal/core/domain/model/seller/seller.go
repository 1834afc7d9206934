// Package seller contains the Seller aggregate: the account that creates and
// cancels shipments.
package seller

import (
	"errors"

	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
)

const AddressMaxLength = 200

var ErrSellerIsNotConstructed = errors.New("Seller must be created via NewSeller or RestoreSeller")

type Seller struct {
	account.Account

	address    string
	postalCode *kernel.PostalCode

	isConstructed bool
}

// NewSeller registers a seller. address and postalCode are optional.
func NewSeller(acc account.Account, address string, postalCode *kernel.PostalCode) (*Seller, error) {
	s := &Seller{isConstructed: true}

	if err := errors.Join(
		acc.Validate(),
		s.UpdateAddress(address, postalCode),
	); err != nil {
		return nil, err
	}

	s.Account = acc
	return s, nil
}

// RestoreSeller rebuilds a persisted seller.
func RestoreSeller(acc account.Account, address string, postalCode *kernel.PostalCode) (*Seller, error) {
	return NewSeller(acc, address, postalCode)
}

func (s *Seller) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSellerIsNotConstructed
	}
	return nil
}

func (s *Seller) Address() string {
	return s.address
}

// PostalCode returns the seller's default postal code, nil when unset.
func (s *Seller) PostalCode() *kernel.PostalCode {
	return s.postalCode
}

// ShippingOrigin returns where a new shipment's Placed event is recorded:
// the seller's postal code, or fallback when the seller has none.
func (s *Seller) ShippingOrigin(fallback kernel.PostalCode) kernel.PostalCode {
	if s.postalCode != nil {
		return *s.postalCode
	}
	return fallback
}

func (s *Seller) UpdateAddress(address string, postalCode *kernel.PostalCode) error {
	if n := len([]rune(address)); n > AddressMaxLength {
		return errs.NewValueIsOutOfRangeError("address length", n, 0, AddressMaxLength)
	}
	if postalCode != nil {
		if err := postalCode.Validate(); err != nil {
			return err
		}
	}

	s.address = address
	s.postalCode = postalCode
	return nil
}
