package partner

import (
	"errors"
	"fmt"
	"slices"

	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
)

var (
	// ErrPartnerIsNotConstructed is returned when a Partner was not built by NewPartner or RestorePartner.
	ErrPartnerIsNotConstructed = errors.New("Partner must be created via NewPartner or RestorePartner")

	// ErrNoSpareCapacity is returned by Reserve when every slot is taken.
	ErrNoSpareCapacity = errors.New("partner has no spare capacity")

	// ErrNothingToRelease is returned by Release when no slot is reserved.
	ErrNothingToRelease = errors.New("partner has no reserved capacity")
)

// Partner is a delivery partner: an account that serves a set of postal codes
// and carries at most MaxCapacity active shipments at a time.
//
// ActiveShipments is the persisted reservation counter. It is incremented when
// a shipment is bound to the partner and decremented when that shipment
// reaches a terminal status or is deleted, so it always equals the number of
// bound shipments whose current status is neither delivered nor cancelled.
//
// Invariants:
//   - 0 <= ActiveShipments <= MaxCapacity
//   - the service area holds at least one postal code, without duplicates
type Partner struct {
	account.Account

	serviceArea     []kernel.PostalCode
	maxCapacity     int
	activeShipments int

	isConstructed bool
}

// NewPartner registers a partner with no active shipments.
//
// Parameters:
//   - acc: the partner's account (unverified at registration)
//   - serviceArea: postal codes the partner delivers to
//   - maxCapacity: maximum number of simultaneously active shipments (>= 0)
//
// Example:
//
//	acc, _ := account.New(kernel.NewUUID(), "Rapid Couriers", email, hash, now)
//	p, err := partner.NewPartner(acc, []kernel.PostalCode{kernel.MustPostalCode(11001)}, 5)
func NewPartner(acc account.Account, serviceArea []kernel.PostalCode, maxCapacity int) (*Partner, error) {
	return RestorePartner(acc, serviceArea, maxCapacity, 0)
}

// RestorePartner rebuilds a persisted partner including its reservation counter.
func RestorePartner(
	acc account.Account,
	serviceArea []kernel.PostalCode,
	maxCapacity int,
	activeShipments int,
) (*Partner, error) {
	p := &Partner{isConstructed: true}

	if err := errors.Join(
		acc.Validate(),
		p.UpdateServiceArea(serviceArea),
		p.setCapacity(maxCapacity, activeShipments),
	); err != nil {
		return nil, err
	}

	p.Account = acc
	return p, nil
}

// Validate ensures the partner was built by one of its constructors.
func (p *Partner) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPartnerIsNotConstructed
	}
	return nil
}

// ServiceArea returns a copy of the serviceable postal codes.
func (p *Partner) ServiceArea() []kernel.PostalCode {
	return slices.Clone(p.serviceArea)
}

// MaxCapacity returns the declared maximum of active shipments.
func (p *Partner) MaxCapacity() int {
	return p.maxCapacity
}

// ActiveShipments returns the current reservation count.
func (p *Partner) ActiveShipments() int {
	return p.activeShipments
}

// SpareCapacity is MaxCapacity minus ActiveShipments.
func (p *Partner) SpareCapacity() int {
	return p.maxCapacity - p.activeShipments
}

// Serves reports whether code is part of the service area.
func (p *Partner) Serves(code kernel.PostalCode) bool {
	return slices.ContainsFunc(p.serviceArea, code.IsEqual)
}

// CanServe reports whether the partner serves code and has a free slot.
func (p *Partner) CanServe(code kernel.PostalCode) bool {
	return p.Serves(code) && p.SpareCapacity() > 0
}

// Reserve takes one capacity slot for a newly bound shipment.
func (p *Partner) Reserve() error {
	if p.SpareCapacity() <= 0 {
		return ErrNoSpareCapacity
	}
	p.activeShipments++
	return nil
}

// Release frees the slot of a shipment that became terminal or was deleted.
func (p *Partner) Release() error {
	if p.activeShipments <= 0 {
		return ErrNothingToRelease
	}
	p.activeShipments--
	return nil
}

// UpdateServiceArea replaces the set of serviceable postal codes. Duplicates are collapsed.
func (p *Partner) UpdateServiceArea(codes []kernel.PostalCode) error {
	if len(codes) == 0 {
		return errs.NewValueIsRequiredError("service area")
	}

	area := make([]kernel.PostalCode, 0, len(codes))
	for _, code := range codes {
		if err := code.Validate(); err != nil {
			return err
		}
		if !slices.ContainsFunc(area, code.IsEqual) {
			area = append(area, code)
		}
	}

	p.serviceArea = area
	return nil
}

// UpdateCapacity changes the declared maximum. It may not drop below the
// number of shipments the partner is already carrying.
func (p *Partner) UpdateCapacity(maxCapacity int) error {
	return p.setCapacity(maxCapacity, p.activeShipments)
}

func (p *Partner) setCapacity(maxCapacity, activeShipments int) error {
	if activeShipments < 0 {
		return errs.NewValueIsInvalidErrorWithCause("active shipments",
			fmt.Errorf("%d is negative", activeShipments))
	}
	if maxCapacity < activeShipments {
		return errs.NewValueIsOutOfRangeError("max handling capacity", maxCapacity, activeShipments, "unbounded")
	}

	p.maxCapacity = maxCapacity
	p.activeShipments = activeShipments
	return nil
}

// RegisteredBefore orders partners for first-fit assignment: oldest account first, id as tie-break.
func RegisteredBefore(a, b *Partner) int {
	if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
		return c
	}
	return compareIDs(a.ID(), b.ID())
}

func compareIDs(a, b kernel.UUID) int {
	ab, bb := a.Bytes(), b.Bytes()
	return slices.Compare(ab[:], bb[:])
}
