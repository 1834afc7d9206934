package services

import (
	"slices"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/pkg/errs"
)

// PartnerAssigner picks the delivery partner for a new shipment.
//
// Selection is first-fit: partners are ranked by registration time (id as
// tie-break) and the first one that serves the destination and still has a
// free slot wins. The in-memory check is only a pre-filter; the caller must
// confirm the pick with an atomic reservation (ports.PartnerRepository.TryReserve)
// and ask again without that partner when it loses a race.
//
// Example usage:
//
//	assigner := services.NewPartnerAssigner()
//	p, err := assigner.Assign(destination, partners)
//	if errors.Is(err, errs.ErrCapacityExceeded) {
//	    // nobody serves the code or everybody is full
//	}
//	ok, err := partnerRepo.TryReserve(ctx, p.ID())
//	...
type PartnerAssigner struct{}

func NewPartnerAssigner() PartnerAssigner {
	return PartnerAssigner{}
}

// Assign returns the first-fit partner for code.
//
// Returns:
//   - *partner.Partner: the selected partner (not yet reserved)
//   - error: *errs.CapacityExceededError when no partner serves code with spare capacity,
//     or a validation error for an unconstructed partner
func (a PartnerAssigner) Assign(code kernel.PostalCode, partners []*partner.Partner) (*partner.Partner, error) {
	candidates, err := a.Candidates(code, partners)
	if err != nil {
		return nil, err
	}
	return candidates[0], nil
}

// Candidates returns every partner able to take a shipment to code, in
// first-fit order. The input slice is not modified.
func (a PartnerAssigner) Candidates(code kernel.PostalCode, partners []*partner.Partner) ([]*partner.Partner, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}

	eligible := make([]*partner.Partner, 0, len(partners))
	for _, p := range partners {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if p.CanServe(code) {
			eligible = append(eligible, p)
		}
	}

	if len(eligible) == 0 {
		return nil, errs.NewCapacityExceededError(code)
	}

	slices.SortStableFunc(eligible, partner.RegisteredBefore)
	return eligible, nil
}
