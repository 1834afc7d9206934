package commands

import (
	"errors"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var ErrUpdatePartnerCommandIsNotConstructed = errors.New(
	"UpdatePartnerCommand must be created via NewUpdatePartnerCommand constructor",
)

// PartnerUpdate holds the optional fields of a partner profile change.
// nil means "not supplied".
type PartnerUpdate struct {
	Name        *string
	ServiceArea []int
	MaxCapacity *int
}

type UpdatePartnerCommand struct { //nolint:recvcheck //using for validation
	partnerID   kernel.UUID
	name        *string
	serviceArea []kernel.PostalCode
	maxCapacity *int

	guard guard.ConstructorGuard
}

func NewUpdatePartnerCommand(partnerID kernel.UUID, update PartnerUpdate) (UpdatePartnerCommand, error) {
	if update.Name == nil && update.ServiceArea == nil && update.MaxCapacity == nil {
		return UpdatePartnerCommand{}, errs.NewValueIsRequiredErrorWithCause("partner update",
			errors.New("no data provided to update"))
	}

	var area []kernel.PostalCode
	var areaErr error
	if update.ServiceArea != nil {
		area, areaErr = parsePostalCodes(update.ServiceArea)
	}
	if err := errors.Join(partnerID.Validate(), areaErr); err != nil {
		return UpdatePartnerCommand{}, err
	}

	return UpdatePartnerCommand{
		partnerID:   partnerID,
		name:        update.Name,
		serviceArea: area,
		maxCapacity: update.MaxCapacity,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c UpdatePartnerCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePartnerCommandIsNotConstructed)
}

func (c UpdatePartnerCommand) PartnerID() kernel.UUID {
	return c.partnerID
}
