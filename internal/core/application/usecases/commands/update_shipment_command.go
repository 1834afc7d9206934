package commands

import (
	"errors"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var ErrUpdateShipmentCommandIsNotConstructed = errors.New(
	"UpdateShipmentCommand must be created via NewUpdateShipmentCommand constructor",
)

// ShipmentUpdate holds the optional fields of a partner's update.
// Zero values mean "not supplied".
type ShipmentUpdate struct {
	Status            string
	Location          int
	Description       string
	EstimatedDelivery time.Time
}

// UpdateShipmentCommand represents a delivery partner reporting progress.
type UpdateShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID        kernel.UUID
	partnerID         kernel.UUID
	draft             shipment.EventDraft
	estimatedDelivery time.Time

	guard guard.ConstructorGuard
}

// NewUpdateShipmentCommand fails when no field of update was supplied.
func NewUpdateShipmentCommand(shipmentID, partnerID kernel.UUID, update ShipmentUpdate) (UpdateShipmentCommand, error) {
	cmd := UpdateShipmentCommand{
		shipmentID:        shipmentID,
		partnerID:         partnerID,
		estimatedDelivery: update.EstimatedDelivery,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		shipmentID.Validate(),
		partnerID.Validate(),
		cmd.setDraft(update),
	); err != nil {
		return UpdateShipmentCommand{}, err
	}

	if cmd.draft.IsEmpty() && cmd.estimatedDelivery.IsZero() {
		return UpdateShipmentCommand{}, errs.NewValueIsRequiredErrorWithCause("shipment update",
			errors.New("no data provided to update"))
	}

	return cmd, nil
}

func (c UpdateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrUpdateShipmentCommandIsNotConstructed)
}

func (c UpdateShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c UpdateShipmentCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

// Draft is the event to append; empty when only the estimate changes.
func (c UpdateShipmentCommand) Draft() shipment.EventDraft {
	return c.draft
}

// EstimatedDelivery returns the new estimate, zero when not supplied.
func (c UpdateShipmentCommand) EstimatedDelivery() time.Time {
	return c.estimatedDelivery
}

func (c *UpdateShipmentCommand) setDraft(update ShipmentUpdate) error {
	if update.Status != "" {
		status, err := shipment.ParseStatus(update.Status)
		if err != nil {
			return err
		}
		c.draft.Status = status
	}

	if update.Location != 0 {
		location, err := kernel.NewPostalCode(update.Location)
		if err != nil {
			return err
		}
		c.draft.Location = location
	}

	if n := len([]rune(update.Description)); n > shipment.DescriptionMaxLength {
		return errs.NewValueIsOutOfRangeError("description length", n, 0, shipment.DescriptionMaxLength)
	}
	c.draft.Description = update.Description
	return nil
}
