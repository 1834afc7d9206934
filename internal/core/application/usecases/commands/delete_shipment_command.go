package commands

import (
	"errors"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/guard"
)

var ErrDeleteShipmentCommandIsNotConstructed = errors.New(
	"DeleteShipmentCommand must be created via NewDeleteShipmentCommand constructor",
)

// DeleteShipmentCommand removes a shipment with its timeline, tags and review.
type DeleteShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	sellerID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeleteShipmentCommand(shipmentID, sellerID kernel.UUID) (DeleteShipmentCommand, error) {
	if err := errors.Join(shipmentID.Validate(), sellerID.Validate()); err != nil {
		return DeleteShipmentCommand{}, err
	}
	return DeleteShipmentCommand{
		shipmentID: shipmentID,
		sellerID:   sellerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c DeleteShipmentCommand) Validate() error {
	return c.guard.Validate(ErrDeleteShipmentCommandIsNotConstructed)
}

func (c DeleteShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c DeleteShipmentCommand) SellerID() kernel.UUID {
	return c.sellerID
}
