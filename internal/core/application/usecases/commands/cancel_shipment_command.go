package commands

import (
	"errors"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/guard"
)

var ErrCancelShipmentCommandIsNotConstructed = errors.New(
	"CancelShipmentCommand must be created via NewCancelShipmentCommand constructor",
)

// CancelShipmentCommand represents a seller withdrawing a shipment.
type CancelShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	sellerID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewCancelShipmentCommand(shipmentID, sellerID kernel.UUID) (CancelShipmentCommand, error) {
	if err := errors.Join(shipmentID.Validate(), sellerID.Validate()); err != nil {
		return CancelShipmentCommand{}, err
	}
	return CancelShipmentCommand{
		shipmentID: shipmentID,
		sellerID:   sellerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CancelShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCancelShipmentCommandIsNotConstructed)
}

func (c CancelShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c CancelShipmentCommand) SellerID() kernel.UUID {
	return c.sellerID
}
