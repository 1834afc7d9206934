package commands

import (
	"errors"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/guard"
)

var ErrShipmentTagCommandIsNotConstructed = errors.New(
	"ShipmentTagCommand must be created via NewShipmentTagCommand constructor",
)

// ShipmentTagCommand attaches a tag to, or detaches it from, a seller's shipment.
type ShipmentTagCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	sellerID   kernel.UUID
	tag        shipment.TagName

	guard guard.ConstructorGuard
}

func NewShipmentTagCommand(shipmentID, sellerID kernel.UUID, tag string) (ShipmentTagCommand, error) {
	name, tagErr := shipment.ParseTagName(tag)
	if err := errors.Join(shipmentID.Validate(), sellerID.Validate(), tagErr); err != nil {
		return ShipmentTagCommand{}, err
	}

	return ShipmentTagCommand{
		shipmentID: shipmentID,
		sellerID:   sellerID,
		tag:        name,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ShipmentTagCommand) Validate() error {
	return c.guard.Validate(ErrShipmentTagCommandIsNotConstructed)
}

func (c ShipmentTagCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c ShipmentTagCommand) SellerID() kernel.UUID {
	return c.sellerID
}

func (c ShipmentTagCommand) Tag() shipment.TagName {
	return c.tag
}
