package commands

import (
	"errors"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/guard"
)

var ErrCreateShipmentCommandIsNotConstructed = errors.New(
	"CreateShipmentCommand must be created via NewCreateShipmentCommand constructor",
)

// CreateShipmentCommand represents a seller's request to ship a parcel.
//
// Example:
//
//	cmd, err := NewCreateShipmentCommand(sellerID, "books", 2.5, 11002, "client@example.com", "")
//	if err != nil {
//	    return fmt.Errorf("invalid shipment data: %w", err)
//	}
//	view, err := handler.Handle(ctx, cmd)
type CreateShipmentCommand struct { //nolint:recvcheck //using for validation
	sellerID kernel.UUID
	details  shipment.Details

	guard guard.ConstructorGuard
}

// NewCreateShipmentCommand validates the parcel description. contactPhone is optional.
func NewCreateShipmentCommand(
	sellerID kernel.UUID,
	content string,
	weightKg float64,
	destination int,
	contactEmail string,
	contactPhone string,
) (CreateShipmentCommand, error) {
	cmd := CreateShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	destinationCode, destinationErr := kernel.NewPostalCode(destination)
	email, emailErr := kernel.NewEmail(contactEmail)
	if err := errors.Join(destinationErr, emailErr, sellerID.Validate()); err != nil {
		return CreateShipmentCommand{}, err
	}

	details := shipment.Details{
		Content:      content,
		WeightKg:     weightKg,
		Destination:  destinationCode,
		ContactEmail: email,
		ContactPhone: contactPhone,
	}
	if err := details.Validate(); err != nil {
		return CreateShipmentCommand{}, err
	}

	cmd.sellerID = sellerID
	cmd.details = details
	return cmd, nil
}

func (c CreateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateShipmentCommandIsNotConstructed)
}

func (c CreateShipmentCommand) SellerID() kernel.UUID {
	return c.sellerID
}

func (c CreateShipmentCommand) Details() shipment.Details {
	return c.details
}
