// Package queries contains read-only operations. Handlers read straight from
// the database into views.ShipmentReadModel and never load aggregates.
package queries

import (
	"errors"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/guard"
)

var ErrGetShipmentQueryIsNotConstructed = errors.New(
	"GetShipmentQuery must be created via NewGetShipmentQuery constructor",
)

// GetShipmentQuery looks up one shipment by id. It needs no credentials: the
// id is what a client receives in the placed e-mail and uses for tracking.
//
// Example:
//
//	query, err := NewGetShipmentQuery(id)
//	if err != nil {
//	    return err
//	}
//	shipment, err := handler.Handle(ctx, query)
type GetShipmentQuery struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetShipmentQuery(shipmentID kernel.UUID) (GetShipmentQuery, error) {
	if err := shipmentID.Validate(); err != nil {
		return GetShipmentQuery{}, err
	}
	return GetShipmentQuery{shipmentID: shipmentID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetShipmentQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentQueryIsNotConstructed)
}

func (q GetShipmentQuery) ShipmentID() kernel.UUID {
	return q.shipmentID
}
