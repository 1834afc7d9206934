package commands

import (
	"context"
)

// DeleteShipmentCommandHandler hard-deletes a seller's shipment. A shipment
// that was still active gives its partner slot back.
type DeleteShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
}

func NewDeleteShipmentCommandHandler(uowFactory ShipmentUoWFactory) DeleteShipmentCommandHandler {
	return DeleteShipmentCommandHandler{uowFactory: uowFactory}
}

func (h *DeleteShipmentCommandHandler) Handle(ctx context.Context, cmd DeleteShipmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	s, err := uow.ShipmentRepository().GetForUpdate(ctx, cmd.ShipmentID())
	if err != nil {
		return err
	}
	if !s.IsOwnedBy(cmd.SellerID()) {
		return notOwner(cmd.SellerID(), s)
	}

	if err = uow.ShipmentRepository().Delete(ctx, s.ID()); err != nil {
		return err
	}
	if s.IsActive() {
		if err = uow.PartnerRepository().Release(ctx, s.PartnerID()); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
