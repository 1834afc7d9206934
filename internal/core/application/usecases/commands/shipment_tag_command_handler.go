package commands

import (
	"context"

	"fastship/internal/core/application/views"
	"fastship/internal/core/domain/model/shipment"
)

// AddShipmentTagCommandHandler attaches a tag. Attaching a tag twice fails
// with errs.ErrDuplicateAssociation.
type AddShipmentTagCommandHandler struct {
	uowFactory ShipmentUoWFactory
}

func NewAddShipmentTagCommandHandler(uowFactory ShipmentUoWFactory) AddShipmentTagCommandHandler {
	return AddShipmentTagCommandHandler{uowFactory: uowFactory}
}

func (h *AddShipmentTagCommandHandler) Handle(ctx context.Context, cmd ShipmentTagCommand) (views.ShipmentView, error) {
	return changeTags(ctx, h.uowFactory, cmd, (*shipment.Shipment).AddTag)
}

// RemoveShipmentTagCommandHandler detaches a tag. Detaching a tag that is not
// attached fails with errs.ErrMissingAssociation.
type RemoveShipmentTagCommandHandler struct {
	uowFactory ShipmentUoWFactory
}

func NewRemoveShipmentTagCommandHandler(uowFactory ShipmentUoWFactory) RemoveShipmentTagCommandHandler {
	return RemoveShipmentTagCommandHandler{uowFactory: uowFactory}
}

func (h *RemoveShipmentTagCommandHandler) Handle(ctx context.Context, cmd ShipmentTagCommand) (views.ShipmentView, error) {
	return changeTags(ctx, h.uowFactory, cmd, (*shipment.Shipment).RemoveTag)
}

func changeTags(
	ctx context.Context,
	uowFactory ShipmentUoWFactory,
	cmd ShipmentTagCommand,
	change func(*shipment.Shipment, shipment.TagName) error,
) (views.ShipmentView, error) {
	if err := cmd.Validate(); err != nil {
		return views.ShipmentView{}, err
	}

	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return views.ShipmentView{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	s, err := uow.ShipmentRepository().GetForUpdate(ctx, cmd.ShipmentID())
	if err != nil {
		return views.ShipmentView{}, err
	}
	if !s.IsOwnedBy(cmd.SellerID()) {
		return views.ShipmentView{}, notOwner(cmd.SellerID(), s)
	}

	if err = change(s, cmd.Tag()); err != nil {
		return views.ShipmentView{}, err
	}
	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return views.ShipmentView{}, err
	}

	view, err := loadView(ctx, uow, s)
	if err != nil {
		return views.ShipmentView{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return views.ShipmentView{}, err
	}
	return view, nil
}
