package commands

import (
	"context"
	"time"

	"fastship/internal/core/application/views"
	"fastship/internal/core/domain/model/shipment"
)

// CancelShipmentCommandHandler lets the owning seller cancel a shipment that
// has not reached a terminal status. The partner's slot is released.
type CancelShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	notifier   ShipmentNotifier
}

func NewCancelShipmentCommandHandler(uowFactory ShipmentUoWFactory, notifier ShipmentNotifier) CancelShipmentCommandHandler {
	return CancelShipmentCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

func (h *CancelShipmentCommandHandler) Handle(ctx context.Context, cmd CancelShipmentCommand) (views.ShipmentView, error) {
	if err := cmd.Validate(); err != nil {
		return views.ShipmentView{}, err
	}

	uow := h.uowFactory.Create()
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

	event, err := s.Cancel(time.Now())
	if err != nil {
		return views.ShipmentView{}, err
	}

	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return views.ShipmentView{}, err
	}
	if err = releaseOnTerminal(ctx, uow, s, event); err != nil {
		return views.ShipmentView{}, err
	}

	view, err := loadView(ctx, uow, s)
	if err != nil {
		return views.ShipmentView{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return views.ShipmentView{}, err
	}

	h.notifier.ShipmentChanged(ctx, view, []*shipment.Event{event})
	return view, nil
}
