package commands

import (
	"context"
	"time"

	"fastship/internal/core/application/views"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/errs"
)

// UpdateShipmentCommandHandler applies a partner's progress report.
//
// Only the partner bound to the shipment may update it. The estimated delivery
// is replaced when supplied; any other supplied field produces exactly one
// timeline event. Entering a terminal status releases the partner's slot. The client
// is notified per status unless only the estimate changed.
type UpdateShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	notifier   ShipmentNotifier
}

func NewUpdateShipmentCommandHandler(uowFactory ShipmentUoWFactory, notifier ShipmentNotifier) UpdateShipmentCommandHandler {
	return UpdateShipmentCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

func (h *UpdateShipmentCommandHandler) Handle(ctx context.Context, cmd UpdateShipmentCommand) (views.ShipmentView, error) {
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
	if !s.IsBoundTo(cmd.PartnerID()) {
		return views.ShipmentView{}, errs.NewNotAuthorizedError(
			"partner "+cmd.PartnerID().String(), "shipment "+s.ID().String())
	}

	if at := cmd.EstimatedDelivery(); !at.IsZero() {
		if err = s.SetEstimatedDelivery(at); err != nil {
			return views.ShipmentView{}, err
		}
	}

	var event *shipment.Event
	if draft := cmd.Draft(); !draft.IsEmpty() {
		if event, err = s.Append(draft, time.Now()); err != nil {
			return views.ShipmentView{}, err
		}
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

	if event != nil {
		h.notifier.ShipmentChanged(ctx, view, []*shipment.Event{event})
	}

	return view, nil
}
