package commands

import (
	"context"

	"fastship/internal/core/application/views"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/errs"
)

// loadView hydrates s with its seller and partner inside the current transaction.
func loadView(ctx context.Context, uow ShipmentUoW, s *shipment.Shipment) (views.ShipmentView, error) {
	sel, err := uow.SellerRepository().Get(ctx, s.SellerID())
	if err != nil {
		return views.ShipmentView{}, err
	}
	p, err := uow.PartnerRepository().Get(ctx, s.PartnerID())
	if err != nil {
		return views.ShipmentView{}, err
	}
	return views.NewShipmentView(s, sel, p), nil
}

// releaseOnTerminal frees the partner slot held by s when event ended it.
// Call it only after the event is stored, so a lost write never releases.
func releaseOnTerminal(ctx context.Context, uow ShipmentUoW, s *shipment.Shipment, event *shipment.Event) error {
	if event == nil || !event.Status().IsTerminal() {
		return nil
	}
	return uow.PartnerRepository().Release(ctx, s.PartnerID())
}

func notOwner(seller kernel.UUID, s *shipment.Shipment) error {
	return errs.NewNotAuthorizedError("seller "+seller.String(), "shipment "+s.ID().String())
}
