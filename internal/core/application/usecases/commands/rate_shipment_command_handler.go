package commands

import (
	"context"
	"time"

	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/errs"
)

// RateShipmentCommandHandler stores the single review of a shipment.
// A token that does not verify as a review token is ClientNotAuthorized;
// a second review of the same shipment is shipment.ErrReviewAlreadySubmitted.
type RateShipmentCommandHandler struct {
	uowFactory ReviewUoWFactory
	tokens     ReviewTokenVerifier
}

func NewRateShipmentCommandHandler(uowFactory ReviewUoWFactory, tokens ReviewTokenVerifier) RateShipmentCommandHandler {
	return RateShipmentCommandHandler{
		uowFactory: uowFactory,
		tokens:     tokens,
	}
}

func (h *RateShipmentCommandHandler) Handle(ctx context.Context, cmd RateShipmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	shipmentID, ok := h.tokens.VerifyReviewToken(cmd.Token())
	if !ok {
		return errs.NewNotAuthorizedError("review token", "shipment review")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	s, err := uow.ShipmentRepository().Get(ctx, shipmentID)
	if err != nil {
		return err
	}

	reviewed, err := uow.ReviewRepository().ExistsForShipment(ctx, s.ID())
	if err != nil {
		return err
	}
	if reviewed {
		return shipment.ErrReviewAlreadySubmitted
	}

	review, err := shipment.NewReview(s.ID(), cmd.Rating(), cmd.Comment(), time.Now())
	if err != nil {
		return err
	}

	if err = uow.ReviewRepository().Add(ctx, review); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
