package commands

import (
	"context"

	"fastship/internal/core/domain/model/partner"
)

// UpdatePartnerCommandHandler changes a partner's name, service area or
// capacity. Capacity may not drop below the partner's active shipments.
type UpdatePartnerCommandHandler struct {
	uowFactory AccountUoWFactory
}

func NewUpdatePartnerCommandHandler(uowFactory AccountUoWFactory) UpdatePartnerCommandHandler {
	return UpdatePartnerCommandHandler{uowFactory: uowFactory}
}

func (h *UpdatePartnerCommandHandler) Handle(ctx context.Context, cmd UpdatePartnerCommand) (*partner.Partner, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := uow.PartnerRepository().Get(ctx, cmd.PartnerID())
	if err != nil {
		return nil, err
	}

	if cmd.name != nil {
		if err = p.Rename(*cmd.name); err != nil {
			return nil, err
		}
	}
	if cmd.serviceArea != nil {
		if err = p.UpdateServiceArea(cmd.serviceArea); err != nil {
			return nil, err
		}
	}
	if cmd.maxCapacity != nil {
		if err = p.UpdateCapacity(*cmd.maxCapacity); err != nil {
			return nil, err
		}
	}

	if err = uow.PartnerRepository().Update(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}
