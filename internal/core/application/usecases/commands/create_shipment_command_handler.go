package commands

import (
	"context"
	"errors"
	"slices"
	"time"

	"fastship/internal/core/application/views"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/domain/services"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/metrics"
)

// DefaultEstimatedDeliveryAfter is the initial delivery estimate of a new shipment.
const DefaultEstimatedDeliveryAfter = 72 * time.Hour

// CreateShipmentCommandHandler assigns a delivery partner under its capacity
// limit, stores the shipment with its Placed event and notifies the client.
//
// The partner's slot is taken with PartnerRepository.TryReserve in the same
// transaction as the shipment insert. When a concurrent request takes the
// last slot first, the next candidate is tried.
type CreateShipmentCommandHandler struct {
	uowFactory             ShipmentUoWFactory
	assigner               services.PartnerAssigner
	notifier               ShipmentNotifier
	metrics                *metrics.Metrics
	estimatedDeliveryAfter time.Duration
}

func NewCreateShipmentCommandHandler(
	uowFactory ShipmentUoWFactory,
	notifier ShipmentNotifier,
	m *metrics.Metrics,
	estimatedDeliveryAfter time.Duration,
) CreateShipmentCommandHandler {
	if estimatedDeliveryAfter <= 0 {
		estimatedDeliveryAfter = DefaultEstimatedDeliveryAfter
	}
	return CreateShipmentCommandHandler{
		uowFactory:             uowFactory,
		assigner:               services.NewPartnerAssigner(),
		notifier:               notifier,
		metrics:                m,
		estimatedDeliveryAfter: estimatedDeliveryAfter,
	}
}

func (h *CreateShipmentCommandHandler) Handle(ctx context.Context, cmd CreateShipmentCommand) (views.ShipmentView, error) {
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

	sel, err := uow.SellerRepository().Get(ctx, cmd.SellerID())
	if err != nil {
		return views.ShipmentView{}, err
	}

	destination := cmd.Details().Destination
	assigned, err := h.reserve(ctx, uow, destination)
	if err != nil {
		return views.ShipmentView{}, err
	}

	now := time.Now()
	s, err := shipment.NewShipment(
		kernel.NewUUID(),
		cmd.Details(),
		sel.ID(),
		assigned.ID(),
		sel.ShippingOrigin(destination),
		"assigned to "+assigned.Name(),
		now,
		now.Add(h.estimatedDeliveryAfter),
	)
	if err != nil {
		return views.ShipmentView{}, err
	}

	if err = uow.ShipmentRepository().Add(ctx, s); err != nil {
		return views.ShipmentView{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return views.ShipmentView{}, err
	}
	h.metrics.AssignmentsTotal.WithLabelValues(metrics.OutcomeAssigned).Inc()

	view := views.NewShipmentView(s, sel, assigned)
	h.notifier.ShipmentChanged(ctx, view, s.Timeline().History())

	return view, nil
}

// reserve asks the assigner for the first-fit partner and confirms it with an
// atomic reservation. A partner that lost its last slot to a concurrent
// request is dropped and the assigner is asked again.
func (h *CreateShipmentCommandHandler) reserve(
	ctx context.Context,
	uow ShipmentUoW,
	destination kernel.PostalCode,
) (*partner.Partner, error) {
	remaining, err := uow.PartnerRepository().FindServing(ctx, destination)
	if err != nil {
		return nil, err
	}

	for {
		candidate, err := h.assigner.Assign(destination, remaining)
		if err != nil {
			if errors.Is(err, errs.ErrCapacityExceeded) {
				h.metrics.AssignmentsTotal.WithLabelValues(metrics.OutcomeCapacityExceeded).Inc()
			}
			return nil, err
		}

		reserved, err := uow.PartnerRepository().TryReserve(ctx, candidate.ID())
		if err != nil {
			return nil, err
		}
		if reserved {
			if err = candidate.Reserve(); err != nil {
				return nil, err
			}
			return candidate, nil
		}

		h.metrics.AssignmentsTotal.WithLabelValues(metrics.OutcomeRaceLost).Inc()
		remaining = slices.DeleteFunc(slices.Clone(remaining), func(p *partner.Partner) bool {
			return p.ID().IsEqual(candidate.ID())
		})
	}
}
