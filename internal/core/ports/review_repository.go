package ports

import (
	"context"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
)

type ReviewRepository interface {
	// Add persists a review. A second review of the same shipment fails with
	// shipment.ErrReviewAlreadySubmitted.
	Add(ctx context.Context, review *shipment.Review) error

	ExistsForShipment(ctx context.Context, shipmentID kernel.UUID) (bool, error)
}
