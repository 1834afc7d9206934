package ports

import (
	"context"

	"fastship/internal/core/domain/model/shipment"
)

// TimelinePublisher streams committed timeline events to downstream consumers.
// Delivery is best effort; callers log failures and carry on.
type TimelinePublisher interface {
	Publish(ctx context.Context, events ...*shipment.Event) error
}
