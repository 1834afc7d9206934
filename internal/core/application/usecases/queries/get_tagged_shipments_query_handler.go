package queries

import (
	"context"

	"fastship/internal/core/application/views"

	"gorm.io/gorm"
)

type GetTaggedShipmentsQueryHandler struct {
	db *gorm.DB
}

func NewGetTaggedShipmentsQueryHandler(db *gorm.DB) GetTaggedShipmentsQueryHandler {
	return GetTaggedShipmentsQueryHandler{db: db}
}

// Handle returns the tagged shipments newest first. No match is an empty
// slice, not an error.
func (h GetTaggedShipmentsQueryHandler) Handle(
	ctx context.Context,
	query GetTaggedShipmentsQuery,
) ([]views.ShipmentReadModel, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return loadShipments(ctx, h.db,
		"s.id IN (SELECT shipment_id FROM shipment_tags WHERE tag_name = ?)", query.Tag().String())
}
