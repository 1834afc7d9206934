package queries

import (
	"context"

	"fastship/internal/core/application/views"
	"fastship/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetShipmentQueryHandler reads one shipment with its seller, partner,
// timeline and tags.
type GetShipmentQueryHandler struct {
	db *gorm.DB
}

func NewGetShipmentQueryHandler(db *gorm.DB) GetShipmentQueryHandler {
	return GetShipmentQueryHandler{db: db}
}

// Handle fails with errs.ErrObjectNotFound when no shipment has the id.
func (h GetShipmentQueryHandler) Handle(ctx context.Context, query GetShipmentQuery) (views.ShipmentReadModel, error) {
	if err := query.Validate(); err != nil {
		return views.ShipmentReadModel{}, err
	}

	id := query.ShipmentID()
	found, err := loadShipments(ctx, h.db, "s.id = ?", id.Bytes())
	if err != nil {
		return views.ShipmentReadModel{}, err
	}
	if len(found) == 0 {
		return views.ShipmentReadModel{}, errs.NewObjectNotFoundError("shipment", id.String())
	}

	return found[0], nil
}
