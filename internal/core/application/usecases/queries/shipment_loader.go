package queries

import (
	"context"

	"fastship/internal/core/application/views"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// loadShipments reads the shipments matching where, newest first, and fills
// in their timelines and tags with one extra query each.
func loadShipments(ctx context.Context, db *gorm.DB, where string, args ...any) ([]views.ShipmentReadModel, error) {
	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			s.content,
			s.weight_kg,
			s.destination,
			s.client_contact_email,
			s.client_contact_phone,
			s.status,
			s.created_at,
			s.estimated_delivery,
			sel.id,
			sel.name,
			sel.email,
			sel.address,
			sel.postal_code,
			p.id,
			p.name,
			p.email
		FROM shipments s
		JOIN sellers sel ON sel.id = s.seller_id
		JOIN delivery_partners p ON p.id = s.partner_id
		WHERE `+where+`
		ORDER BY s.created_at DESC, s.id
	`, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shipments := make([]views.ShipmentReadModel, 0)
	index := make(map[uuid.UUID]int)
	ids := make([]uuid.UUID, 0)

	for rows.Next() {
		var (
			m                               views.ShipmentReadModel
			shipmentID, sellerID, partnerID uuid.UUID
		)
		err = rows.Scan(
			&shipmentID,
			&m.Content,
			&m.WeightKg,
			&m.Destination,
			&m.ContactEmail,
			&m.ContactPhone,
			&m.Status,
			&m.CreatedAt,
			&m.EstimatedDelivery,
			&sellerID,
			&m.Seller.Name,
			&m.Seller.Email,
			&m.Seller.Address,
			&m.Seller.PostalCode,
			&partnerID,
			&m.Partner.Name,
			&m.Partner.Email,
		)
		if err != nil {
			return nil, err
		}

		if m.ID, err = kernel.UUIDFromBytes(shipmentID[:]); err != nil {
			return nil, err
		}
		if m.Seller.ID, err = kernel.UUIDFromBytes(sellerID[:]); err != nil {
			return nil, err
		}
		if m.Partner.ID, err = kernel.UUIDFromBytes(partnerID[:]); err != nil {
			return nil, err
		}
		m.CreatedAt = m.CreatedAt.UTC()
		m.EstimatedDelivery = m.EstimatedDelivery.UTC()
		m.Timeline = make([]views.EventReadModel, 0)
		m.Tags = make([]views.TagReadModel, 0)

		index[shipmentID] = len(shipments)
		ids = append(ids, shipmentID)
		shipments = append(shipments, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return shipments, nil
	}
	if err = loadTimelines(ctx, db, ids, index, shipments); err != nil {
		return nil, err
	}
	if err = loadTags(ctx, db, ids, index, shipments); err != nil {
		return nil, err
	}

	return shipments, nil
}

func loadTimelines(
	ctx context.Context,
	db *gorm.DB,
	ids []uuid.UUID,
	index map[uuid.UUID]int,
	shipments []views.ShipmentReadModel,
) error {
	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			id,
			shipment_id,
			created_at,
			status,
			location,
			description
		FROM shipment_events
		WHERE shipment_id IN ?
		ORDER BY shipment_id, created_at, sequence
	`, ids).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e                   views.EventReadModel
			eventID, shipmentID uuid.UUID
		)
		if err = rows.Scan(&eventID, &shipmentID, &e.CreatedAt, &e.Status, &e.Location, &e.Description); err != nil {
			return err
		}
		if e.ID, err = kernel.UUIDFromBytes(eventID[:]); err != nil {
			return err
		}
		e.CreatedAt = e.CreatedAt.UTC()

		i := index[shipmentID]
		shipments[i].Timeline = append(shipments[i].Timeline, e)
	}

	return rows.Err()
}

func loadTags(
	ctx context.Context,
	db *gorm.DB,
	ids []uuid.UUID,
	index map[uuid.UUID]int,
	shipments []views.ShipmentReadModel,
) error {
	rows, err := db.WithContext(ctx).Raw(`
		SELECT shipment_id, tag_name
		FROM shipment_tags
		WHERE shipment_id IN ?
		ORDER BY shipment_id, tag_name
	`, ids).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			shipmentID uuid.UUID
			name       string
		)
		if err = rows.Scan(&shipmentID, &name); err != nil {
			return err
		}

		i := index[shipmentID]
		shipments[i].Tags = append(shipments[i].Tags, views.NewTagReadModel(shipment.TagName(name)))
	}

	return rows.Err()
}
