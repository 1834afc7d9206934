package postgres

import (
	"fastship/internal/adapters/out/postgres/partnerrepo"
	"fastship/internal/adapters/out/postgres/reviewrepo"
	"fastship/internal/adapters/out/postgres/sellerrepo"
	"fastship/internal/adapters/out/postgres/shipmentrepo"

	"gorm.io/gorm"
)

// Models lists every table of the schema in creation order.
func Models() []any {
	return []any{
		&sellerrepo.SellerDTO{},
		&partnerrepo.PartnerDTO{},
		&shipmentrepo.ShipmentDTO{},
		&shipmentrepo.EventDTO{},
		&shipmentrepo.TagDTO{},
		&reviewrepo.ReviewDTO{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Truncate empties every table. Used by integration tests.
func Truncate(db *gorm.DB) error {
	return db.Exec(
		"TRUNCATE TABLE reviews, shipment_tags, shipment_events, shipments, delivery_partners, sellers CASCADE",
	).Error
}
