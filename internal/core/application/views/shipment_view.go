// Package views holds the read models returned by commands and queries.
package views

import (
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/core/domain/model/seller"
	"fastship/internal/core/domain/model/shipment"
)

// ShipmentView is a shipment hydrated with the seller that created it and the
// partner that carries it.
type ShipmentView struct {
	Shipment *shipment.Shipment
	Seller   *seller.Seller
	Partner  *partner.Partner
}

func NewShipmentView(s *shipment.Shipment, sel *seller.Seller, p *partner.Partner) ShipmentView {
	return ShipmentView{Shipment: s, Seller: sel, Partner: p}
}
